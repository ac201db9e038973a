package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type EventType string

const (
	EventAssetCreated       EventType = "video.asset.created"
	EventUploadAssetCreated EventType = "video.upload.asset_created"
	EventAssetReady         EventType = "video.asset.ready"
)

var (
	ErrInvalidPayload = errors.New("webhook: payload is not valid JSON")
	ErrMissingType    = errors.New("webhook: payload has no event type")
)

// Envelope is the outer shape shared by every Mux webhook.
type Envelope struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	CreatedAt string          `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// ParseEnvelope decodes an already verified body. It fails only when the body
// is not JSON or carries no event type.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	env.Type = EventType(strings.TrimSpace(string(env.Type)))
	if env.Type == "" {
		return nil, ErrMissingType
	}

	return &env, nil
}

// Event is one of AssetCreated, UploadAssetCreated, AssetReady or
// Unrecognized.
type Event interface {
	EventType() EventType
	Validate() error
}

type AssetCreated struct {
	AssetID     string
	Passthrough string
}

type UploadAssetCreated struct {
	UploadID    string
	AssetID     string
	Passthrough string
}

type AssetReady struct {
	AssetID     string
	PlaybackID  string
	Duration    *float64
	Resolution  string
	Passthrough string
}

type Unrecognized struct {
	Tag EventType
}

func (AssetCreated) EventType() EventType       { return EventAssetCreated }
func (UploadAssetCreated) EventType() EventType { return EventUploadAssetCreated }
func (AssetReady) EventType() EventType         { return EventAssetReady }
func (u Unrecognized) EventType() EventType     { return u.Tag }

type missingFieldError struct {
	field string
}

func (e *missingFieldError) Error() string {
	return "missing " + e.field
}

func (e AssetCreated) Validate() error {
	if e.Passthrough == "" {
		return &missingFieldError{"passthrough"}
	}
	return nil
}

func (e UploadAssetCreated) Validate() error {
	switch {
	case e.Passthrough == "":
		return &missingFieldError{"passthrough"}
	case e.AssetID == "":
		return &missingFieldError{"asset id"}
	case e.UploadID == "":
		return &missingFieldError{"upload id"}
	}
	return nil
}

func (e AssetReady) Validate() error {
	switch {
	case e.AssetID == "":
		return &missingFieldError{"asset id"}
	case e.PlaybackID == "":
		return &missingFieldError{"playback id"}
	case e.Duration == nil:
		return &missingFieldError{"duration"}
	case e.Resolution == "":
		return &missingFieldError{"resolution"}
	}
	return nil
}

func (Unrecognized) Validate() error { return nil }

type playbackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

// eventData covers every field read from data across the handled events.
type eventData struct {
	ID                  string       `json:"id"`
	AssetID             string       `json:"asset_id"`
	Passthrough         string       `json:"passthrough"`
	PlaybackIDs         []playbackID `json:"playback_ids"`
	PlaybackID          string       `json:"playback_id"`
	Duration            *float64     `json:"duration"`
	Resolution          string       `json:"resolution"`
	MaxStoredResolution string       `json:"max_stored_resolution"`
	ResolutionTier      string       `json:"resolution_tier"`
	NewAssetSettings    *struct {
		Passthrough string `json:"passthrough"`
	} `json:"new_asset_settings"`
}

func (d *eventData) passthrough() string {
	if d.Passthrough != "" {
		return d.Passthrough
	}
	if d.NewAssetSettings != nil {
		return d.NewAssetSettings.Passthrough
	}
	return ""
}

func (d *eventData) playbackID() string {
	for _, p := range d.PlaybackIDs {
		if p.Policy == "public" && p.ID != "" {
			return p.ID
		}
	}
	for _, p := range d.PlaybackIDs {
		if p.ID != "" {
			return p.ID
		}
	}
	return d.PlaybackID
}

func (d *eventData) resolution() string {
	for _, r := range []string{d.Resolution, d.MaxStoredResolution, d.ResolutionTier} {
		if r != "" {
			return r
		}
	}
	return ""
}

// Decode turns the envelope's data into its typed event. Unknown types decode
// to Unrecognized without looking at data.
func (env *Envelope) Decode() (Event, error) {
	switch env.Type {
	case EventAssetCreated, EventUploadAssetCreated, EventAssetReady:
	default:
		return Unrecognized{Tag: env.Type}, nil
	}

	var d eventData
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, fmt.Errorf("decode %s data: %w", env.Type, err)
		}
	}

	switch env.Type {
	case EventAssetCreated:
		return AssetCreated{
			AssetID:     strings.TrimSpace(d.ID),
			Passthrough: strings.TrimSpace(d.passthrough()),
		}, nil
	case EventUploadAssetCreated:
		return UploadAssetCreated{
			UploadID:    strings.TrimSpace(d.ID),
			AssetID:     strings.TrimSpace(d.AssetID),
			Passthrough: strings.TrimSpace(d.passthrough()),
		}, nil
	default:
		return AssetReady{
			AssetID:     strings.TrimSpace(d.ID),
			PlaybackID:  strings.TrimSpace(d.playbackID()),
			Duration:    d.Duration,
			Resolution:  strings.TrimSpace(d.resolution()),
			Passthrough: strings.TrimSpace(d.passthrough()),
		}, nil
	}
}
