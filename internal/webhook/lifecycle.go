package webhook

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/errs"
	"github.com/grvbrk/vidhook_server/internal/models"
)

// PlaybackURLTemplate is the HLS manifest URL for a public playback id.
const PlaybackURLTemplate = "https://stream.mux.com/%s.m3u8"

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failed"
)

// Result records what happened to one delivery. It is logged and returned to
// the sender; the HTTP status stays 200 whatever the outcome.
type Result struct {
	EventID   string    `json:"event_id,omitempty"`
	EventType EventType `json:"event_type"`
	Outcome   Outcome   `json:"outcome"`
	VideoID   uuid.UUID `json:"video_id"`
	Reason    string    `json:"reason,omitempty"`
}

func (r Result) String() string {
	s := fmt.Sprintf("type=%s outcome=%s", r.EventType, r.Outcome)
	if r.EventID != "" {
		s += " id=" + r.EventID
	}
	if r.VideoID != uuid.Nil {
		s += " video=" + r.VideoID.String()
	}
	if r.Reason != "" {
		s += " reason=" + r.Reason
	}
	return s
}

// VideoLifecycleStore is the persistence the lifecycle transitions need.
// Update methods report false when no video matched.
type VideoLifecycleStore interface {
	MarkVideoProcessing(ctx context.Context, videoID uuid.UUID, assetID string) (bool, error)
	AttachMuxAsset(ctx context.Context, videoID uuid.UUID, uploadID, assetID string) (bool, error)
	GetVideoByMuxAssetID(ctx context.Context, assetID string) (*models.Video, error)
	MarkVideoReady(ctx context.Context, videoID uuid.UUID, playback models.Playback) (bool, error)
}

// DeliveryLog remembers delivery ids already handled.
type DeliveryLog interface {
	Claim(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

type Processor struct {
	Store      VideoLifecycleStore
	Deliveries DeliveryLog
	Logger     *log.Logger
}

// NewProcessor builds a Processor. deliveries may be nil, in which case
// redelivered events are simply applied again.
func NewProcessor(store VideoLifecycleStore, deliveries DeliveryLog, logger *log.Logger) *Processor {
	return &Processor{
		Store:      store,
		Deliveries: deliveries,
		Logger:     logger,
	}
}

// Process applies env to the stored video. It never returns an error: every
// failure is folded into the Result.
func (p *Processor) Process(ctx context.Context, env *Envelope) (res Result) {
	res = Result{EventID: env.ID, EventType: env.Type}

	defer func() {
		if rec := recover(); rec != nil {
			res.Outcome = OutcomeFailed
			res.Reason = fmt.Sprintf("panic: %v", rec)
		}
		if res.Outcome == OutcomeFailed {
			p.release(ctx, env.ID)
		}
		p.Logger.Println("Mux webhook processed:", res)
	}()

	event, err := env.Decode()
	if err != nil {
		res.Outcome = OutcomeSkipped
		res.Reason = err.Error()
		return res
	}

	if _, ok := event.(Unrecognized); ok {
		res.Outcome = OutcomeIgnored
		res.Reason = "unhandled event type"
		return res
	}

	if err := event.Validate(); err != nil {
		res.Outcome = OutcomeSkipped
		res.Reason = err.Error()
		return res
	}

	if !p.claim(ctx, env.ID) {
		res.Outcome = OutcomeDuplicate
		res.Reason = "delivery already processed"
		return res
	}

	switch e := event.(type) {
	case AssetCreated:
		p.assetCreated(ctx, e, &res)
	case UploadAssetCreated:
		p.uploadAssetCreated(ctx, e, &res)
	case AssetReady:
		p.assetReady(ctx, e, &res)
	}

	return res
}

func (p *Processor) claim(ctx context.Context, id string) bool {
	if p.Deliveries == nil || id == "" {
		return true
	}

	first, err := p.Deliveries.Claim(ctx, id)
	if err != nil {
		// Without the log we still apply the event; writes are idempotent.
		p.Logger.Println("Error claiming webhook delivery", id, err)
		return true
	}
	return first
}

func (p *Processor) release(ctx context.Context, id string) {
	if p.Deliveries == nil || id == "" {
		return
	}
	if err := p.Deliveries.Release(ctx, id); err != nil {
		p.Logger.Println("Error releasing webhook delivery", id, err)
	}
}

func parsePassthrough(raw string, res *Result) (uuid.UUID, bool) {
	videoID, err := uuid.Parse(raw)
	if err != nil {
		res.Outcome = OutcomeSkipped
		res.Reason = "passthrough is not a video id"
		return uuid.Nil, false
	}
	res.VideoID = videoID
	return videoID, true
}

func (p *Processor) assetCreated(ctx context.Context, e AssetCreated, res *Result) {
	videoID, ok := parsePassthrough(e.Passthrough, res)
	if !ok {
		return
	}

	found, err := p.Store.MarkVideoProcessing(ctx, videoID, e.AssetID)
	finish(res, found, err)
}

func (p *Processor) uploadAssetCreated(ctx context.Context, e UploadAssetCreated, res *Result) {
	videoID, ok := parsePassthrough(e.Passthrough, res)
	if !ok {
		return
	}

	found, err := p.Store.AttachMuxAsset(ctx, videoID, e.UploadID, e.AssetID)
	finish(res, found, err)
}

func (p *Processor) assetReady(ctx context.Context, e AssetReady, res *Result) {
	video, err := p.Store.GetVideoByMuxAssetID(ctx, e.AssetID)
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			res.Outcome = OutcomeSkipped
			res.Reason = "no video for asset " + e.AssetID
			return
		}
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		return
	}
	res.VideoID = video.ID

	if !video.Status.CanAdvanceTo(models.VideoStatusReady) {
		res.Outcome = OutcomeSkipped
		res.Reason = fmt.Sprintf("video is %s", video.Status)
		return
	}
	if video.MuxPlaybackID != nil && *video.MuxPlaybackID != e.PlaybackID {
		res.Outcome = OutcomeSkipped
		res.Reason = "playback already set to " + *video.MuxPlaybackID
		return
	}

	found, err := p.Store.MarkVideoReady(ctx, video.ID, models.Playback{
		PlaybackID: e.PlaybackID,
		VideoLink:  fmt.Sprintf(PlaybackURLTemplate, e.PlaybackID),
		Duration:   *e.Duration,
		Resolution: e.Resolution,
	})
	finish(res, found, err)
}

func finish(res *Result, found bool, err error) {
	switch {
	case err != nil:
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
	case !found:
		res.Outcome = OutcomeSkipped
		res.Reason = "video not found"
	default:
		res.Outcome = OutcomeApplied
	}
}
