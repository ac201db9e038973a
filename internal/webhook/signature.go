package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	SignatureHeader  = "Mux-Signature"
	DefaultTolerance = 300 * time.Second
)

var (
	ErrMissingSignature   = errors.New("webhook: missing signature header")
	ErrMalformedSignature = errors.New("webhook: malformed signature header")
	ErrTimestampExpired   = errors.New("webhook: signature timestamp outside tolerance")
	ErrSignatureMismatch  = errors.New("webhook: signature mismatch")
)

// Verifier authenticates Mux webhook deliveries. The signed payload is
// "{t}.{raw body}" under HMAC-SHA256 with the shared secret.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

type VerifierOption func(*Verifier)

func WithTolerance(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.tolerance = d
	}
}

func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

func NewVerifier(secret string, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		secret:    []byte(secret),
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type signatureHeader struct {
	timestamp int64
	digests   [][]byte
}

func parseSignatureHeader(header string) (*signatureHeader, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, ErrMissingSignature
	}

	sh := &signatureHeader{}
	haveTimestamp := false

	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}

		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad timestamp", ErrMalformedSignature)
			}
			sh.timestamp = ts
			haveTimestamp = true
		case "v1":
			digest, err := hex.DecodeString(value)
			if err != nil {
				return nil, fmt.Errorf("%w: bad digest", ErrMalformedSignature)
			}
			sh.digests = append(sh.digests, digest)
		}
	}

	if !haveTimestamp {
		return nil, fmt.Errorf("%w: missing timestamp", ErrMalformedSignature)
	}
	if len(sh.digests) == 0 {
		return nil, fmt.Errorf("%w: missing v1 digest", ErrMalformedSignature)
	}

	return sh, nil
}

// Verify checks header against the raw request body. A nil error means the
// delivery is authentic and fresh. Only old timestamps are rejected.
func (v *Verifier) Verify(body []byte, header string) error {
	sh, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	if v.now().Unix()-sh.timestamp > int64(v.tolerance/time.Second) {
		return ErrTimestampExpired
	}

	expected := computeSignature(v.secret, sh.timestamp, body)
	for _, digest := range sh.digests {
		if hmac.Equal(expected, digest) {
			return nil
		}
	}

	return ErrSignatureMismatch
}

func computeSignature(secret []byte, timestamp int64, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

// Sign builds a Mux-Signature header value for body at time t.
func Sign(secret string, body []byte, t time.Time) string {
	ts := t.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(computeSignature([]byte(secret), ts, body)))
}
