package webhook_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/vidhook_server/internal/webhook"
)

const testSecret = "mux-webhook-secret"

var fixedNow = time.Unix(1_700_000_000, 0)

func newTestVerifier() *webhook.Verifier {
	return webhook.NewVerifier(testSecret, webhook.WithClock(func() time.Time { return fixedNow }))
}

func TestVerifyAcceptsFreshSignature(t *testing.T) {
	body := []byte(`{"type":"video.asset.created","data":{"passthrough":"abc"}}`)
	header := webhook.Sign(testSecret, body, fixedNow)

	v := newTestVerifier()
	require.NoError(t, v.Verify(body, header))
}

func TestVerifyAcceptsTimestampAtToleranceEdge(t *testing.T) {
	body := []byte(`{}`)
	header := webhook.Sign(testSecret, body, fixedNow.Add(-300*time.Second))

	assert.NoError(t, newTestVerifier().Verify(body, header))
}

func TestVerifyAcceptsFutureTimestamp(t *testing.T) {
	body := []byte(`{}`)
	header := webhook.Sign(testSecret, body, fixedNow.Add(time.Hour))

	assert.NoError(t, newTestVerifier().Verify(body, header))
}

func TestVerifyRejectsExpiredTimestamp(t *testing.T) {
	body := []byte(`{}`)
	header := webhook.Sign(testSecret, body, fixedNow.Add(-301*time.Second))

	err := newTestVerifier().Verify(body, header)
	assert.ErrorIs(t, err, webhook.ErrTimestampExpired)
}

func TestVerifyRejectsMutations(t *testing.T) {
	body := []byte(`{"type":"video.asset.ready","data":{"id":"asset-1"}}`)
	header := webhook.Sign(testSecret, body, fixedNow)
	v := newTestVerifier()

	t.Run("body", func(t *testing.T) {
		mutated := append([]byte{}, body...)
		mutated[len(mutated)-3] = 'X'
		assert.ErrorIs(t, v.Verify(mutated, header), webhook.ErrSignatureMismatch)
	})

	t.Run("whitespace in body", func(t *testing.T) {
		mutated := append([]byte(" "), body...)
		assert.ErrorIs(t, v.Verify(mutated, header), webhook.ErrSignatureMismatch)
	})

	t.Run("secret", func(t *testing.T) {
		other := webhook.NewVerifier(testSecret+"x", webhook.WithClock(func() time.Time { return fixedNow }))
		assert.ErrorIs(t, other.Verify(body, header), webhook.ErrSignatureMismatch)
	})

	t.Run("digest character", func(t *testing.T) {
		idx := strings.Index(header, "v1=") + len("v1=")
		replacement := byte('0')
		if header[idx] == '0' {
			replacement = '1'
		}
		mutated := header[:idx] + string(replacement) + header[idx+1:]
		assert.ErrorIs(t, v.Verify(body, mutated), webhook.ErrSignatureMismatch)
	})

	t.Run("timestamp", func(t *testing.T) {
		resigned := strings.Replace(header, "t=1700000000", "t=1700000001", 1)
		assert.ErrorIs(t, v.Verify(body, resigned), webhook.ErrSignatureMismatch)
	})
}

func TestVerifyAcceptsAnyMatchingDigest(t *testing.T) {
	body := []byte(`{"type":"video.asset.created"}`)
	header := webhook.Sign(testSecret, body, fixedNow)
	header = strings.Replace(header, "v1=", "v1="+strings.Repeat("ab", 32)+",v1=", 1)

	assert.NoError(t, newTestVerifier().Verify(body, header))
}

func TestVerifyMalformedHeaders(t *testing.T) {
	body := []byte(`{}`)
	good := webhook.Sign(testSecret, body, fixedNow)
	digest := good[strings.Index(good, "v1="):]

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"empty", "", webhook.ErrMissingSignature},
		{"blank", "   ", webhook.ErrMissingSignature},
		{"no timestamp", digest, webhook.ErrMalformedSignature},
		{"no digest", "t=1700000000", webhook.ErrMalformedSignature},
		{"non numeric timestamp", "t=soon," + digest, webhook.ErrMalformedSignature},
		{"non hex digest", "t=1700000000,v1=zz", webhook.ErrMalformedSignature},
		{"garbage", "not a signature", webhook.ErrMalformedSignature},
	}

	v := newTestVerifier()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Verify(body, tc.header)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestVerifyToleratesSpacesAroundSegments(t *testing.T) {
	body := []byte(`{}`)
	header := webhook.Sign(testSecret, body, fixedNow)
	header = strings.Replace(header, ",", " , ", 1)

	assert.NoError(t, newTestVerifier().Verify(body, header))
}
