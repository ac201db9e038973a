package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/vidhook_server/internal/handlers"
	"github.com/grvbrk/vidhook_server/internal/webhook"
)

const webhookSecret = "whsec_test"

type recordingProcessor struct {
	envelopes []*webhook.Envelope
	outcome   webhook.Outcome
}

func (p *recordingProcessor) Process(_ context.Context, env *webhook.Envelope) webhook.Result {
	p.envelopes = append(p.envelopes, env)
	outcome := p.outcome
	if outcome == "" {
		outcome = webhook.OutcomeApplied
	}
	return webhook.Result{EventType: env.Type, Outcome: outcome}
}

func testLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func postWebhook(h *handlers.WebhookHandler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/mux/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(webhook.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	h.HandlerMuxWebhook(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWebhookWithoutSecretIs500(t *testing.T) {
	processor := &recordingProcessor{}
	h := handlers.NewWebhookHandler("", processor, testLogger())

	body := []byte(`{"type":"video.asset.created"}`)
	rec := postWebhook(h, body, webhook.Sign("anything", body, time.Now()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, processor.envelopes)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	processor := &recordingProcessor{}
	h := handlers.NewWebhookHandler(webhookSecret, processor, testLogger())

	rec := postWebhook(h, []byte(`{"type":"video.asset.created"}`), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing signature", decodeBody(t, rec)["message"])
	assert.Empty(t, processor.envelopes)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	processor := &recordingProcessor{}
	h := handlers.NewWebhookHandler(webhookSecret, processor, testLogger())

	body := []byte(`{"type":"video.asset.created"}`)
	rec := postWebhook(h, body, webhook.Sign("wrong-secret", body, time.Now()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid signature", decodeBody(t, rec)["message"])
	assert.Empty(t, processor.envelopes)
}

func TestWebhookRejectsStaleSignature(t *testing.T) {
	processor := &recordingProcessor{}
	h := handlers.NewWebhookHandler(webhookSecret, processor, testLogger())

	body := []byte(`{"type":"video.asset.created"}`)
	rec := postWebhook(h, body, webhook.Sign(webhookSecret, body, time.Now().Add(-10*time.Minute)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, processor.envelopes)
}

func TestWebhookHonoursConfiguredTolerance(t *testing.T) {
	processor := &recordingProcessor{}
	h := handlers.NewWebhookHandler(webhookSecret, processor, testLogger(), webhook.WithTolerance(15*time.Minute))

	body := []byte(`{"id":"evt-late","type":"video.asset.created","data":{"passthrough":"v"}}`)
	rec := postWebhook(h, body, webhook.Sign(webhookSecret, body, time.Now().Add(-10*time.Minute)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postWebhook(h, body, webhook.Sign(webhookSecret, body, time.Now().Add(-20*time.Minute)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, processor.envelopes, 1)
}

func TestWebhookRejectsMissingType(t *testing.T) {
	processor := &recordingProcessor{}
	h := handlers.NewWebhookHandler(webhookSecret, processor, testLogger())

	body := []byte(`{"data":{"id":"asset-1"}}`)
	rec := postWebhook(h, body, webhook.Sign(webhookSecret, body, time.Now()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing event type", decodeBody(t, rec)["message"])
}

func TestWebhookRejectsInvalidJSON(t *testing.T) {
	processor := &recordingProcessor{}
	h := handlers.NewWebhookHandler(webhookSecret, processor, testLogger())

	body := []byte(`{"type":`)
	rec := postWebhook(h, body, webhook.Sign(webhookSecret, body, time.Now()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid payload", decodeBody(t, rec)["message"])
}

func TestWebhookAcknowledgesVerifiedEvent(t *testing.T) {
	processor := &recordingProcessor{}
	h := handlers.NewWebhookHandler(webhookSecret, processor, testLogger())

	body := []byte(`{"id":"evt-1","type":"video.asset.created","data":{"passthrough":"v"}}`)
	rec := postWebhook(h, body, webhook.Sign(webhookSecret, body, time.Now()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "applied", decodeBody(t, rec)["outcome"])
	require.Len(t, processor.envelopes, 1)
	assert.Equal(t, webhook.EventAssetCreated, processor.envelopes[0].Type)
}

func TestWebhookAcknowledgesUnhandledOutcomes(t *testing.T) {
	for _, outcome := range []webhook.Outcome{webhook.OutcomeIgnored, webhook.OutcomeSkipped, webhook.OutcomeFailed} {
		processor := &recordingProcessor{outcome: outcome}
		h := handlers.NewWebhookHandler(webhookSecret, processor, testLogger())

		body := []byte(`{"type":"video.asset.deleted"}`)
		rec := postWebhook(h, body, webhook.Sign(webhookSecret, body, time.Now()))

		assert.Equal(t, http.StatusOK, rec.Code, outcome)
	}
}
