package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/grvbrk/vidhook_server/internal/utils"
	"github.com/grvbrk/vidhook_server/internal/webhook"
)

const maxWebhookBody = 1 << 20

type EventProcessor interface {
	Process(ctx context.Context, env *webhook.Envelope) webhook.Result
}

type WebhookHandler struct {
	Verifier  *webhook.Verifier
	Processor EventProcessor
	Logger    *log.Logger
}

// NewWebhookHandler builds the Mux webhook endpoint. An empty secret leaves
// the endpoint answering 500 until it is configured.
func NewWebhookHandler(secret string, processor EventProcessor, logger *log.Logger, opts ...webhook.VerifierOption) *WebhookHandler {
	var verifier *webhook.Verifier
	if secret != "" {
		verifier = webhook.NewVerifier(secret, opts...)
	}
	return &WebhookHandler{
		Verifier:  verifier,
		Processor: processor,
		Logger:    logger,
	}
}

func (wh *WebhookHandler) HandlerMuxWebhook(w http.ResponseWriter, r *http.Request) {
	if wh.Verifier == nil {
		wh.Logger.Println("Mux webhook secret is not configured")
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Webhook secret not configured"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		wh.Logger.Println("Error reading webhook body", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Invalid request body"})
		return
	}

	// Verification runs on the exact bytes received, before any decoding.
	if err := wh.Verifier.Verify(body, r.Header.Get(webhook.SignatureHeader)); err != nil {
		wh.Logger.Println("Rejected Mux webhook:", err)
		message := "Invalid signature"
		if errors.Is(err, webhook.ErrMissingSignature) {
			message = "Missing signature"
		}
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": message})
		return
	}

	env, err := webhook.ParseEnvelope(body)
	if err != nil {
		wh.Logger.Println("Rejected Mux webhook:", err)
		message := "Invalid payload"
		if errors.Is(err, webhook.ErrMissingType) {
			message = "Missing event type"
		}
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": message})
		return
	}

	result := wh.Processor.Process(r.Context(), env)

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{
		"message": "Webhook received",
		"outcome": result.Outcome,
	})
}
