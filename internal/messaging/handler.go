package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brightbroom/booking-platform/internal/dialog"
	"github.com/brightbroom/booking-platform/pkg/logging"
)

var twilioTracer = otel.Tracer("brightbroom.internal.messaging.twilio")

// replyFallback is sent when the conversation layer itself fails; the
// customer still gets an answer instead of dead air.
const replyFallback = "We're having trouble on our end right now. Please try again in a few minutes or give us a call."

// Conversation is the dialog entry point the webhook feeds.
type Conversation interface {
	Handle(ctx context.Context, in dialog.Inbound) (string, error)
}

// Handler terminates Twilio SMS webhooks and answers inline with TwiML.
type Handler struct {
	webhookSecret string
	conversation  Conversation
	logger        *logging.Logger
}

// NewHandler creates a new messaging handler.
func NewHandler(webhookSecret string, conversation Conversation, logger *logging.Logger) *Handler {
	if conversation == nil {
		panic("messaging: conversation cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		webhookSecret: webhookSecret,
		conversation:  conversation,
		logger:        logger,
	}
}

// TwilioWebhook handles POST /messaging/twilio/webhook requests.
func (h *Handler) TwilioWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := twilioTracer.Start(r.Context(), "messaging.twilio.webhook")
	defer span.End()

	webhookURL := buildAbsoluteURL(r)
	if h.webhookSecret != "" {
		if !ValidateTwilioSignature(r, h.webhookSecret, webhookURL) {
			h.logger.Warn("invalid twilio signature")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			span.RecordError(errors.New("invalid twilio signature"))
			return
		}
	}

	webhook, err := ParseTwilioWebhook(r)
	if err != nil {
		h.logger.Error("failed to parse twilio webhook", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		span.RecordError(err)
		return
	}
	from := NormalizeE164(webhook.From)
	span.SetAttributes(
		attribute.String("brightbroom.twilio.message_sid", webhook.MessageSid),
		attribute.String("brightbroom.twilio.from", from),
	)

	if from == "" || webhook.Body == "" {
		err := errors.New("missing required twilio fields")
		h.logger.Error("invalid twilio payload", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		span.RecordError(err)
		return
	}

	reply, err := h.conversation.Handle(ctx, dialog.Inbound{From: from, Text: webhook.Body})
	if err != nil {
		// The customer still gets a reply; the failure is ours to chase.
		h.logger.Error("conversation handling failed", "error", err, "from", from, "message_sid", webhook.MessageSid)
		span.RecordError(err)
		reply = replyFallback
	}

	writeTwiML(w, reply)
}

// HealthCheck handles GET /health requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeTwiML answers the webhook with a single <Message> TwiML document.
func writeTwiML(w http.ResponseWriter, message string) {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(message))

	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Response><Message>%s</Message></Response>`, escaped.String())
}

func buildAbsoluteURL(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	if r.URL.Scheme != "" {
		return r.URL.String()
	}
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "https"
		if r.TLS == nil {
			scheme = "http"
		}
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	return fmt.Sprintf("%s://%s%s", scheme, host, r.URL.RequestURI())
}
