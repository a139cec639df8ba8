package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"herbie/internal/core/domain"
	"herbie/internal/core/port"
	"herbie/internal/core/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const livenessBody = "H.E.R.B.I.E. is running!"

// Webhook serves the platform-facing HTTP surface: DM event ingestion, the
// CRC ownership challenge, and a liveness probe.
type Webhook struct {
	responder  *service.Responder
	ledger     *service.MessageLedger
	dispatcher port.SequenceDispatcher
	apiSecret  string
	botID      string
}

// NewWebhook wires the handler. botID may be empty when startup identity
// resolution failed; self-filtering is disabled in that case.
func NewWebhook(responder *service.Responder, ledger *service.MessageLedger,
	dispatcher port.SequenceDispatcher, apiSecret, botID string) *Webhook {
	return &Webhook{
		responder:  responder,
		ledger:     ledger,
		dispatcher: dispatcher,
		apiSecret:  apiSecret,
		botID:      botID,
	}
}

// Routes builds the router. Recoverer turns any panic during handling into a
// 500 so a bad event can never take the process down.
func (h *Webhook) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.HandleLiveness)
	r.Get("/webhook", h.HandleChallenge)
	r.Post("/webhook", h.HandleEvent)

	return r
}

// Inbound Account Activity envelope, reduced to the fields the bot reads.
type webhookEnvelope struct {
	DirectMessageEvents []dmEvent `json:"direct_message_events"`
}

type dmEvent struct {
	Type          string         `json:"type"`
	ID            string         `json:"id"`
	MessageCreate *messageCreate `json:"message_create"`
}

type messageCreate struct {
	SenderID    string `json:"sender_id"`
	MessageData struct {
		Text string `json:"text"`
	} `json:"message_data"`
}

func (h *Webhook) HandleEvent(w http.ResponseWriter, r *http.Request) {
	message, err := parseEvent(r)
	if err != nil {
		log.Warn().Err(err).Msg("rejecting malformed webhook payload")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	log.Info().Str("senderID", message.SenderID).Str("text", message.Text).Msg("received direct message")

	if h.botID != "" && message.SenderID == h.botID {
		log.Debug().Msg("ignoring self-originated message")
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.ledger.CheckAndRecord(message.SenderID, message.MessageID) {
		log.Debug().Str("messageID", message.MessageID).Msg("ignoring duplicate message")
		w.WriteHeader(http.StatusOK)
		return
	}

	sequence := h.responder.Select(message.Text)

	// The platform redelivers events if the response is slow, so the
	// response goes out before any send happens.
	go h.dispatcher.Dispatch(context.Background(), message.SenderID, sequence)

	w.WriteHeader(http.StatusOK)
}

func parseEvent(r *http.Request) (domain.DirectMessage, error) {
	var envelope webhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		return domain.DirectMessage{}, domain.ErrMalformedPayload
	}

	if len(envelope.DirectMessageEvents) == 0 {
		return domain.DirectMessage{}, domain.ErrMalformedPayload
	}

	event := envelope.DirectMessageEvents[0]
	if event.Type != "message_create" || event.MessageCreate == nil {
		return domain.DirectMessage{}, domain.ErrMalformedPayload
	}

	if event.ID == "" || event.MessageCreate.SenderID == "" {
		return domain.DirectMessage{}, domain.ErrMalformedPayload
	}

	return domain.DirectMessage{
		SenderID:  event.MessageCreate.SenderID,
		MessageID: event.ID,
		Text:      event.MessageCreate.MessageData.Text,
	}, nil
}

type challengeResponse struct {
	ResponseToken string `json:"response_token"`
}

// HandleChallenge answers the CRC handshake the platform issues during
// webhook registration by signing the supplied token with the API secret.
func (h *Webhook) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("crc_token")
	if token == "" {
		log.Warn().Err(domain.ErrMissingParameter).Msg("challenge request without crc_token")
		http.Error(w, "Error: crc_token missing", http.StatusBadRequest)
		return
	}

	mac := hmac.New(sha256.New, []byte(h.apiSecret))
	mac.Write([]byte(token))
	signed := "sha256=" + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(challengeResponse{ResponseToken: signed}); err != nil {
		log.Error().Err(err).Msg("failed to write challenge response")
	}
}

func (h *Webhook) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	if _, err := w.Write([]byte(livenessBody)); err != nil {
		log.Error().Err(err).Msg("failed to write liveness response")
	}
}
