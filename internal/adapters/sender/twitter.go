package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"herbie/internal/core/domain"

	"github.com/dghubble/oauth1"
	"github.com/rs/zerolog/log"
)

const twitterAPIBaseURL = "https://api.twitter.com/2"

// Twitter wraps the X API v2 direct-message endpoints. Requests are signed
// with OAuth 1.0a user context, which the DM endpoints require.
type Twitter struct {
	client  *http.Client
	baseURL string
}

func NewTwitter(apiKey, apiSecret, accessToken, accessSecret string) *Twitter {
	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)

	return &Twitter{
		client:  config.Client(context.Background(), token),
		baseURL: twitterAPIBaseURL,
	}
}

type dmRequest struct {
	Text        string         `json:"text"`
	Attachments []dmAttachment `json:"attachments,omitempty"`
}

type dmAttachment struct {
	MediaID string `json:"media_id"`
}

type userResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type errorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// ResolveSelf fetches the identity of the authenticated account.
func (t *Twitter) ResolveSelf(ctx context.Context) (domain.BotIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/users/me", nil)
	if err != nil {
		return domain.BotIdentity{}, fmt.Errorf("error creating users/me request: %w", err)
	}

	res, err := t.client.Do(req)
	if err != nil {
		return domain.BotIdentity{}, fmt.Errorf("users/me request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.BotIdentity{}, fmt.Errorf("error reading users/me response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return domain.BotIdentity{}, apiError(res.StatusCode, body)
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return domain.BotIdentity{}, fmt.Errorf("error unmarshalling users/me response: %w", err)
	}

	if user.Data.ID == "" {
		return domain.BotIdentity{}, fmt.Errorf("users/me response carries no user id")
	}

	return domain.BotIdentity{ID: user.Data.ID, Username: user.Data.Username}, nil
}

// SendText sends a plain text DM to the participant.
func (t *Twitter) SendText(ctx context.Context, participantID, text string) error {
	return t.sendDM(ctx, participantID, dmRequest{Text: text})
}

// SendMedia sends a DM with a pre-uploaded media attachment. The API rejects
// an empty text field, so a single space is sent alongside the attachment.
func (t *Twitter) SendMedia(ctx context.Context, participantID, mediaID string) error {
	return t.sendDM(ctx, participantID, dmRequest{
		Text:        " ",
		Attachments: []dmAttachment{{MediaID: mediaID}},
	})
}

func (t *Twitter) sendDM(ctx context.Context, participantID string, message dmRequest) error {
	payloadBuf := new(bytes.Buffer)
	if err := json.NewEncoder(payloadBuf).Encode(message); err != nil {
		return fmt.Errorf("error encoding DM request: %w", err)
	}

	url := fmt.Sprintf("%s/dm_conversations/with/%s/messages", t.baseURL, participantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payloadBuf)
	if err != nil {
		return fmt.Errorf("error creating DM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("DM request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("error reading DM response: %w", err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return apiError(res.StatusCode, body)
	}

	log.Debug().Str("participantID", participantID).Msg("DM accepted by API")

	return nil
}

func apiError(status int, body []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Title != "" {
		return fmt.Errorf("twitter API error: status %d: %s: %s", status, apiErr.Title, apiErr.Detail)
	}

	return fmt.Errorf("twitter API error: status %d: %s", status, string(body))
}
