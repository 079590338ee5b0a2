package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"propertypulse/internal/models"
)

// AfricasTalkingGateway sends SMS via the Africa's Talking messaging API.
// The email channel is not configured on this gateway; email sends fail
// per-recipient with ErrEmailNotConfigured.
type AfricasTalkingGateway struct {
	baseURL  string
	apiKey   string
	username string
	senderID string
	client   *http.Client
}

// ErrEmailNotConfigured is returned for every email send attempt until an
// email provider is wired up.
var ErrEmailNotConfigured = fmt.Errorf("email channel not configured")

// NewAfricasTalkingGateway creates a gateway client for the Africa's Talking
// messaging API. The http.Client carries no timeout of its own: per-send
// deadlines come from the caller's context.
func NewAfricasTalkingGateway(baseURL, apiKey, username, senderID string) *AfricasTalkingGateway {
	return &AfricasTalkingGateway{
		baseURL:  baseURL,
		apiKey:   apiKey,
		username: username,
		senderID: senderID,
		client:   &http.Client{},
	}
}

// smsResponse mirrors the fields of the API response we care about
type smsResponse struct {
	SMSMessageData struct {
		Recipients []struct {
			Number string `json:"number"`
			Status string `json:"status"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// Send delivers one message to one address. Subject is ignored for SMS.
func (g *AfricasTalkingGateway) Send(ctx context.Context, channel models.Channel, address, subject, body string) error {
	if channel != models.ChannelSMS {
		return ErrEmailNotConfigured
	}

	form := url.Values{}
	form.Set("username", g.username)
	form.Set("to", address)
	form.Set("message", body)
	if g.senderID != "" {
		form.Set("from", g.senderID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apiKey", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("gateway rejected message: status %d", resp.StatusCode)
	}

	var parsed smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if len(parsed.SMSMessageData.Recipients) == 0 {
		return fmt.Errorf("gateway accepted no recipients")
	}

	recipient := parsed.SMSMessageData.Recipients[0]
	if recipient.Status != "Success" {
		return fmt.Errorf("gateway reported status %q for %s", recipient.Status, recipient.Number)
	}

	return nil
}
