package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://graph.facebook.com/v21.0"

// Client is a stateless WhatsApp Cloud API client bound to one
// (phone_number_id, access_token) pair. It implements no retry policy;
// callers own backoff decisions.
type Client struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	httpClient    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Graph API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(phoneNumberID, accessToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:       defaultBaseURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// messageRequest is the common Cloud API message envelope
type messageRequest struct {
	MessagingProduct string              `json:"messaging_product"`
	RecipientType    string              `json:"recipient_type,omitempty"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Context          *messageContext     `json:"context,omitempty"`
	Text             *textContent        `json:"text,omitempty"`
	Template         *templateContent    `json:"template,omitempty"`
	Interactive      *interactiveContent `json:"interactive,omitempty"`
	Image            *mediaContent       `json:"image,omitempty"`
	Document         *mediaContent       `json:"document,omitempty"`
	Audio            *mediaContent       `json:"audio,omitempty"`
	Video            *mediaContent       `json:"video,omitempty"`
}

type messageContext struct {
	MessageID string `json:"message_id"`
}

type textContent struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type templateContent struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []TemplateComponent `json:"components,omitempty"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

// TemplateComponent is one component of a template message
type TemplateComponent struct {
	Type       string              `json:"type"` // header | body | button
	SubType    string              `json:"sub_type,omitempty"`
	Index      string              `json:"index,omitempty"`
	Parameters []TemplateParameter `json:"parameters,omitempty"`
}

// TemplateParameter is one parameter slot of a template component
type TemplateParameter struct {
	Type string `json:"type"` // text | currency | date_time | image
	Text string `json:"text,omitempty"`
}

type interactiveContent struct {
	Type   string             `json:"type"` // button | list
	Body   interactiveBody    `json:"body"`
	Action *interactiveAction `json:"action,omitempty"`
}

type interactiveBody struct {
	Text string `json:"text"`
}

type interactiveAction struct {
	Buttons  []interactiveButton `json:"buttons,omitempty"`
	Button   string              `json:"button,omitempty"`
	Sections []ListSection       `json:"sections,omitempty"`
}

type interactiveButton struct {
	Type  string      `json:"type"` // reply
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ReplyButton is one quick-reply button
type ReplyButton struct {
	ID    string
	Title string
}

// ListSection groups rows of an interactive list message
type ListSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []ListRow `json:"rows"`
}

// ListRow is one selectable row of a list section
type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type mediaContent struct {
	Link    string `json:"link,omitempty"`
	ID      string `json:"id,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// messageResponse is the Cloud API response for message sends
type messageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// APIError carries the provider's JSON error body for a non-2xx response.
type APIError struct {
	StatusCode int
	Body       map[string]interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error (status %d): %v", e.StatusCode, e.Body)
}

// SendText sends a plain text message and returns the provider message id.
// replyToMsgID may be empty; when set the message is threaded as a reply.
func (c *Client) SendText(ctx context.Context, to, body, replyToMsgID string) (string, error) {
	req := &messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text: &textContent{
			PreviewURL: false,
			Body:       body,
		},
	}
	if replyToMsgID != "" {
		req.Context = &messageContext{MessageID: replyToMsgID}
	}
	return c.sendMessage(ctx, req)
}

// SendTemplate sends a pre-approved template message.
func (c *Client) SendTemplate(ctx context.Context, to, name, languageCode string, components []TemplateComponent) (string, error) {
	req := &messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "template",
		Template: &templateContent{
			Name:       name,
			Language:   templateLanguage{Code: languageCode},
			Components: components,
		},
	}
	return c.sendMessage(ctx, req)
}

// SendInteractiveButtons sends up to three quick-reply buttons.
func (c *Client) SendInteractiveButtons(ctx context.Context, to, body string, buttons []ReplyButton) (string, error) {
	if len(buttons) == 0 || len(buttons) > 3 {
		return "", fmt.Errorf("interactive button messages require 1-3 buttons, got %d", len(buttons))
	}
	action := &interactiveAction{}
	for _, b := range buttons {
		action.Buttons = append(action.Buttons, interactiveButton{
			Type:  "reply",
			Reply: buttonReply{ID: b.ID, Title: b.Title},
		})
	}
	req := &messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &interactiveContent{
			Type:   "button",
			Body:   interactiveBody{Text: body},
			Action: action,
		},
	}
	return c.sendMessage(ctx, req)
}

// SendInteractiveList sends a list message with a trigger button label.
func (c *Client) SendInteractiveList(ctx context.Context, to, body, buttonLabel string, sections []ListSection) (string, error) {
	if len(sections) == 0 {
		return "", fmt.Errorf("interactive list messages require at least one section")
	}
	req := &messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &interactiveContent{
			Type: "list",
			Body: interactiveBody{Text: body},
			Action: &interactiveAction{
				Button:   buttonLabel,
				Sections: sections,
			},
		},
	}
	return c.sendMessage(ctx, req)
}

// SendMedia sends a media message by public link. mediaType is one of
// image, document, audio, video.
func (c *Client) SendMedia(ctx context.Context, to, mediaType, link, caption string) (string, error) {
	content := &mediaContent{Link: link, Caption: caption}
	req := &messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             mediaType,
	}
	switch mediaType {
	case "image":
		req.Image = content
	case "document":
		req.Document = content
	case "audio":
		content.Caption = ""
		req.Audio = content
	case "video":
		req.Video = content
	default:
		return "", fmt.Errorf("unsupported media type: %s", mediaType)
	}
	return c.sendMessage(ctx, req)
}

// MarkAsRead marks an inbound message as read.
func (c *Client) MarkAsRead(ctx context.Context, providerMessageID string) error {
	body := map[string]interface{}{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        providerMessageID,
	}
	_, err := c.post(ctx, fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID), body)
	return err
}

// mediaURLResponse is the Graph API media metadata response
type mediaURLResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	FileSize int64  `json:"file_size"`
}

// GetMediaURL resolves a media id into a short-lived download URL.
func (c *Client) GetMediaURL(ctx context.Context, mediaID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, mediaID), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeAPIError(resp)
	}

	var media mediaURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return "", fmt.Errorf("failed to decode media response: %w", err)
	}
	if media.URL == "" {
		return "", fmt.Errorf("no media URL returned for id %s", mediaID)
	}
	return media.URL, nil
}

// DownloadMedia fetches media bytes from a URL returned by GetMediaURL.
// The download URL requires the same bearer token as the Graph API.
func (c *Client) DownloadMedia(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) sendMessage(ctx context.Context, reqBody *messageRequest) (string, error) {
	raw, err := c.post(ctx, fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID), reqBody)
	if err != nil {
		return "", err
	}

	var msgResp messageResponse
	if err := json.Unmarshal(raw, &msgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(msgResp.Messages) == 0 {
		return "", fmt.Errorf("no message ID returned from whatsapp api")
	}
	return msgResp.Messages[0].ID, nil
}

func (c *Client) post(ctx context.Context, url string, body interface{}) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func decodeAPIError(resp *http.Response) error {
	var errBody map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&errBody)
	return &APIError{StatusCode: resp.StatusCode, Body: errBody}
}
