package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/vmarinov/cliplingo/internal/clipboard"
)

const (
	// DefaultEndpoint is the generateContent URL of the vision model
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

	defaultTimeout = 30 * time.Second

	// instruction sent with every image
	instruction = "Extract all text from this image, both Chinese and English."
)

// Sentinel strings shown in place of recognized text when a stage
// cannot produce a real result. Recognition never fails the pipeline,
// it degrades to one of these.
const (
	SentinelNoKey         = "No API key"
	SentinelNotRecognized = "Text not recognized"
)

// Client sends clipboard images to the vision endpoint and extracts
// the recognized plain text
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a recognition client for the given endpoint.
// An empty endpoint selects the default one.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "recognition",
		}),
	}
}

// SetTimeout overrides the per-request timeout
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// request/response wire types for the generateContent call

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	InlineData *inlineData `json:"inline_data,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Recognize submits the image and returns the recognized text, or a
// sentinel string when no key is configured or the service did not
// return usable text. It never returns an error: remote failures must
// not crash a pipeline run.
func (c *Client) Recognize(ctx context.Context, img *clipboard.Image, key string) string {
	if key == "" {
		return SentinelNoKey
	}
	if img == nil || len(img.Data) == 0 {
		return SentinelNotRecognized
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.submit(ctx, img, key)
	})
	if err != nil {
		return SentinelNotRecognized
	}

	text, ok := extractText(result.(*generateResponse))
	if !ok {
		return SentinelNotRecognized
	}
	return text
}

// submit performs the single outbound request
func (c *Client) submit(ctx context.Context, img *clipboard.Image, key string) (*generateResponse, error) {
	payload := generateRequest{
		Contents: []requestContent{
			{
				Parts: []requestPart{
					{InlineData: &inlineData{
						MIMEType: img.MIME,
						Data:     encodePayload(img.Data),
					}},
					{Text: instruction},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := c.endpoint + "?key=" + url.QueryEscape(key)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("recognition service returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &decoded, nil
}

// extractText descends candidates[0].content.parts[0].text. A missing
// link anywhere on that path means the response is unusable.
func extractText(resp *generateResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", false
	}
	return parts[0].Text, true
}

// encodePayload turns the raw image bytes into the transport encoding.
// Payloads relayed from browsers can arrive as a data URL, in which
// case the already-encoded portion after the scheme prefix is used.
func encodePayload(data []byte) string {
	if bytes.HasPrefix(data, []byte("data:")) {
		if idx := bytes.Index(data, []byte(";base64,")); idx >= 0 {
			return strings.TrimSpace(string(data[idx+len(";base64,"):]))
		}
	}
	return base64.StdEncoding.EncodeToString(data)
}
