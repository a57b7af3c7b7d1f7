package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultEndpoint is the free translate API used by the product
	DefaultEndpoint = "https://fanyi.youdao.com/translate"

	defaultTimeout = 15 * time.Second
)

// SentinelFailed is shown in place of the translated text when the
// service is unreachable or its response is unusable
const SentinelFailed = "Translation failed"

// Translator calls the remote translation endpoint
type Translator struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewTranslator creates a translator for the given endpoint. An empty
// endpoint selects the default one.
func NewTranslator(endpoint string) *Translator {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Translator{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "translation",
		}),
	}
}

// SetTimeout overrides the per-request timeout
func (t *Translator) SetTimeout(d time.Duration) {
	t.httpClient.Timeout = d
}

// translateResponse mirrors the service JSON: the translated text sits
// at translateResult[0][0].tgt
type translateResponse struct {
	TranslateResult [][]struct {
		Tgt string `json:"tgt"`
	} `json:"translateResult"`
}

// Translate submits the text with automatic source-language detection
// and returns the translated string, or SentinelFailed when the call
// or the response shape fails. It never returns an error: translation
// failures must not crash a pipeline run.
func (t *Translator) Translate(ctx context.Context, text string) string {
	result, err := t.breaker.Execute(func() (interface{}, error) {
		return t.submit(ctx, text)
	})
	if err != nil {
		return SentinelFailed
	}

	translated, ok := extractTarget(result.(*translateResponse))
	if !ok {
		return SentinelFailed
	}
	return translated
}

// submit performs the single outbound request
func (t *Translator) submit(ctx context.Context, text string) (*translateResponse, error) {
	params := url.Values{}
	params.Set("doctype", "json")
	params.Set("type", "AUTO")
	params.Set("i", text)

	reqURL := t.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("translation service returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &decoded, nil
}

// extractTarget descends translateResult[0][0].tgt. A missing link
// anywhere on that path means the response is unusable.
func extractTarget(resp *translateResponse) (string, bool) {
	if resp == nil || len(resp.TranslateResult) == 0 {
		return "", false
	}
	row := resp.TranslateResult[0]
	if len(row) == 0 || row[0].Tgt == "" {
		return "", false
	}
	return row[0].Tgt, true
}
