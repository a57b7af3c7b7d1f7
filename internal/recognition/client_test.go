package recognition

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/vmarinov/cliplingo/internal/clipboard"
)

var testImage = &clipboard.Image{
	Data: []byte{0x89, 'P', 'N', 'G'},
	MIME: "image/png",
}

func TestRecognize_NoKeyShortCircuits(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got := client.Recognize(context.Background(), testImage, "")

	if got != SentinelNoKey {
		t.Errorf("Expected %q, got %q", SentinelNoKey, got)
	}
	if requests != 0 {
		t.Errorf("Expected no network call without a key, got %d", requests)
	}
}

func TestRecognize_Success(t *testing.T) {
	var captured generateRequest
	var capturedKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got := client.Recognize(context.Background(), testImage, "ABC123")

	if got != "Hello" {
		t.Errorf("Expected 'Hello', got %q", got)
	}
	if capturedKey != "ABC123" {
		t.Errorf("Expected key in query parameter, got %q", capturedKey)
	}

	// Verify the wire shape: inline image part first, instruction second
	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 2 {
		t.Fatalf("Unexpected request shape: %+v", captured)
	}
	imagePart := captured.Contents[0].Parts[0]
	if imagePart.InlineData == nil {
		t.Fatal("First part missing inline_data")
	}
	if imagePart.InlineData.MIMEType != "image/png" {
		t.Errorf("Expected mime_type image/png, got %s", imagePart.InlineData.MIMEType)
	}
	expectedData := base64.StdEncoding.EncodeToString(testImage.Data)
	if imagePart.InlineData.Data != expectedData {
		t.Errorf("Image data not base64 encoded as expected")
	}
	if captured.Contents[0].Parts[1].Text == "" {
		t.Error("Second part should carry the instruction text")
	}
}

func TestRecognize_MissingCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got := client.Recognize(context.Background(), testImage, "ABC123")

	if got != SentinelNotRecognized {
		t.Errorf("Expected %q for response without candidates, got %q", SentinelNotRecognized, got)
	}
}

func TestRecognize_MalformedShapes(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"candidates":[]}`,
		`{"candidates":[{"content":{}}]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
		`not json at all`,
	}

	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		client := NewClient(server.URL)
		got := client.Recognize(context.Background(), testImage, "ABC123")
		server.Close()

		if got != SentinelNotRecognized {
			t.Errorf("Body %q: expected %q, got %q", body, SentinelNotRecognized, got)
		}
	}
}

func TestRecognize_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got := client.Recognize(context.Background(), testImage, "ABC123")

	if got != SentinelNotRecognized {
		t.Errorf("Expected %q on server error, got %q", SentinelNotRecognized, got)
	}
}

func TestRecognize_UnreachableService(t *testing.T) {
	// Reserve then close a port so the connection is refused
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(endpoint)
	got := client.Recognize(context.Background(), testImage, "ABC123")

	if got != SentinelNotRecognized {
		t.Errorf("Expected %q when service unreachable, got %q", SentinelNotRecognized, got)
	}
}

func TestRecognize_NilImage(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")

	if got := client.Recognize(context.Background(), nil, "ABC123"); got != SentinelNotRecognized {
		t.Errorf("Expected %q for nil image, got %q", SentinelNotRecognized, got)
	}
}

func TestEncodePayload(t *testing.T) {
	raw := []byte{1, 2, 3}
	if got := encodePayload(raw); got != base64.StdEncoding.EncodeToString(raw) {
		t.Errorf("Raw bytes should be base64 encoded, got %q", got)
	}

	dataURL := []byte("data:image/png;base64,AQID")
	if got := encodePayload(dataURL); got != "AQID" {
		t.Errorf("Data URL prefix should be stripped, got %q", got)
	}
}

func TestExtractText(t *testing.T) {
	var ok bool
	if _, ok = extractText(nil); ok {
		t.Error("nil response should not extract")
	}

	var resp generateResponse
	if err := json.Unmarshal([]byte(`{"candidates":[{"content":{"parts":[{"text":"你好"}]}}]}`), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	text, ok := extractText(&resp)
	if !ok || text != "你好" {
		t.Errorf("Expected 你好, got %q (ok=%v)", text, ok)
	}
}
