package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslate_Success(t *testing.T) {
	var capturedQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = map[string]string{
			"doctype": r.URL.Query().Get("doctype"),
			"type":    r.URL.Query().Get("type"),
			"i":       r.URL.Query().Get("i"),
		}
		w.Write([]byte(`{"translateResult":[[{"src":"Hello","tgt":"你好"}]]}`))
	}))
	defer server.Close()

	translator := NewTranslator(server.URL)
	got := translator.Translate(context.Background(), "Hello")

	if got != "你好" {
		t.Errorf("Expected 你好, got %q", got)
	}
	if capturedQuery["doctype"] != "json" {
		t.Errorf("Expected doctype=json, got %q", capturedQuery["doctype"])
	}
	if capturedQuery["type"] != "AUTO" {
		t.Errorf("Expected type=AUTO for auto-detection, got %q", capturedQuery["type"])
	}
	if capturedQuery["i"] != "Hello" {
		t.Errorf("Expected input text in 'i' parameter, got %q", capturedQuery["i"])
	}
}

func TestTranslate_EncodesInput(t *testing.T) {
	var captured string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query().Get("i")
		w.Write([]byte(`{"translateResult":[[{"tgt":"ok"}]]}`))
	}))
	defer server.Close()

	translator := NewTranslator(server.URL)
	translator.Translate(context.Background(), "a b&c=d\n多行")

	// net/url decodes back to the original, proving it was escaped
	if captured != "a b&c=d\n多行" {
		t.Errorf("Input text not URL-encoded correctly, server saw %q", captured)
	}
}

func TestTranslate_MalformedShapes(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"translateResult":[]}`,
		`{"translateResult":[[]]}`,
		`{"translateResult":[[{"tgt":""}]]}`,
		`<html>blocked</html>`,
	}

	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		translator := NewTranslator(server.URL)
		got := translator.Translate(context.Background(), "Hello")
		server.Close()

		if got != SentinelFailed {
			t.Errorf("Body %q: expected %q, got %q", body, SentinelFailed, got)
		}
	}
}

func TestTranslate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	translator := NewTranslator(server.URL)
	if got := translator.Translate(context.Background(), "Hello"); got != SentinelFailed {
		t.Errorf("Expected %q on server error, got %q", SentinelFailed, got)
	}
}

func TestTranslate_UnreachableService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	translator := NewTranslator(endpoint)
	if got := translator.Translate(context.Background(), "Hello"); got != SentinelFailed {
		t.Errorf("Expected %q when unreachable, got %q", SentinelFailed, got)
	}
}

func TestTranslate_SentinelInputStillSubmitted(t *testing.T) {
	// A recognition sentinel is forwarded like any other text, the
	// pipeline does not special-case it
	var captured string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query().Get("i")
		w.Write([]byte(`{"translateResult":[[{"tgt":"未识别文字"}]]}`))
	}))
	defer server.Close()

	translator := NewTranslator(server.URL)
	got := translator.Translate(context.Background(), "Text not recognized")

	if captured != "Text not recognized" {
		t.Errorf("Sentinel text should still be submitted, server saw %q", captured)
	}
	if got != "未识别文字" {
		t.Errorf("Expected service result, got %q", got)
	}
}
