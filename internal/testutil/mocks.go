// Package testutil provides shared fakes for the pipeline collaborators
package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/vmarinov/cliplingo/internal/clipboard"
)

// FakeClipboard returns a scripted image or error from Capture
type FakeClipboard struct {
	Image *clipboard.Image
	Err   error

	mu    sync.Mutex
	Calls int
}

// Capture returns the scripted result
func (f *FakeClipboard) Capture(ctx context.Context) (*clipboard.Image, error) {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Image, nil
}

// FakeRecognizer returns a scripted recognition result and records
// every call. Block, when set, is received from before returning so
// tests can hold a run in flight.
type FakeRecognizer struct {
	Result string
	Block  chan struct{}

	mu    sync.Mutex
	calls []string
}

// Recognize records the call and returns the scripted result
func (f *FakeRecognizer) Recognize(ctx context.Context, img *clipboard.Image, key string) string {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("recognize %s key=%s", img.MIME, key))
	f.mu.Unlock()
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
		}
	}
	return f.Result
}

// Calls returns a copy of the recorded calls
func (f *FakeRecognizer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// FakeTranslator returns a scripted translation and records inputs
type FakeTranslator struct {
	Result string

	mu     sync.Mutex
	inputs []string
}

// Translate records the input and returns the scripted result
func (f *FakeTranslator) Translate(ctx context.Context, text string) string {
	f.mu.Lock()
	f.inputs = append(f.inputs, text)
	f.mu.Unlock()
	return f.Result
}

// Inputs returns a copy of the texts passed to Translate
func (f *FakeTranslator) Inputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.inputs...)
}

// FakeRecorder collects recorded runs
type FakeRecorder struct {
	Err error

	mu   sync.Mutex
	Runs []RecordedRun
}

// RecordedRun is one call to Record
type RecordedRun struct {
	MIME       string
	Recognized string
	Translated string
}

// Record stores the run or returns the scripted error
func (f *FakeRecorder) Record(mime, recognized, translated string) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Runs = append(f.Runs, RecordedRun{MIME: mime, Recognized: recognized, Translated: translated})
	return nil
}

// PNGImage returns a small fake PNG payload
func PNGImage() *clipboard.Image {
	return &clipboard.Image{
		Data: []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A},
		MIME: "image/png",
	}
}

// JPEGImage returns a small fake JPEG payload
func JPEGImage() *clipboard.Image {
	return &clipboard.Image{
		Data: []byte{0xFF, 0xD8, 0xFF, 0xE0},
		MIME: "image/jpeg",
	}
}
