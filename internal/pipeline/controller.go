// Package pipeline sequences one clipboard-to-translation run: check
// the API key, capture an image from the clipboard, recognize its
// text, translate it. The controller owns all shared run state and
// projects it to the UI through snapshots.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"codeberg.org/vmarinov/cliplingo/internal/clipboard"
	"codeberg.org/vmarinov/cliplingo/internal/credential"
)

// Phase is the run state machine: Idle until the first trigger, then
// Running while a pass is in flight, Completed afterwards. A new
// trigger in Completed starts over.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Running"
	case PhaseCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// View selects which of the two screens the UI shows. It is purely
// presentational and independent of Phase.
type View int

const (
	ViewMain View = iota
	ViewSettings
)

// ErrMissingKey means no API key is saved; the run stops before any
// network activity and the UI is sent to the settings view
var ErrMissingKey = errors.New("no API key configured")

// ErrRunInFlight means a trigger arrived while a run was active.
// Overlapping runs are rejected outright rather than queued.
var ErrRunInFlight = errors.New("a run is already in progress")

// Recognizer extracts text from a clipboard image. Implementations
// degrade to sentinel strings and never return an error.
type Recognizer interface {
	Recognize(ctx context.Context, img *clipboard.Image, key string) string
}

// Translator translates recognized text, degrading to a sentinel
// string on failure
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Recorder receives completed runs, e.g. for the history database
type Recorder interface {
	Record(mime, recognized, translated string) error
}

// Snapshot is an immutable projection of the controller state for the
// presentation layer. Fields fill in monotonically in pipeline order
// within one run and are cleared together when a new run starts.
type Snapshot struct {
	Phase      Phase
	View       View
	Image      *clipboard.Image
	Recognized string
	Translated string
	Err        error
}

// Controller owns the shared mutable run state. All collaborators are
// injected so tests can substitute fakes.
type Controller struct {
	keys       credential.Store
	source     clipboard.Source
	recognizer Recognizer
	translator Translator
	recorder   Recorder

	mu       sync.Mutex
	snap     Snapshot
	runSeq   uint64
	cancel   context.CancelFunc
	onChange func(Snapshot)
}

// New creates a controller in the idle state
func New(keys credential.Store, source clipboard.Source, recognizer Recognizer, translator Translator) *Controller {
	return &Controller{
		keys:       keys,
		source:     source,
		recognizer: recognizer,
		translator: translator,
		snap:       Snapshot{Phase: PhaseIdle, View: ViewMain},
	}
}

// SetRecorder attaches an optional run recorder. Recording failures
// are logged and never fail a run.
func (c *Controller) SetRecorder(r Recorder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recorder = r
}

// OnChange registers a listener invoked with a snapshot after every
// state change. The listener runs outside the controller lock.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Run executes one full pipeline pass. It blocks until the run
// reaches a terminal state and returns ErrRunInFlight immediately if
// another run is active. Terminal failures (missing key, no clipboard
// image, clipboard access denied) are returned and also published in
// the snapshot; recognition and translation failures are not errors,
// they surface as sentinel text.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.snap.Phase == PhaseRunning {
		c.mu.Unlock()
		return ErrRunInFlight
	}

	// Reset all result fields together before any await begins
	c.runSeq++
	seq := c.runSeq
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.snap = Snapshot{Phase: PhaseRunning, View: c.snap.View}
	c.mu.Unlock()
	defer cancel()
	c.notify()

	key, err := c.keys.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load API key: %v\n", err)
	}
	if key == "" {
		c.finish(seq, ErrMissingKey, ViewSettings)
		return ErrMissingKey
	}

	img, err := c.source.Capture(runCtx)
	if err != nil {
		c.finish(seq, err, ViewMain)
		return err
	}

	if !c.publish(seq, func(s *Snapshot) { s.Image = img }) {
		return context.Canceled
	}

	recognized := c.recognizer.Recognize(runCtx, img, key)
	if !c.publish(seq, func(s *Snapshot) { s.Recognized = recognized }) {
		return context.Canceled
	}

	// The recognition result is forwarded as-is, sentinel or not
	translated := c.translator.Translate(runCtx, recognized)
	if !c.publish(seq, func(s *Snapshot) {
		s.Translated = translated
		s.Phase = PhaseCompleted
	}) {
		return context.Canceled
	}
	c.record(img.MIME, recognized, translated)
	return nil
}

// Abort cancels any in-flight run and discards its pending results.
// Responses that arrive after Abort never reach the snapshot.
func (c *Controller) Abort() {
	c.mu.Lock()
	if c.snap.Phase != PhaseRunning {
		c.mu.Unlock()
		return
	}
	c.runSeq++
	if c.cancel != nil {
		c.cancel()
	}
	c.snap = Snapshot{Phase: PhaseIdle, View: c.snap.View}
	c.mu.Unlock()
	c.notify()
}

// SaveKey persists a new API key and returns the UI to the main view
func (c *Controller) SaveKey(value string) error {
	if err := c.keys.Save(value); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	c.setView(ViewMain)
	return nil
}

// LoadKey reads the currently saved API key, e.g. to prefill the
// settings view
func (c *Controller) LoadKey() string {
	key, err := c.keys.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load API key: %v\n", err)
		return ""
	}
	return key
}

// OpenSettings switches the UI to the settings view
func (c *Controller) OpenSettings() {
	c.setView(ViewSettings)
}

// CloseSettings returns the UI to the main view without saving
func (c *Controller) CloseSettings() {
	c.setView(ViewMain)
}

func (c *Controller) setView(v View) {
	c.mu.Lock()
	c.snap.View = v
	c.mu.Unlock()
	c.notify()
}

// publish applies a mutation to the snapshot if the run is still the
// current one. A stale run (aborted or superseded) must not write.
func (c *Controller) publish(seq uint64, mutate func(*Snapshot)) bool {
	c.mu.Lock()
	if seq != c.runSeq {
		c.mu.Unlock()
		return false
	}
	mutate(&c.snap)
	c.mu.Unlock()
	c.notify()
	return true
}

// finish moves a run to Completed with a terminal error
func (c *Controller) finish(seq uint64, err error, view View) {
	c.publish(seq, func(s *Snapshot) {
		s.Phase = PhaseCompleted
		s.Err = err
		s.View = view
	})
}

func (c *Controller) record(mime, recognized, translated string) {
	c.mu.Lock()
	recorder := c.recorder
	c.mu.Unlock()
	if recorder == nil {
		return
	}
	if err := recorder.Record(mime, recognized, translated); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record run: %v\n", err)
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	snap := c.snap
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
