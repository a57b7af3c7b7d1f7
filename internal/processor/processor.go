package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"codeberg.org/vmarinov/cliplingo/internal/cli"
	"codeberg.org/vmarinov/cliplingo/internal/clipboard"
	"codeberg.org/vmarinov/cliplingo/internal/credential"
	"codeberg.org/vmarinov/cliplingo/internal/gui"
	"codeberg.org/vmarinov/cliplingo/internal/history"
	"codeberg.org/vmarinov/cliplingo/internal/pipeline"
	"codeberg.org/vmarinov/cliplingo/internal/recognition"
	"codeberg.org/vmarinov/cliplingo/internal/translation"
)

// Processor runs the clipboard pipeline outside of GUI mode
type Processor struct {
	flags      *cli.Flags
	keys       credential.Store
	controller *pipeline.Controller
	hist       *history.Store
	out        io.Writer
}

// NewProcessor creates a processor with the real collaborators:
// file-backed key store, system clipboard, remote recognition and
// translation clients
func NewProcessor(flags *cli.Flags) *Processor {
	keys := credential.NewFileStore(cli.KeyFilePath())

	recognizer := recognition.NewClient(endpointOr(flags.RecognitionEndpoint, cli.RecognitionEndpoint()))
	translator := translation.NewTranslator(endpointOr(flags.TranslationEndpoint, cli.TranslationEndpoint()))
	if flags.TimeoutSeconds > 0 {
		timeout := time.Duration(flags.TimeoutSeconds) * time.Second
		recognizer.SetTimeout(timeout)
		translator.SetTimeout(timeout)
	}

	controller := pipeline.New(keys, clipboard.NewSystemSource(), recognizer, translator)

	p := &Processor{
		flags:      flags,
		keys:       keys,
		controller: controller,
		out:        os.Stdout,
	}

	if !flags.NoHistory {
		hist, err := history.Open(cli.HistoryPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		} else {
			p.hist = hist
			controller.SetRecorder(hist)
		}
	}

	return p
}

func endpointOr(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

// RunOnce performs a single pipeline pass and prints the results
func (p *Processor) RunOnce(ctx context.Context) error {
	err := p.controller.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrMissingKey):
		return fmt.Errorf("no API key configured, save one with --set-key first")
	case errors.Is(err, clipboard.ErrNoImage):
		return fmt.Errorf("no image found on clipboard")
	case errors.Is(err, clipboard.ErrAccessDenied):
		return fmt.Errorf("clipboard could not be read: %w", err)
	case err != nil:
		return err
	}

	snap := p.controller.Snapshot()
	fmt.Fprintf(p.out, "Image: %s (%d bytes)\n\n", snap.Image.MIME, len(snap.Image.Data))
	fmt.Fprintf(p.out, "Recognized:\n%s\n\n", snap.Recognized)
	fmt.Fprintf(p.out, "Translated:\n%s\n", snap.Translated)
	return nil
}

// SaveKey persists the recognition API key
func (p *Processor) SaveKey(key string) error {
	if err := p.keys.Save(key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	fmt.Fprintln(p.out, "API key saved.")
	return nil
}

// PrintHistory prints the most recent recorded runs
func (p *Processor) PrintHistory(limit int) error {
	if p.hist == nil {
		return fmt.Errorf("history is disabled")
	}

	entries, err := p.hist.Recent(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No runs recorded yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(p.out, "%s  %s\n  %s\n  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.MIME, e.Recognized, e.Translated)
	}
	return nil
}

// RunGUIMode launches the interactive GUI
func (p *Processor) RunGUIMode() error {
	app := gui.New(p.controller)
	app.Run()
	return nil
}

// Close releases the history database
func (p *Processor) Close() {
	if p.hist != nil {
		p.hist.Close()
	}
}
