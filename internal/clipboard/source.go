package clipboard

import (
	"context"
	"errors"
)

// Image is a single binary image captured from the system clipboard.
// It lives for exactly one pipeline run and is never persisted.
type Image struct {
	Data []byte
	MIME string
}

// ErrNoImage means the clipboard was readable but held no image entry
var ErrNoImage = errors.New("no image found on clipboard")

// ErrAccessDenied means the clipboard could not be read at all, either
// because no supported clipboard tool is installed or because access
// was refused. This is a different user-facing failure than ErrNoImage
// and must not be collapsed into it.
var ErrAccessDenied = errors.New("clipboard access denied or unsupported")

// Source produces at most one image from the clipboard per call.
// This is a best-effort snapshot, not a live subscription.
type Source interface {
	Capture(ctx context.Context) (*Image, error)
}
