package clipboard

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// tool describes one external clipboard utility and how to ask it for
// the available content types and for a payload of a given type
type tool struct {
	binary   string
	listArgs []string
	readArgs func(mime string) []string
}

// Supported utilities in preference order: Wayland first, then X11
var systemTools = []tool{
	{
		binary:   "wl-paste",
		listArgs: []string{"--list-types"},
		readArgs: func(mime string) []string {
			return []string{"--type", mime}
		},
	},
	{
		binary:   "xclip",
		listArgs: []string{"-selection", "clipboard", "-t", "TARGETS", "-o"},
		readArgs: func(mime string) []string {
			return []string{"-selection", "clipboard", "-t", mime, "-o"}
		},
	},
}

// SystemSource reads the clipboard by shelling out to the platform
// clipboard utility (wl-paste on Wayland, xclip on X11)
type SystemSource struct {
	tools    []tool
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)
	lookPath func(name string) (string, error)
}

// NewSystemSource creates a clipboard source backed by the system tools
func NewSystemSource() *SystemSource {
	return &SystemSource{
		tools: systemTools,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
		lookPath: exec.LookPath,
	}
}

// Capture enumerates the clipboard content types in the order the
// platform reports them and returns the payload of the first image
// type found. It returns ErrNoImage when the clipboard holds no image
// entry and ErrAccessDenied when the clipboard cannot be read at all.
func (s *SystemSource) Capture(ctx context.Context) (*Image, error) {
	tl, err := s.findTool()
	if err != nil {
		return nil, err
	}

	types, err := s.run(ctx, tl.binary, tl.listArgs...)
	if err != nil {
		// xclip and wl-paste exit non-zero on an empty clipboard, which
		// is a "nothing there" case rather than a permission problem
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrNoImage
	}

	mime := firstImageType(string(types))
	if mime == "" {
		return nil, ErrNoImage
	}

	data, err := s.run(ctx, tl.binary, tl.readArgs(mime)...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: reading %s payload failed: %v", ErrAccessDenied, mime, err)
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}

	return &Image{Data: data, MIME: mime}, nil
}

// findTool returns the first installed clipboard utility
func (s *SystemSource) findTool() (tool, error) {
	for _, tl := range s.tools {
		if _, err := s.lookPath(tl.binary); err == nil {
			return tl, nil
		}
	}
	return tool{}, fmt.Errorf("%w: no clipboard utility found (install wl-clipboard or xclip)", ErrAccessDenied)
}

// firstImageType scans the reported content types in order and returns
// the first one whose prefix marks it as an image
func firstImageType(list string) string {
	for _, line := range strings.Split(list, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "image/") {
			return t
		}
	}
	return ""
}
