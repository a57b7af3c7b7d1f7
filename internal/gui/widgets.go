package gui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/vmarinov/cliplingo/internal/clipboard"
)

// ImagePanel is a custom widget for the clipboard image preview
type ImagePanel struct {
	widget.BaseWidget

	container   *fyne.Container
	imageCanvas *canvas.Image
	imageLabel  *widget.Label
}

// NewImagePanel creates a new image preview widget
func NewImagePanel() *ImagePanel {
	p := &ImagePanel{}

	p.imageCanvas = canvas.NewImageFromResource(nil)
	p.imageCanvas.FillMode = canvas.ImageFillContain
	p.imageCanvas.SetMinSize(fyne.NewSize(240, 180))

	p.imageLabel = widget.NewLabel("No image")
	p.imageLabel.Alignment = fyne.TextAlignCenter

	p.container = container.NewBorder(
		nil,
		p.imageLabel,
		nil, nil,
		p.imageCanvas,
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *ImagePanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetImage decodes and displays a captured clipboard image
func (p *ImagePanel) SetImage(img *clipboard.Image) {
	if img == nil || len(img.Data) == 0 {
		p.Clear()
		return
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		p.imageLabel.SetText(fmt.Sprintf("Cannot preview %s: %v", img.MIME, err))
		p.imageCanvas.Image = nil
		p.imageCanvas.Refresh()
		return
	}

	p.imageCanvas.Image = decoded
	p.imageCanvas.Refresh()
	p.imageLabel.SetText(img.MIME)
}

// Clear resets the panel to its empty state
func (p *ImagePanel) Clear() {
	p.imageCanvas.Image = nil
	p.imageCanvas.Refresh()
	p.imageLabel.SetText("No image")
}
