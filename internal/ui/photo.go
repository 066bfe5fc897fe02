package ui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"auctioneer/internal/model"

	"github.com/qeesung/image2ascii/convert"
)

// photoRenderer turns photos into colored ASCII art. The last rendering is
// kept because View runs on every message.
type photoRenderer struct {
	enabled bool

	last     *model.Photo
	width    int
	height   int
	rendered string
}

func newPhotoRenderer(enabled bool) *photoRenderer {
	return &photoRenderer{enabled: enabled}
}

// Render returns the art for photo, or a placeholder when there is no photo
// or rendering is disabled.
func (r *photoRenderer) Render(photo *model.Photo, width, height int) string {
	if photo == nil {
		return EmptyStateStyle.Padding(0).Render("No photo")
	}
	if !r.enabled {
		return HelpDescStyle.Render(fmt.Sprintf("[%s photo]", photo.ContentType))
	}
	if photo == r.last && width == r.width && height == r.height {
		return r.rendered
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		return ErrorStyle.Render("Photo could not be displayed")
	}
	r.last, r.width, r.height = photo, width, height
	r.rendered = convertToASCII(img, width, height)
	return r.rendered
}

// convertToASCII converts an image to colored ASCII art.
func convertToASCII(img image.Image, targetWidth, targetHeight int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.Colored = true
	opts.Ratio = 0.5 // terminal cells are twice as tall as wide

	return converter.Image2ASCIIString(img, &opts)
}
