// Package imageres provides image-backed resources for photo feeds.
//
// Decode turns raw fetched bytes into a Bitmap through the standard image
// registry; importing this package registers the JPEG, PNG, and GIF
// decoders. Additional formats can be registered by the host the usual
// way (underscore-importing their decoder packages).
package imageres

import (
	"bytes"
	"fmt"
	"image"

	// Registered decode formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/meigma/feedcache"
)

const bytesPerPixel = 4

// Bitmap is a decoded image. It is immutable once produced and reports
// its decoded footprint (not the encoded size) so the cache budget tracks
// what the process actually holds in memory.
type Bitmap struct {
	img    image.Image
	format string
}

// Interface compliance.
var _ feedcache.Resource = (*Bitmap)(nil)

// Image returns the decoded pixels.
func (b *Bitmap) Image() image.Image {
	return b.img
}

// Format returns the source encoding ("jpeg", "png", "gif").
func (b *Bitmap) Format() string {
	return b.format
}

// SizeBytes estimates the decoded footprint at four bytes per pixel.
func (b *Bitmap) SizeBytes() int64 {
	bounds := b.img.Bounds()
	return int64(bounds.Dx()) * int64(bounds.Dy()) * bytesPerPixel
}

// Decode decodes raw image bytes into a Bitmap.
func Decode(data []byte) (feedcache.Resource, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &Bitmap{img: img, format: format}, nil
}

// Decoder returns a feedcache.Decoder backed by Decode.
func Decoder() feedcache.Decoder {
	return feedcache.DecodeFunc(Decode)
}
