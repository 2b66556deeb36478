// Package imaging processes branding assets uploaded from the admin
// dashboard: transparent-border trimming, downscaling and format handling.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

// maxDecodeDim caps raster dimensions before the full decode. Allocation is
// driven by the declared canvas size, so a tiny file claiming an enormous
// canvas would otherwise exhaust memory.
const maxDecodeDim = 8192

// TrimOptions controls Trim. The zero value is not useful; start from
// DefaultTrimOptions.
type TrimOptions struct {
	// Threshold is the alpha value a pixel must exceed to count as content.
	Threshold uint8
	// Margin is the padding in pixels kept around the content box, clamped
	// to the image bounds.
	Margin int
	// MaxWidth caps the output width. Zero means no cap. Images are only
	// ever scaled down, never up.
	MaxWidth int
}

// DefaultTrimOptions returns the options used for uploaded logos.
func DefaultTrimOptions(maxWidth int) TrimOptions {
	return TrimOptions{Threshold: 10, Margin: 2, MaxWidth: maxWidth}
}

// OpaqueBounds returns the tightest rectangle containing every pixel whose
// alpha exceeds threshold. A fully transparent image yields the full image
// extent rather than an empty rectangle, so logos with no alpha content
// survive the trim unchanged.
func OpaqueBounds(img image.Image, threshold uint8) image.Rectangle {
	b := img.Bounds()
	top, bottom := b.Max.Y, b.Min.Y-1
	left, right := b.Max.X, b.Min.X-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if uint8(a>>8) <= threshold {
				continue
			}
			if y < top {
				top = y
			}
			if y > bottom {
				bottom = y
			}
			if x < left {
				left = x
			}
			if x > right {
				right = x
			}
		}
	}

	if bottom < top {
		// Nothing above the threshold anywhere.
		return b
	}
	return image.Rect(left, top, right+1, bottom+1)
}

// Trim crops img to its opaque content plus the configured margin, then
// scales the result down if it is wider than MaxWidth. Aspect ratio is
// preserved; the new height is round(h * maxWidth / w).
func Trim(img image.Image, opts TrimOptions) *image.RGBA {
	content := OpaqueBounds(img, opts.Threshold)

	padded := content.Inset(-opts.Margin).Intersect(img.Bounds())
	cropped := image.NewRGBA(image.Rect(0, 0, padded.Dx(), padded.Dy()))
	draw.Draw(cropped, cropped.Bounds(), img, padded.Min, draw.Src)

	if opts.MaxWidth <= 0 || cropped.Bounds().Dx() <= opts.MaxWidth {
		return cropped
	}

	w := cropped.Bounds().Dx()
	h := cropped.Bounds().Dy()
	newH := int(math.Round(float64(h) * float64(opts.MaxWidth) / float64(w)))
	if newH < 1 {
		newH = 1
	}
	scaled := image.NewRGBA(image.Rect(0, 0, opts.MaxWidth, newH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), cropped, cropped.Bounds(), xdraw.Over, nil)
	return scaled
}

// ProcessLogo decodes an uploaded logo (PNG, JPEG, GIF or SVG), trims its
// transparent border and re-encodes it as PNG. The second return value is
// false when the input cannot be decoded; callers surface that as a
// user-facing processing failure rather than an error chain.
func ProcessLogo(data []byte, maxWidth int) ([]byte, bool) {
	img, err := decode(data)
	if err != nil {
		return nil, false
	}

	trimmed := Trim(img, DefaultTrimOptions(maxWidth))

	var buf bytes.Buffer
	if err := png.Encode(&buf, trimmed); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

func decode(data []byte) (image.Image, error) {
	if looksLikeSVG(data) {
		return rasterizeSVG(data)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxDecodeDim || cfg.Height > maxDecodeDim {
		return nil, fmt.Errorf("image dimensions %dx%d out of range", cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
