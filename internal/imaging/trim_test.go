package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// opaqueCenter builds a size x size transparent image with an opaque square
// of edge length content centred in it.
func opaqueCenter(size, content int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	off := (size - content) / 2
	for y := off; y < off+content; y++ {
		for x := off; x < off+content; x++ {
			img.Set(x, y, color.RGBA{20, 20, 20, 255})
		}
	}
	return img
}

func TestOpaqueBounds(t *testing.T) {
	img := opaqueCenter(200, 100)
	b := OpaqueBounds(img, 10)
	want := image.Rect(50, 50, 150, 150)
	if b != want {
		t.Errorf("expected bounds %v, got %v", want, b)
	}
}

func TestOpaqueBounds_FullyTransparent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	b := OpaqueBounds(img, 10)
	if b != img.Bounds() {
		t.Errorf("expected full extent %v, got %v", img.Bounds(), b)
	}
}

func TestOpaqueBounds_Threshold(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	// Alpha exactly at the threshold must not count as content.
	img.Set(0, 0, color.NRGBA{255, 255, 255, 10})
	img.Set(5, 5, color.NRGBA{255, 255, 255, 11})

	b := OpaqueBounds(img, 10)
	want := image.Rect(5, 5, 6, 6)
	if b != want {
		t.Errorf("expected bounds %v, got %v", want, b)
	}
}

func TestTrim_MarginAndNoUpscale(t *testing.T) {
	img := opaqueCenter(200, 100)

	// maxWidth larger than the content: no scaling may happen.
	out := Trim(img, DefaultTrimOptions(400))
	if got := out.Bounds().Dx(); got != 104 {
		t.Errorf("expected width 104 (100 content + 2px margin each side), got %d", got)
	}
	if got := out.Bounds().Dy(); got != 104 {
		t.Errorf("expected height 104, got %d", got)
	}
}

func TestTrim_MarginClampedAtEdge(t *testing.T) {
	// Content touches the image edge, so there is no room for the margin.
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	out := Trim(img, DefaultTrimOptions(0))
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 50 {
		t.Errorf("expected 50x50, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestTrim_Downscale(t *testing.T) {
	img := opaqueCenter(400, 200) // trims to 204x204

	out := Trim(img, DefaultTrimOptions(51))
	if got := out.Bounds().Dx(); got != 51 {
		t.Errorf("expected width 51, got %d", got)
	}
	// round(204 * 51 / 204) == 51: aspect preserved within rounding.
	if got := out.Bounds().Dy(); got != 51 {
		t.Errorf("expected height 51, got %d", got)
	}
}

func TestProcessLogo_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, opaqueCenter(200, 100)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	out, ok := ProcessLogo(buf.Bytes(), 400)
	if !ok {
		t.Fatal("expected processing to succeed")
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 104 {
		t.Errorf("expected trimmed width 104, got %d", img.Bounds().Dx())
	}
}

func TestProcessLogo_DecodeFailure(t *testing.T) {
	out, ok := ProcessLogo([]byte("definitely not an image"), 400)
	if ok || out != nil {
		t.Error("expected sentinel failure for undecodable input")
	}
}

func TestProcessLogo_RejectsHugeDeclaredDimensions(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	data := buf.Bytes()

	// Rewrite the IHDR chunk to claim an absurd canvas and fix up its CRC.
	// The decoder would allocate for the declared size, so the dimensions
	// must be rejected from the header alone.
	binary.BigEndian.PutUint32(data[16:], 1<<20) // width
	binary.BigEndian.PutUint32(data[20:], 1<<20) // height
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))

	out, ok := ProcessLogo(data, 400)
	if ok || out != nil {
		t.Error("expected sentinel failure for oversized declared dimensions")
	}
}

func TestProcessLogo_SVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50">
		<rect x="10" y="10" width="80" height="30" fill="#000"/>
	</svg>`)

	out, ok := ProcessLogo(svg, 400)
	if !ok {
		t.Fatal("expected SVG processing to succeed")
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Error("expected non-empty rasterized output")
	}
}
