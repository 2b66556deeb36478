package render

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	xdraw "golang.org/x/image/draw"
)

// qrModuleSize gives crisp codes at the sizes the ticket artwork needs; the
// result is snapped to the exact target edge afterwards.
const qrModuleSize = 16

// QRImage encodes content as a QR code and returns it scaled to exactly
// sizePx on each edge. Quartile error correction keeps codes scannable on
// crumpled tickets.
func QRImage(content string, sizePx int, fg, bg color.RGBA) (image.Image, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("invalid QR size %d", sizePx)
	}

	qrc, err := qrcode.NewWith(content, qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart))
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %v", err)
	}

	tmpFile := filepath.Join(os.TempDir(), uniqueFilename("ticket_qr", ".png"))
	defer os.Remove(tmpFile)

	w, err := standard.New(tmpFile,
		standard.WithQRWidth(qrModuleSize),
		standard.WithBorderWidth(0),
		standard.WithFgColor(fg),
		standard.WithBgColor(bg),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR writer: %v", err)
	}
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("failed to generate QR image: %v", err)
	}
	w.Close()

	data, err := os.ReadFile(tmpFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read QR image: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR image: %v", err)
	}

	if img.Bounds().Dx() == sizePx {
		return img, nil
	}
	// Nearest neighbour keeps module edges sharp.
	dst := image.NewRGBA(image.Rect(0, 0, sizePx, sizePx))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// QRPNG is QRImage encoded as PNG bytes, for direct HTTP responses.
func QRPNG(content string, sizePx int, fg, bg color.RGBA) ([]byte, error) {
	img, err := QRImage(content, sizePx, fg, bg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode QR PNG: %v", err)
	}
	return buf.Bytes(), nil
}

func uniqueFilename(prefix, extension string) string {
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	return fmt.Sprintf("%s_%d_%x%s", prefix, time.Now().UnixNano(), randomBytes, extension)
}
