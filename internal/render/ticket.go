// Package render draws ticket artwork. Block positions come from the layout
// engine so the PNG preview matches the PDF and wallet collaborators in
// relative position; only the raster scale differs.
package render

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/feralclo/feral-presents/internal/domain"
	"github.com/feralclo/feral-presents/internal/layout"
)

// pxPerMm is the raster density of the preview. 4 px/mm puts an A5 page at
// 592x840, plenty for on-screen use.
const pxPerMm = 4.0

// Ticket carries the data rendered onto one admission.
type Ticket struct {
	EventName      string
	Venue          string
	City           string
	StartsAt       time.Time
	TicketTypeName string
	Code           string
	HolderName     string
	OrderRef       string
	// MerchSize is the bundled merch size, shown on the banner row when the
	// layout enables it.
	MerchSize string
}

// TicketPNG renders the ticket as a PNG. logo may be nil, in which case the
// header falls back to the branding text.
func TicketPNG(t Ticket, branding domain.BrandingSettings, cfg domain.TicketPDFSettings, logo image.Image) ([]byte, error) {
	logoH := 0.0
	if logo != nil {
		logoH = cfg.LogoHeightMm
	}
	l := layout.Compute(layout.Config{
		LogoHeightMm:    logoH,
		QRSizeMm:        cfg.QRSizeMm,
		ShowMerchBanner: cfg.ShowMerchBanner && t.MerchSize != "",
		ShowHolderName:  cfg.ShowHolderName && t.HolderName != "",
		ShowOrderNumber: cfg.ShowOrderNumber && t.OrderRef != "",
		DisclaimerLines: len(cfg.Disclaimer),
	})

	w := int(layout.PageWidthMm * pxPerMm)
	h := int(layout.PageHeightMm * pxPerMm)
	dc := gg.NewContext(w, h)

	bg := ParseHexColor(branding.SecondaryColor, rgb(250, 250, 250))
	fg := ParseHexColor(branding.PrimaryColor, rgb(10, 10, 10))
	accent := ParseHexColor(branding.AccentColor, fg)

	dc.SetColor(bg)
	dc.Clear()
	dc.SetColor(fg)

	centerX := float64(w) / 2

	for _, b := range l.Blocks {
		topPx := b.TopMm * pxPerMm
		heightPx := b.HeightMm * pxPerMm
		midY := topPx + heightPx/2

		switch b.Name {
		case layout.BlockHeader:
			if logo != nil {
				scaled := scaleToHeight(logo, int(heightPx))
				dc.DrawImageAnchored(scaled, int(centerX), int(midY), 0.5, 0.5)
			} else {
				text := branding.LogoText
				if text == "" {
					text = "FERAL PRESENTS"
				}
				if err := setFace(dc, gobold.TTF, heightPx*0.5); err != nil {
					return nil, err
				}
				dc.DrawStringAnchored(strings.ToUpper(text), centerX, midY, 0.5, 0.5)
			}

		case layout.BlockDivider:
			dc.SetColor(accent)
			dc.SetLineWidth(heightPx)
			dc.DrawLine(0.12*float64(w), midY, 0.88*float64(w), midY)
			dc.Stroke()
			dc.SetColor(fg)

		case layout.BlockEventName:
			if err := setFace(dc, gobold.TTF, heightPx*0.7); err != nil {
				return nil, err
			}
			dc.DrawStringAnchored(t.EventName, centerX, midY, 0.5, 0.5)

		case layout.BlockVenue:
			if err := setFace(dc, goregular.TTF, heightPx*0.6); err != nil {
				return nil, err
			}
			venue := t.Venue
			if t.City != "" {
				venue += ", " + t.City
			}
			dc.DrawStringAnchored(venue, centerX, midY, 0.5, 0.5)

		case layout.BlockDate:
			if err := setFace(dc, goregular.TTF, heightPx*0.6); err != nil {
				return nil, err
			}
			dc.DrawStringAnchored(t.StartsAt.Format("Mon 2 Jan 2006, 15:04"), centerX, midY, 0.5, 0.5)

		case layout.BlockTicketType:
			if err := setFace(dc, gobold.TTF, heightPx*0.6); err != nil {
				return nil, err
			}
			dc.DrawStringAnchored(strings.ToUpper(t.TicketTypeName), centerX, midY, 0.5, 0.5)

		case layout.BlockMerchBanner:
			if err := setFace(dc, gobold.TTF, heightPx*0.5); err != nil {
				return nil, err
			}
			dc.SetColor(accent)
			dc.DrawStringAnchored(fmt.Sprintf("INCLUDES MERCH - SIZE %s", strings.ToUpper(t.MerchSize)), centerX, midY, 0.5, 0.5)
			dc.SetColor(fg)

		case layout.BlockQRCode:
			qr, err := QRImage(t.Code, int(heightPx), rgb(0, 0, 0), rgb(255, 255, 255))
			if err != nil {
				return nil, err
			}
			dc.DrawImageAnchored(qr, int(centerX), int(midY), 0.5, 0.5)

		case layout.BlockTicketCode:
			if err := setFace(dc, goregular.TTF, heightPx*0.55); err != nil {
				return nil, err
			}
			dc.DrawStringAnchored(t.Code, centerX, midY, 0.5, 0.5)

		case layout.BlockHolderName:
			if err := setFace(dc, goregular.TTF, heightPx*0.55); err != nil {
				return nil, err
			}
			dc.DrawStringAnchored(t.HolderName, centerX, midY, 0.5, 0.5)

		case layout.BlockOrderNumber:
			if err := setFace(dc, goregular.TTF, heightPx*0.55); err != nil {
				return nil, err
			}
			dc.DrawStringAnchored("Order "+t.OrderRef, centerX, midY, 0.5, 0.5)

		case layout.BlockDisclaimer:
			lineH := heightPx / float64(len(cfg.Disclaimer))
			if err := setFace(dc, goregular.TTF, lineH*0.6); err != nil {
				return nil, err
			}
			for i, line := range cfg.Disclaimer {
				y := topPx + lineH*float64(i) + lineH/2
				dc.DrawStringAnchored(line, centerX, y, 0.5, 0.5)
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode ticket PNG: %v", err)
	}
	return buf.Bytes(), nil
}

func setFace(dc *gg.Context, ttf []byte, size float64) error {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face: %v", err)
	}
	dc.SetFontFace(face)
	return nil
}

func scaleToHeight(img image.Image, heightPx int) image.Image {
	b := img.Bounds()
	if b.Dy() == heightPx || b.Dy() == 0 {
		return img
	}
	w := int(float64(b.Dx()) * float64(heightPx) / float64(b.Dy()))
	if w < 1 {
		w = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, heightPx))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
