// Package layout computes the vertical placement of content blocks on the
// A5 ticket page. The same millimetre offsets drive the PDF and wallet-pass
// collaborators and, converted to percentages, the on-screen preview, so the
// two renderings stay visually aligned.
package layout

// Ticket pages are ISO A5 in portrait.
const (
	PageWidthMm  = 148.0
	PageHeightMm = 210.0
)

// Block names, in flow order.
const (
	BlockHeader      = "header"
	BlockDivider     = "divider"
	BlockEventName   = "eventName"
	BlockVenue       = "venue"
	BlockDate        = "date"
	BlockTicketType  = "ticketType"
	BlockMerchBanner = "merchBanner"
	BlockQRCode      = "qrCode"
	BlockTicketCode  = "ticketCode"
	BlockHolderName  = "holderName"
	BlockOrderNumber = "orderNumber"
	BlockDisclaimer  = "disclaimer"
)

// Fixed flow constants in millimetres.
const (
	topMarginMm    = 10.0
	blockGapMm     = 4.0
	dividerFloorMm = 28.0 // the rule under the header never sits above this
	textHeaderMm   = 12.0 // header height when there is no logo

	eventNameMm   = 10.0
	venueMm       = 7.0
	dateMm        = 7.0
	ticketTypeMm  = 7.0
	merchBannerMm = 8.0
	dividerMm     = 0.5
	ticketCodeMm  = 6.0
	holderNameMm  = 6.0
	orderNumberMm = 5.0
	disclaimerMm  = 4.0 // per line
)

// Config carries the admin-controlled inputs to the layout. All values are
// assumed valid; out-of-range settings are a caller contract violation.
type Config struct {
	// LogoHeightMm sizes the branding logo in the header. Zero or negative
	// means the header is rendered as text at a fixed height instead.
	LogoHeightMm float64
	// QRSizeMm is the edge length of the QR block. Larger codes push every
	// later block down.
	QRSizeMm float64

	ShowMerchBanner bool
	ShowHolderName  bool
	ShowOrderNumber bool
	DisclaimerLines int
}

// Block is one placed content row.
type Block struct {
	Name     string
	TopMm    float64
	HeightMm float64
}

// EndMm returns the bottom edge of the block.
func (b Block) EndMm() float64 { return b.TopMm + b.HeightMm }

// TopPercent returns the block's top edge as a percentage of page height.
func (b Block) TopPercent() float64 { return PercentY(b.TopMm) }

// HeightPercent returns the block's height as a percentage of page height.
func (b Block) HeightPercent() float64 { return PercentY(b.HeightMm) }

// Layout is the full computed flow for one ticket configuration.
type Layout struct {
	Blocks []Block
}

// Block returns the named block and whether it is present in this layout.
func (l Layout) Block(name string) (Block, bool) {
	for _, b := range l.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return Block{}, false
}

// PercentX converts a horizontal millimetre measure to a page percentage.
func PercentX(mm float64) float64 { return mm / PageWidthMm * 100 }

// PercentY converts a vertical millimetre measure to a page percentage.
func PercentY(mm float64) float64 { return mm / PageHeightMm * 100 }

// Compute places every enabled block. Each block starts at the previous
// block's end plus a fixed gap, lifted to any hard floor, so no two blocks
// can overlap for any combination of toggles.
func Compute(cfg Config) Layout {
	headerH := cfg.LogoHeightMm
	if headerH <= 0 {
		headerH = textHeaderMm
	}

	var l Layout
	cursor := topMarginMm

	place := func(name string, height, floor float64) {
		top := cursor
		if top < floor {
			top = floor
		}
		l.Blocks = append(l.Blocks, Block{Name: name, TopMm: top, HeightMm: height})
		cursor = top + height + blockGapMm
	}

	place(BlockHeader, headerH, 0)
	place(BlockDivider, dividerMm, dividerFloorMm)
	place(BlockEventName, eventNameMm, 0)
	place(BlockVenue, venueMm, 0)
	place(BlockDate, dateMm, 0)
	place(BlockTicketType, ticketTypeMm, 0)
	if cfg.ShowMerchBanner {
		place(BlockMerchBanner, merchBannerMm, 0)
	}
	place(BlockQRCode, cfg.QRSizeMm, 0)
	place(BlockTicketCode, ticketCodeMm, 0)
	if cfg.ShowHolderName {
		place(BlockHolderName, holderNameMm, 0)
	}
	if cfg.ShowOrderNumber {
		place(BlockOrderNumber, orderNumberMm, 0)
	}
	if cfg.DisclaimerLines > 0 {
		place(BlockDisclaimer, disclaimerMm*float64(cfg.DisclaimerLines), 0)
	}

	return l
}
