package domain

// Settings blobs are stored as opaque JSON under a well-known key and edited
// from the admin dashboard. Defaults are produced by constructors so callers
// never share mutable package state.

// Settings keys recognised by the settings store.
const (
	SettingsKeyBranding    = "branding"
	SettingsKeyEmail       = "email"
	SettingsKeyTicketPDF   = "ticket_pdf"
	SettingsKeyWallet      = "wallet"
	SettingsKeyLeaderboard = "leaderboard"
	SettingsKeyPlan        = "plan"
)

// BrandingSettings controls storefront and ticket artwork.
type BrandingSettings struct {
	LogoURL        string `json:"logoUrl,omitempty"`
	LogoText       string `json:"logoText,omitempty"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
}

// DefaultBrandingSettings returns the branding used before any customisation.
func DefaultBrandingSettings() BrandingSettings {
	return BrandingSettings{
		LogoText:       "FERAL PRESENTS",
		PrimaryColor:   "#0a0a0a",
		SecondaryColor: "#fafafa",
		AccentColor:    "#ff2d55",
	}
}

// EmailSettings controls confirmation email content.
type EmailSettings struct {
	FromName     string `json:"fromName"`
	ReplyTo      string `json:"replyTo,omitempty"`
	Subject      string `json:"subject"`
	HeaderText   string `json:"headerText"`
	FooterText   string `json:"footerText"`
	AttachTicket bool   `json:"attachTicket"`
}

// DefaultEmailSettings returns the stock confirmation email configuration.
func DefaultEmailSettings() EmailSettings {
	return EmailSettings{
		FromName:     "FERAL PRESENTS",
		Subject:      "Your tickets are here",
		HeaderText:   "See you on the dancefloor.",
		FooterText:   "Tickets are non-transferable unless resold through us.",
		AttachTicket: true,
	}
}

// TicketPDFSettings drives the ticket layout engine. The same values position
// blocks on the PDF/wallet collaborators and on the HTML/PNG preview.
type TicketPDFSettings struct {
	LogoHeightMm    float64  `json:"logoHeightMm"`
	QRSizeMm        float64  `json:"qrSizeMm"`
	ShowMerchBanner bool     `json:"showMerchBanner"`
	ShowHolderName  bool     `json:"showHolderName"`
	ShowOrderNumber bool     `json:"showOrderNumber"`
	Disclaimer      []string `json:"disclaimer,omitempty"`
}

// DefaultTicketPDFSettings returns the stock A5 ticket layout configuration.
func DefaultTicketPDFSettings() TicketPDFSettings {
	return TicketPDFSettings{
		LogoHeightMm:    18,
		QRSizeMm:        40,
		ShowMerchBanner: false,
		ShowHolderName:  true,
		ShowOrderNumber: true,
		Disclaimer: []string{
			"This ticket admits one person. No re-entry.",
		},
	}
}

// LeaderboardSettings configures the rep/ambassador programme scoring.
type LeaderboardSettings struct {
	Enabled        bool `json:"enabled"`
	PointsPerSale  int  `json:"pointsPerSale"`
	PointsPerMerch int  `json:"pointsPerMerch"`
	TopN           int  `json:"topN"`
}

// DefaultLeaderboardSettings returns the stock rep scoring configuration.
func DefaultLeaderboardSettings() LeaderboardSettings {
	return LeaderboardSettings{
		Enabled:        true,
		PointsPerSale:  10,
		PointsPerMerch: 5,
		TopN:           20,
	}
}

// PlanSettings describes the tenant's billing plan for dashboard display.
type PlanSettings struct {
	Plan          string  `json:"plan"`
	FeePercent    float64 `json:"feePercent"`
	FeeFixedPence int64   `json:"feeFixedPence"`
}

// DefaultPlanSettings returns the entry-level plan.
func DefaultPlanSettings() PlanSettings {
	return PlanSettings{Plan: "starter", FeePercent: 5, FeeFixedPence: 30}
}
