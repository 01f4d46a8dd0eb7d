package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/justchokingaround/reel/internal/rating"
)

// Oxocarbon color scheme, base16 oxocarbon-dark
var (
	OxocarbonBlack  = lipgloss.Color("#161616")
	OxocarbonBase00 = lipgloss.Color("#262626")
	OxocarbonBase01 = lipgloss.Color("#393939")
	OxocarbonBase02 = lipgloss.Color("#525252")
	OxocarbonBase03 = lipgloss.Color("#767676")
	OxocarbonBase04 = lipgloss.Color("#dde1e6")
	OxocarbonBase05 = lipgloss.Color("#f2f4f8")
	OxocarbonWhite  = lipgloss.Color("#ffffff")

	OxocarbonTeal    = lipgloss.Color("#3ddbd9")
	OxocarbonBlue    = lipgloss.Color("#78a9ff")
	OxocarbonPink    = lipgloss.Color("#ee5396")
	OxocarbonRed     = lipgloss.Color("#ff5252")
	OxocarbonCyan    = lipgloss.Color("#33b1ff")
	OxocarbonGreen   = lipgloss.Color("#42be65")
	OxocarbonPurple  = lipgloss.Color("#be95ff") // main accent
	OxocarbonMauve   = lipgloss.Color("#d1aaff")
	OxocarbonMagenta = lipgloss.Color("#ff7eb6")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonPurple).
			Padding(0, 1).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonMauve).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase03)

	// Left-bordered list item
	ItemStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(OxocarbonBase02).
			BorderLeft(true).
			PaddingLeft(2).
			PaddingRight(2).
			MarginLeft(1)

	ItemSelectedStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(OxocarbonPurple).
				BorderLeft(true).
				PaddingLeft(2).
				PaddingRight(2).
				MarginLeft(1)

	ItemTitleStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Bold(true)

	MetadataStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04)

	URLStyle = lipgloss.NewStyle().
			Foreground(OxocarbonCyan).
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(OxocarbonPurple).
			Bold(true).
			Underline(true)

	SynopsisStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase04).
			Italic(true)

	// Genre chips
	ChipStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Background(OxocarbonBase01).
			Padding(0, 1)

	ChipSelectedStyle = lipgloss.NewStyle().
				Foreground(OxocarbonBlack).
				Background(OxocarbonPurple).
				Padding(0, 1).
				Bold(true)

	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(OxocarbonBase01).
			Padding(0, 1)

	SidebarFocusedStyle = SidebarStyle.
				BorderForeground(OxocarbonPurple)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonPurple).
			Padding(0, 2).
			Bold(true)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(OxocarbonBase03).
				Background(OxocarbonBase01).
				Padding(0, 2)

	FooterStyle = lipgloss.NewStyle().
			Foreground(OxocarbonBase05).
			Background(OxocarbonBase01).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(OxocarbonWhite).
			Background(OxocarbonRed).
			Padding(0, 1).
			Bold(true)

	PopupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(OxocarbonPurple).
			Padding(1, 2)
)

// BadgeStyle colors a rating badge: percentage in the bar color on the track color
func BadgeStyle(b rating.Badge) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(b.Bar)).
		Background(lipgloss.Color(b.Track)).
		Bold(true).
		Padding(0, 1)
}

// BarStyle returns the filled and unfilled segment styles of a rating meter
func BarStyle(b rating.Badge) (filled, track lipgloss.Style) {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(b.Bar)),
		lipgloss.NewStyle().Foreground(lipgloss.Color(b.Track))
}
