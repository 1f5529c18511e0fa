package styles

import "github.com/charmbracelet/lipgloss"

// color returns a lipgloss.Color, choosing light or dark variant based on
// the current theme set by SetDarkTheme.
func color(light, dark string) lipgloss.Color {
	if isDark {
		return lipgloss.Color(dark)
	}
	return lipgloss.Color(light)
}

// isDark tracks the current theme. Default is dark.
var isDark = true

// SetDarkTheme switches the color palette. Call this before the TUI starts.
func SetDarkTheme(dark bool) {
	isDark = dark
	applyTheme()
}

// IsDarkTheme returns the current theme setting.
func IsDarkTheme() bool {
	return isDark
}

func applyTheme() {
	// --- palette ---
	colorYellow := color("136", "226")
	colorBlue := color("27", "39")
	colorGreen := color("28", "42")
	colorRed := color("160", "196")
	colorGray := color("243", "240")
	colorWhite := color("16", "255")
	colorFocused := color("62", "62")
	colorCyan := color("30", "51")
	colorMagenta := color("90", "213")
	colorSelectedBg := color("254", "237")

	// --- header ---
	HeaderTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	HeaderVersionStyle = lipgloss.NewStyle().Foreground(colorWhite)
	HeaderAddrStyle = lipgloss.NewStyle().Foreground(colorCyan)

	// --- log levels ---
	LogErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	LogWarnStyle = lipgloss.NewStyle().Foreground(colorYellow)
	LogInfoStyle = lipgloss.NewStyle().Foreground(colorGreen)
	LogDebugStyle = lipgloss.NewStyle().Foreground(colorBlue)
	LogTimestampStyle = lipgloss.NewStyle().Foreground(colorGray)

	// --- entries table ---
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	TableSelectedStyle = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorWhite)

	// --- status bar ---
	StatusBarStyle = lipgloss.NewStyle().Foreground(colorWhite)
	StatusBarErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	StatusBarOkStyle = lipgloss.NewStyle().Foreground(colorGreen)
	StatusBarHelpStyle = lipgloss.NewStyle().Foreground(colorGray)

	// --- help modal ---
	HelpModalStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocused).Padding(1, 2)
	HelpTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow).MarginBottom(1)
	HelpKeyStyle = lipgloss.NewStyle().Foreground(colorBlue).Width(12)
	HelpDescStyle = lipgloss.NewStyle().Foreground(colorWhite)

	// --- section ---
	SectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	FocusAccentStyle = lipgloss.NewStyle().Foreground(colorCyan)

	// --- detail view ---
	DetailBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocused).Padding(1, 2)
	DetailLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	DetailMetaStyle = lipgloss.NewStyle().Foreground(colorGray)
	DetailSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	DetailFooterStyle = lipgloss.NewStyle().Foreground(colorGray).MarginTop(1)
	DetailFooterKeyStyle = lipgloss.NewStyle().Foreground(colorBlue)

	// --- value tree ---
	TreeKeyStyle = lipgloss.NewStyle().Foreground(colorCyan)
	TreeStringStyle = lipgloss.NewStyle().Foreground(colorGreen)
	TreeNumberStyle = lipgloss.NewStyle().Foreground(colorMagenta)
	TreeBoolStyle = lipgloss.NewStyle().Foreground(colorYellow)
	TreeNullStyle = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	TreeBranchStyle = lipgloss.NewStyle().Foreground(colorGray)

	// --- backtrace ---
	FrameFileStyle = lipgloss.NewStyle().Foreground(colorWhite)
	FrameLineStyle = lipgloss.NewStyle().Foreground(colorMagenta)
	FrameFuncStyle = lipgloss.NewStyle().Foreground(colorCyan)
}

// All style variables — initialized with dark theme (default).
var (
	// Header styles
	HeaderTitleStyle   lipgloss.Style
	HeaderVersionStyle lipgloss.Style
	HeaderAddrStyle    lipgloss.Style

	// Log level styles
	LogErrorStyle     lipgloss.Style
	LogWarnStyle      lipgloss.Style
	LogInfoStyle      lipgloss.Style
	LogDebugStyle     lipgloss.Style
	LogTimestampStyle lipgloss.Style

	// Table styles
	TableHeaderStyle   lipgloss.Style
	TableSelectedStyle lipgloss.Style

	// Status bar styles
	StatusBarStyle      lipgloss.Style
	StatusBarErrorStyle lipgloss.Style
	StatusBarOkStyle    lipgloss.Style
	StatusBarHelpStyle  lipgloss.Style

	// Help modal styles
	HelpModalStyle lipgloss.Style
	HelpTitleStyle lipgloss.Style
	HelpKeyStyle   lipgloss.Style
	HelpDescStyle  lipgloss.Style

	// Section styles
	SectionTitleStyle lipgloss.Style
	FocusAccentStyle  lipgloss.Style

	// Detail view styles
	DetailBorderStyle    lipgloss.Style
	DetailLabelStyle     lipgloss.Style
	DetailMetaStyle      lipgloss.Style
	DetailSectionStyle   lipgloss.Style
	DetailFooterStyle    lipgloss.Style
	DetailFooterKeyStyle lipgloss.Style

	// Value tree styles
	TreeKeyStyle    lipgloss.Style
	TreeStringStyle lipgloss.Style
	TreeNumberStyle lipgloss.Style
	TreeBoolStyle   lipgloss.Style
	TreeNullStyle   lipgloss.Style
	TreeBranchStyle lipgloss.Style

	// Backtrace styles
	FrameFileStyle lipgloss.Style
	FrameLineStyle lipgloss.Style
	FrameFuncStyle lipgloss.Style
)

func init() {
	applyTheme()
}
