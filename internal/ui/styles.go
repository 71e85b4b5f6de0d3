package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Mohsinsiddi/bn8004/internal/launchpad"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green, confirmations
	ColorWarning   = lipgloss.Color("#FFB800") // yellow, wallet prompts
	ColorError     = lipgloss.Color("#FF4444") // red, failures
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan, addresses and hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold, balances
	ColorMeta      = lipgloss.Color("#555555") // dim gray, hints
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue, UI chrome
	ColorBrand     = lipgloss.Color("#F0B90B") // BNB yellow, titles
	ColorHighlight = lipgloss.Color("#F15BB5") // pink, enabled buttons
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorBrand).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleButton = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorHighlight).
			Foreground(ColorValue).
			Bold(true).
			Padding(0, 2)

	StyleButtonDisabled = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMeta).
				Foreground(ColorMeta).
				Padding(0, 2)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorBrand).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Banner returns the launchpad title.
func Banner() string {
	art := `
  ██████╗ ███╗   ██╗ █████╗  ██████╗  ██████╗ ██╗  ██╗
  ██╔══██╗████╗  ██║██╔══██╗██╔═████╗██╔═████╗██║  ██║
  ██████╔╝██╔██╗ ██║╚█████╔╝██║██╔██║██║██╔██║███████║
  ██╔══██╗██║╚██╗██║██╔══██╗████╔╝██║████╔╝██║╚════██║
  ██████╔╝██║ ╚████║╚█████╔╝╚██████╔╝╚██████╔╝     ██║
  ╚═════╝ ╚═╝  ╚═══╝ ╚════╝  ╚═════╝  ╚═════╝      ╚═╝`

	tagline := StyleMeta.Render("     Launchpad  ⚡  pay 1 USDT, mint 8004 BN8004")
	return StyleChain.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a usage hint.
func Hint(msg string) string { return StyleMeta.Render("💡 " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a chain name.
func ChainName(c string) string { return StyleChain.Render(c) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// Message renders a banner message in the style of its kind.
func Message(m launchpad.Message) string {
	var out string
	switch m.Kind {
	case launchpad.MessageSuccess:
		out = Success(m.Text)
	case launchpad.MessageError:
		out = Err(m.Text)
	default:
		out = Info(m.Text)
	}
	if m.Link != "" {
		out += "\n  " + Addr(m.Link)
	}
	return out
}

// Button renders a control with its shortcut key.
func Button(key string, s launchpad.ButtonState) string {
	label := s.Label
	if s.Loading {
		label = "⠿ " + label
	}
	if !s.Enabled {
		return StyleButtonDisabled.Render(label)
	}
	return StyleButton.Render("[" + key + "] " + label)
}
