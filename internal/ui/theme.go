package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Theme bundles palette, symbols and borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Selected lipgloss.Style

	SymOK, SymFail, SymCursor string

	Border lipgloss.Border
	Table  table.Style
}

var current = themeFor("classic")

func SetTheme(name string) { current = themeFor(name) }

// Expose what renderers need
func Current() Theme { return current }

func themeFor(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:     "neon",
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			SymOK:    "✔", SymFail: "✖", SymCursor: "❯ ",
			Border: lipgloss.RoundedBorder(),
			Table:  table.StyleRounded,
		}
	case "mono":
		return Theme{
			Name:     "mono",
			Title:    lipgloss.NewStyle(),
			Muted:    lipgloss.NewStyle(),
			Accent:   lipgloss.NewStyle(),
			Success:  lipgloss.NewStyle(),
			Error:    lipgloss.NewStyle(),
			Selected: lipgloss.NewStyle().Reverse(true),
			SymOK:    "ok:", SymFail: "error:", SymCursor: "> ",
			Border: lipgloss.NormalBorder(),
			Table:  table.StyleDefault,
		}
	default: // classic
		return Theme{
			Name:     "classic",
			Title:    lipgloss.NewStyle().Bold(true),
			Muted:    lipgloss.NewStyle().Faint(true),
			Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
			SymOK:    "✔", SymFail: "✖", SymCursor: "> ",
			Border: lipgloss.RoundedBorder(),
			Table:  table.StyleLight,
		}
	}
}
