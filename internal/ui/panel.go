package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/idilsaglam/todolist/internal/model"
)

// TimeLayout is how creation times are shown.
const TimeLayout = "2006-01-02 15:04"

func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

func Hint(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Muted.Render(msg))
}

// Panel frames lines with the current theme's border.
func Panel(lines []string) string {
	return lipgloss.NewStyle().
		Border(Current().Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// Header is the one-line summary above a listing.
func Header(count int, filter string) string {
	t := Current()
	h := fmt.Sprintf("%s  %s %d", t.Title.Render("Todos"), t.Accent.Render("Total"), count)
	if filter != "" {
		h += "  " + t.Muted.Render(fmt.Sprintf("filter: %q", filter))
	}
	return h
}

// ItemTable writes items as a table with 1-based row numbers, the numbers
// `todo rm` accepts.
func ItemTable(w io.Writer, items []model.Item, filter string) {
	if len(items) == 0 {
		msg := "No items yet. Add one with `todo add \"Buy milk\"`"
		if filter != "" {
			msg = fmt.Sprintf("No items match %q", filter)
		}
		fmt.Fprintln(w, Panel([]string{Header(0, filter), "", Current().Muted.Render(msg)}))
		return
	}

	fmt.Fprintln(w, Header(len(items), filter))
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(Current().Table)
	tw.AppendHeader(table.Row{"#", "Name", "Created"})
	for i, it := range items {
		tw.AppendRow(table.Row{i + 1, it.Name, it.CreatedAt.In(time.Local).Format(TimeLayout)})
	}
	tw.Render()
}
