package cleaner

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/sweep/internal/cleaner"
)

const (
	iconSelected   = "●"
	iconUnselected = "○"
)

// View is everything needed to draw one frame. Render never reaches back
// into the session, so the screen can only show what the snapshot holds.
type View struct {
	State         cleaner.State
	Progress      cleaner.Progress
	Candidates    []cleaner.Candidate
	SelectedCount int
	AllSelected   bool
	// Visible indexes into Candidates in display order.
	Visible  []int
	Cursor   int
	Basename func(string) string

	// DeletedAny distinguishes "nothing found" from "everything deleted".
	DeletedAny bool
	Filter     string
	Filtering  bool
	Confirming bool
	Stale      bool
	Status     string
	Preview    string
	Help       string
	Height     int
}

func Render(v View) string {
	var b strings.Builder

	switch v.State {
	case cleaner.StateScanning:
		b.WriteString(headerStyle.Render("Scanning for blank notes..."))
		b.WriteString("\n\n")
		if v.Progress.Total == 0 {
			b.WriteString("Reading files...")
		} else {
			b.WriteString(v.Progress.String())
		}
		b.WriteString("\n")
		return appStyle.Render(b.String())
	case cleaner.StateEmpty:
		b.WriteString(headerStyle.Render("Blank Notes"))
		b.WriteString("\n\n")
		if v.DeletedAny {
			b.WriteString("All blank notes have been deleted.")
		} else {
			b.WriteString("No blank notes found in your vault.")
		}
		b.WriteString("\n")
		writeFooter(&b, v)
		return appStyle.Render(b.String())
	}

	b.WriteString(headerStyle.Render("Blank Notes"))
	b.WriteString("\n")
	b.WriteString(descriptionStyle.Render(fmt.Sprintf(
		"Found %d blank notes. Select notes and use batch delete, or delete individually.",
		len(v.Candidates),
	)))
	b.WriteString("\n\n")
	b.WriteString(renderControls(v))
	b.WriteString("\n")

	if v.Filtering || v.Filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s", v.Filter))
		if v.Filtering {
			b.WriteString("█")
		}
		b.WriteString(fmt.Sprintf("  (%d of %d)\n", len(v.Visible), len(v.Candidates)))
	}

	list := renderList(v)
	if v.Preview != "" {
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, previewStyle.Render(v.Preview))
	}
	b.WriteString(list)
	b.WriteString("\n")

	writeFooter(&b, v)
	return appStyle.Render(b.String())
}

func renderControls(v View) string {
	icon := iconUnselected
	if v.AllSelected {
		icon = iconSelected
	}
	selectAll := fmt.Sprintf("%s Select All", icon)

	label := fmt.Sprintf("Delete Selected (%d)", v.SelectedCount)
	button := buttonStyle.Render(label)
	if v.SelectedCount == 0 || v.State != cleaner.StateReviewing {
		button = disabledStyle.Render(label)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, selectAll, "   ", button)
}

func renderList(v View) string {
	if len(v.Visible) == 0 {
		return descriptionStyle.Render("No notes match the filter.")
	}

	start, end := window(len(v.Visible), v.Cursor, v.Height)

	lines := make([]string, 0, end-start)
	for row := start; row < end; row++ {
		c := v.Candidates[v.Visible[row]]

		fallback := c.Path
		if v.Basename != nil {
			fallback = v.Basename(c.Path)
		}

		icon := iconUnselected
		if c.Selected {
			icon = iconSelected
		}

		label := fmt.Sprintf("%s %s", icon, c.DisplayTitle(fallback))
		switch {
		case row == v.Cursor:
			label = cursorStyle.Render(label)
		case c.Selected:
			label = selectedStyle.Render(label)
		}
		line := label + " " + pathStyle.Render("("+c.Path+")")

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// window keeps the cursor row on screen when the list is taller than height.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

func writeFooter(b *strings.Builder, v View) {
	b.WriteString("\n")
	switch {
	case v.Confirming:
		b.WriteString(warnStyle.Render(fmt.Sprintf("Delete %d selected notes? Press D again to confirm.", v.SelectedCount)))
		b.WriteString("\n")
	case v.Status != "":
		b.WriteString(statusStyle.Render(v.Status))
		b.WriteString("\n")
	}
	if v.Stale {
		b.WriteString(descriptionStyle.Render("The vault changed since the scan. Press r to rescan."))
		b.WriteString("\n")
	}
	if v.Help != "" {
		b.WriteString(v.Help)
		b.WriteString("\n")
	}
}
