package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gemops/vmdash/internal/api"
)

// Theme is the fully-enumerated style set for the dashboard, assembled
// once at construction. Nothing mutates it afterwards, so rendering
// never depends on initialization order.
type Theme struct {
	Title        lipgloss.Style
	FilterBar    lipgloss.Style
	TableHeader  lipgloss.Style
	Row          lipgloss.Style
	SelectedRow  lipgloss.Style
	Running      lipgloss.Style
	Stopped      lipgloss.Style
	Provisioning lipgloss.Style
	ErrorBanner  lipgloss.Style
	Notice       lipgloss.Style
	EmptyInfo    lipgloss.Style
	Help         lipgloss.Style
	Spinner      lipgloss.Style
}

// NewTheme builds the default theme.
func NewTheme() Theme {
	return Theme{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		FilterBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		TableHeader:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		Row:          lipgloss.NewStyle(),
		SelectedRow:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Running:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Stopped:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Provisioning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ErrorBanner:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("124")).Padding(0, 1),
		Notice:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		EmptyInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Help:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Spinner:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
	}
}

// statusStyle picks the style for a power status cell.
func (t Theme) statusStyle(status api.Status) lipgloss.Style {
	switch status {
	case api.StatusRunning:
		return t.Running
	case api.StatusStopped:
		return t.Stopped
	case api.StatusProvisioning:
		return t.Provisioning
	default:
		return t.Row
	}
}

// View renders the dashboard frame.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("VM Fleet Dashboard"))
	b.WriteString("\n\n")

	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")

	if m.state.Loading {
		b.WriteString(m.spin.View() + " loading...\n\n")
	} else if m.state.LastError != "" {
		// An error banner, not an empty-fleet notice: the two states
		// must be distinguishable.
		b.WriteString(m.theme.ErrorBanner.Render("error: "+m.state.LastError) + "\n\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(m.renderTable())

	if m.notice != "" {
		b.WriteString("\n" + m.theme.Notice.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + m.theme.Help.Render(
		"↑/↓ select • enter toggle power • c connect • / search • s status • z zone • r refresh • q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderFilterBar shows the active filter dimensions. Inactive filters
// render as "all"; that label lives only in the presentation layer.
func (m Model) renderFilterBar() string {
	status := "all"
	if m.state.Filters.Status != nil {
		status = string(*m.state.Filters.Status)
	}

	zone := "all"
	if m.state.Filters.Zone != nil {
		zone = *m.state.Filters.Zone
	}

	bar := fmt.Sprintf("status: %s • zone: %s", status, zone)
	if m.searching {
		return m.search.View() + "   " + m.theme.FilterBar.Render(bar)
	}
	if m.state.Filters.Search != "" {
		bar = fmt.Sprintf("name: %s • %s", m.state.Filters.Search, bar)
	}
	return m.theme.FilterBar.Render(bar)
}

// renderTable renders the filtered fleet, or the appropriate
// informational state when nothing is visible.
func (m Model) renderTable() string {
	if m.state.Loading {
		return ""
	}

	filtered := m.state.FilteredVMs()
	if len(filtered) == 0 {
		if m.state.LastError != "" {
			return ""
		}
		if len(m.state.VMs) == 0 {
			return m.theme.EmptyInfo.Render("No VMs found") + "\n"
		}
		return m.theme.EmptyInfo.Render("No VMs match the current filters") + "\n"
	}

	var b strings.Builder
	header := fmt.Sprintf("  %-20s %-14s %-16s %-14s %-16s %-16s",
		"NAME", "STATUS", "ZONE", "MACHINE TYPE", "EXTERNAL IP", "INTERNAL IP")
	b.WriteString(m.theme.TableHeader.Render(header) + "\n")

	for i, vm := range filtered {
		external := vm.IPExternal
		if external == "" {
			external = "-"
		}

		// Rows are colored by status; the selected row wins. Styling is
		// applied to the whole line so column alignment never has to
		// account for escape sequences.
		marker := "  "
		rowStyle := m.theme.statusStyle(vm.Status)
		if i == m.cursor {
			marker = "> "
			rowStyle = m.theme.SelectedRow
		}

		row := fmt.Sprintf("%s%-20s %-14s %-16s %-14s %-16s %-16s",
			marker,
			vm.Name,
			string(vm.Status),
			vm.ZoneRegion,
			vm.MachineType,
			external,
			vm.IPInternal)
		b.WriteString(rowStyle.Render(row) + "\n")
	}

	return b.String()
}
