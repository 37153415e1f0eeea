// Package tui is a terminal front end for the dashboard, built on
// bubbletea. It drives the same Dashboard state as the web page.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pricelabs-dash/dashboard"
	"pricelabs-dash/services"
)

const (
	groupWidth  = 24
	countWidth  = 18
	metricWidth = 16
)

// sortKeys maps shortcut keys to sortable columns.
var sortKeys = map[string]string{
	"g": services.ColumnGroup,
	"c": services.ColumnCount,
	"1": services.MetricColumns[0],
	"2": services.MetricColumns[1],
	"3": services.MetricColumns[2],
	"4": services.MetricColumns[3],
	"5": services.MetricColumns[4],
}

// Model is the bubbletea model.
type Model struct {
	ctx     context.Context
	dash    *dashboard.Dashboard
	spinner spinner.Model
	cursor  int
	status  string
}

// New creates a Model over dash. ctx bounds every fetch it starts.
func New(ctx context.Context, dash *dashboard.Dashboard) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{ctx: ctx, dash: dash, spinner: sp}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, dash *dashboard.Dashboard) error {
	_, err := tea.NewProgram(New(ctx, dash), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, load(m.ctx, m.dash, false), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		// Errors surface through the dashboard view.
		m.status = ""
		m.clampCursor()
		return m, nil

	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if column, ok := sortKeys[key]; ok {
		_ = m.dash.Sort(column)
		return m, nil
	}

	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		m.cursor++
		m.clampCursor()

	case "enter", " ":
		groups := m.dash.View().Groups
		if m.cursor < len(groups) {
			m.dash.ToggleGroup(groups[m.cursor].Name)
		}

	case "d":
		m.dash.ToggleDarkMode()

	case "r":
		if remaining := m.dash.CooldownRemaining(); remaining > 0 {
			m.status = "Next refresh available in " + dashboard.FormatCountdown(remaining)
			return m, nil
		}
		m.status = "Refreshing..."
		return m, load(m.ctx, m.dash, true)
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.dash.View().Groups)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	v := m.dash.View()
	st := newStyles(v.Dark)

	var b strings.Builder
	b.WriteString(st.Title.Render("PriceLabs MPI Dashboard"))
	b.WriteString("\n")
	b.WriteString(st.Subtitle.Render("Market Penetration Index averages by listing group"))
	b.WriteString("\n")

	switch {
	case v.Loading:
		b.WriteString(m.spinner.View() + " Loading dashboard data...\n")
		b.WriteString(st.Help.Render("q quit"))
		return b.String()
	case v.Error != "" && !v.HasData():
		b.WriteString(st.Error.Render("Error loading data: "+v.Error) + "\n")
		b.WriteString(m.footer(v, st))
		return b.String()
	}

	if v.Error != "" {
		b.WriteString(st.Error.Render(v.Error) + "\n")
	}
	b.WriteString(renderCards(v, st))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable(v, st))
	b.WriteString(m.footer(v, st))
	return b.String()
}

func renderCards(v dashboard.View, st styles) string {
	cards := []struct {
		title string
		value int
	}{
		{"Total Groups", v.TotalGroups},
		{"Total Listings", v.TotalListings},
		{"Avg Listings/Group", v.AvgListingsPerGroup},
	}
	rendered := make([]string, 0, len(cards))
	for i, c := range cards {
		body := st.Muted.Render(c.title) + "\n" + st.Cards[i].Render(fmt.Sprint(c.value))
		rendered = append(rendered, st.Card.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable(v dashboard.View, st styles) string {
	var b strings.Builder

	header := make([]string, 0, len(v.Columns)+1)
	header = append(header, "  ")
	for i, c := range v.Columns {
		label := c.Label + " " + c.Indicator()
		style := st.Header
		if c.Active {
			style = st.Active
		}
		header = append(header, style.Render(pad(label, columnWidth(i), i < 1)))
	}
	b.WriteString(strings.Join(header, ""))
	b.WriteString("\n")

	if !v.HasData() {
		b.WriteString(st.Muted.Render("No grouped data available"))
		b.WriteString("\n")
		return b.String()
	}

	for i, g := range v.Groups {
		marker := "+ "
		if g.Expanded {
			marker = "- "
		}
		cells := []string{marker, pad(g.Name, groupWidth, true), pad(fmt.Sprint(g.Count), countWidth, false)}
		for _, c := range g.Cells {
			cells = append(cells, pad(c, metricWidth, false))
		}
		row := strings.Join(cells, "")
		if i == m.cursor {
			row = st.Selected.Render(row)
		} else {
			row = st.Cell.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")

		for _, l := range g.Listings {
			cells := []string{"  ", pad("  "+l.Label, groupWidth, true), pad("", countWidth, false)}
			for _, c := range l.Cells {
				cells = append(cells, pad(c, metricWidth, false))
			}
			b.WriteString(st.Listing.Render(strings.Join(cells, "")))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) footer(v dashboard.View, st styles) string {
	var lines []string
	switch {
	case v.Refreshing:
		lines = append(lines, m.spinner.View()+" Refreshing...")
	case v.CooldownLabel != "":
		lines = append(lines, "Next refresh available in "+v.CooldownLabel)
	case m.status != "":
		lines = append(lines, m.status)
	}
	if v.RateLimit != nil {
		lines = append(lines, fmt.Sprintf("Rate limit: %s of %s remaining (resets %s)",
			v.RateLimit.RateLimitRemaining, v.RateLimit.RateLimitLimit, v.RateLimit.RateLimitReset))
	}
	lines = append(lines, "Data fetched from PriceLabs API")

	help := "↑/↓ move • enter expand • g/c/1-5 sort • r refresh • d theme • q quit"
	return st.Muted.Render(strings.Join(lines, "\n")) + "\n" + st.Help.Render(help)
}

func columnWidth(i int) int {
	switch i {
	case 0:
		return groupWidth
	case 1:
		return countWidth
	default:
		return metricWidth
	}
}

// pad fits s into width cells, left or right aligned.
func pad(s string, width int, left bool) string {
	if lipgloss.Width(s) > width-1 {
		r := []rune(s)
		if len(r) > width-2 {
			s = string(r[:width-2]) + "…"
		}
	}
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if left {
		return s + strings.Repeat(" ", gap)
	}
	return strings.Repeat(" ", gap-1) + s + " "
}
