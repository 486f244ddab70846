// Package browse is the interactive listing browser: pick a search, watch
// discovery, then walk the stubs and open any of them to see the record the
// pipeline would store for it.
package browse

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobsweep/internal/detail"
	"github.com/amishk599/jobsweep/internal/model"
)

// Lines per stub in the list view (title + subtitle + blank separator).
const stubItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	stubTitleStyle = lipgloss.NewStyle().
			Bold(true)

	stubSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(20)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// detailFetchedMsg is sent when an async detail fetch completes.
type detailFetchedMsg struct {
	url    string
	record model.JobRecord
	ok     bool
	err    error
}

type browseModel struct {
	searchName string
	stubs      []model.ListingStub
	records    map[string]detailFetchedMsg
	list       viewport.Model
	cursor     int
	width      int
	height     int
	ready      bool

	view            viewState
	current         detailFetchedMsg
	detailLoading   bool
	detailViewport  viewport.Model
	showDescription bool

	fetcher model.PageFetcher
	now     func() time.Time

	wantQuit bool
}

func newBrowseModel(searchName string, stubs []model.ListingStub, fetcher model.PageFetcher) browseModel {
	return browseModel{
		searchName: searchName,
		stubs:      stubs,
		records:    make(map[string]detailFetchedMsg),
		fetcher:    fetcher,
		now:        time.Now,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case detailFetchedMsg:
		m.records[msg.url] = msg
		if m.view == viewDetail && m.current.url == msg.url {
			m.detailLoading = false
			m.current = msg
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.stubs)-1, 0))
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.stubs)-1, 0))
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.current.url)
		return m, nil
	case "r":
		if m.current.record.DescriptionText != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browseModel) ensureCursorVisible() {
	cursorTop := m.cursor * stubItemHeight
	cursorBottom := cursorTop + stubItemHeight - 1

	if cursorTop < m.list.YOffset {
		m.list.SetYOffset(cursorTop)
	} else if cursorBottom >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(cursorBottom - m.list.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.stubs) == 0 {
		return m, nil
	}

	stub := m.stubs[m.cursor]
	m.view = viewDetail
	m.showDescription = false
	m.detailViewport = viewport.New(max(m.width-4, 20), max(m.height-4, 5))

	if cached, ok := m.records[stub.URL]; ok {
		m.current = cached
		m.detailLoading = false
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil
	}

	m.current = detailFetchedMsg{url: stub.URL}
	m.current.record, m.current.ok = detail.FromStub(stub, m.now())
	m.detailLoading = true
	m.detailViewport.SetContent(m.renderDetail())
	return m, m.fetchDetailCmd(stub)
}

func (m browseModel) fetchDetailCmd(stub model.ListingStub) tea.Cmd {
	fetcher, now := m.fetcher, m.now
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		markup, err := fetcher.Fetch(ctx, stub.URL)
		if err != nil {
			rec, ok := detail.FromStub(stub, now())
			return detailFetchedMsg{url: stub.URL, record: rec, ok: ok, err: err}
		}
		rec, ok := detail.Build(stub, markup, now())
		return detailFetchedMsg{url: stub.URL, record: rec, ok: ok}
	}
}

func (m *browseModel) recalcLayout() {
	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	width := max(m.width-2, 20)
	height := max(m.height-4, 5)

	if !m.ready {
		m.list = viewport.New(width, height)
		m.ready = true
	} else {
		m.list.Width = width
		m.list.Height = height
	}
	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.list.SetContent(renderStubs(m.stubs, m.cursor, m.records))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf(" %s · %d listings", m.searchName, len(m.stubs)))
	pane := borderStyle.Width(m.list.Width).Render(m.list.View())

	statusText := fmt.Sprintf(" %d listings | %d opened    ↑/↓ cursor  Enter record  Esc back  q quit",
		len(m.stubs), len(m.records))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Record")
	if m.detailLoading {
		title += "  (fetching detail page...)"
	}

	content := borderStyle.Width(m.width - 2).Render(m.detailViewport.View())

	statusText := " o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	if m.current.record.DescriptionText != "" {
		statusText = " o open URL  r description  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	var b strings.Builder

	for _, f := range recordFields(m.current.record) {
		b.WriteString(detailLabelStyle.Render(f.label))
		b.WriteString(f.value)
		b.WriteByte('\n')
	}

	if !m.current.ok && !m.detailLoading {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ no usable title, the pipeline would skip this listing") + "\n")
	}
	if m.current.err != nil {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render(fmt.Sprintf("⚠ detail fetch failed, showing listing data: %v", m.current.err)) + "\n")
	}

	desc := m.current.record.DescriptionText
	if desc == "" {
		return b.String()
	}

	wrapWidth := max(m.width-8, 20)
	b.WriteByte('\n')
	if m.showDescription {
		label := "── Description "
		b.WriteString(dividerStyle.Render(label+strings.Repeat("─", max(wrapWidth-len(label), 3))) + "\n\n")
		b.WriteString(wordWrap(desc, wrapWidth) + "\n")
	} else {
		b.WriteString(hintStyle.Render("  press r to read the description") + "\n")
	}
	return b.String()
}

type field struct {
	label string
	value string
}

// fieldOrder fixes where known keys appear; anything else follows sorted.
var fieldOrder = []struct{ key, label string }{
	{"title", "Title"},
	{"company", "Company"},
	{"location", "Location"},
	{"salary", "Salary"},
	{"job_type", "Job Type"},
	{"date_posted", "Posted"},
	{"valid_through", "Valid Through"},
	{"job_id", "Job ID"},
	{"listing_job_id", "Listing ID"},
	{"hiring_organization", "Organization"},
	{"industry", "Industry"},
	{"sector", "Sector"},
	{"job_nature", "Job Nature"},
	{"summary", "Summary"},
	{"bullet_points", "Highlights"},
	{"url", "URL"},
	{"scrapedAt", "Scraped At"},
}

// hidden keys are shown elsewhere or duplicate another field.
var hidden = map[string]bool{
	"description_html": true,
	"description_text": true,
	"base_salary":      true,
	"employment_type":  true,
}

// recordFields lists the populated fields of rec as label/value pairs.
func recordFields(rec model.JobRecord) []field {
	m := rec.Map()
	var out []field
	used := make(map[string]bool)

	for _, f := range fieldOrder {
		v, ok := m[f.key]
		used[f.key] = true
		if !ok {
			continue
		}
		out = append(out, field{label: f.label, value: formatValue(v)})
	}

	var rest []string
	for k := range m {
		if !used[k] && !hidden[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, field{label: labelFor(k), value: formatValue(m[k])})
	}
	return out
}

func labelFor(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// formatValue renders salary objects, lists and scalars on one line.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		return strings.Join(t, "; ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		return formatSalary(t)
	}
	return fmt.Sprint(v)
}

func formatSalary(s map[string]any) string {
	var amount string
	minV, hasMin := s["minValue"]
	maxV, hasMax := s["maxValue"]
	switch {
	case hasMin && hasMax:
		amount = formatValue(minV) + " - " + formatValue(maxV)
	case hasMin:
		amount = "from " + formatValue(minV)
	case hasMax:
		amount = "up to " + formatValue(maxV)
	default:
		if v, ok := s["value"]; ok {
			amount = formatValue(v)
		}
	}

	out := amount
	if c, ok := s["currency"]; ok {
		out = strings.TrimSpace(formatValue(c) + " " + out)
	}
	if u, ok := s["unit"]; ok {
		out += " / " + strings.ToLower(formatValue(u))
	}
	return out
}

func renderStubs(stubs []model.ListingStub, cursor int, opened map[string]detailFetchedMsg) string {
	if len(stubs) == 0 {
		return "  (no listings)"
	}

	var b strings.Builder
	for i, s := range stubs {
		titleSt, subtitleSt, prefix := stubTitleStyle, stubSubtitleStyle, "  "
		if i == cursor {
			titleSt, subtitleSt, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
		}

		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		if _, ok := opened[s.URL]; ok {
			title += " ✓"
		}
		b.WriteString(prefix)
		b.WriteString(titleSt.Render(title))
		b.WriteByte('\n')

		var sub []string
		for _, part := range []string{s.Company, s.Location, s.Salary} {
			if part != "" {
				sub = append(sub, part)
			}
		}
		if len(sub) == 0 {
			sub = append(sub, s.URL)
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(strings.Join(sub, " · ")))
		b.WriteByte('\n')

		if i < len(stubs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowser launches the full-screen listing browser over stubs. fetcher
// loads detail pages on demand. Returns wantQuit=true if the user pressed
// q/ctrl+c, false if they pressed esc to return to the picker.
func RunBrowser(searchName string, stubs []model.ListingStub, fetcher model.PageFetcher) (bool, error) {
	p := tea.NewProgram(newBrowseModel(searchName, stubs, fetcher), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(browseModel)
	return final.wantQuit, nil
}
