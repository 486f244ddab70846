package browse

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobsweep/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// DiscoverFunc collects the listing stubs of one search.
type DiscoverFunc func(ctx context.Context) ([]model.ListingStub, error)

type discoverDoneMsg struct {
	stubs []model.ListingStub
	err   error
}

type spinnerTickMsg struct{}

type loaderModel struct {
	searchName string
	discover   DiscoverFunc
	frame      int
	result     []model.ListingStub
	err        error
	done       bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doDiscover(), m.tick())
}

func (m loaderModel) doDiscover() tea.Cmd {
	discover := m.discover
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		stubs, err := discover(ctx)
		return discoverDoneMsg{stubs: stubs, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case discoverDoneMsg:
		m.result = msg.stubs
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s Paginating listings for %s...\n", spinner, m.searchName)
}

// RunLoader shows a spinner while discover runs. It renders inline (no alt
// screen). Stubs found before a listing failure are returned with the error.
func RunLoader(searchName string, discover DiscoverFunc) ([]model.ListingStub, error) {
	m := loaderModel{
		searchName: searchName,
		discover:   discover,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
