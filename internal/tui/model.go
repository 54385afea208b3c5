package tui

import (
	"context"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/domain"
	"github.com/yuqiaowu/news-analyse/internal/render"
	"github.com/yuqiaowu/news-analyse/internal/schedule"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Fetcher downloads one analysis snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, force bool) (*domain.Snapshot, error)
}

type snapshotMsg struct {
	snapshot *domain.Snapshot
	err      error
}

type tickMsg time.Time

// AppModel is the dashboard's bubbletea model. It retains the last good
// snapshot across failed fetches; errors surface as an inline banner.
type AppModel struct {
	fetcher Fetcher
	md      render.MarkdownRenderer
	now     func() time.Time

	lang     domain.Language
	snapshot *domain.Snapshot
	view     render.ViewState
	viewErr  error

	spinner  spinner.Model
	fetching bool
	fetchErr error
	retryAt  time.Time

	width  int
	height int
}

func NewAppModel(fetcher Fetcher) *AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	m := &AppModel{
		fetcher: fetcher,
		md:      render.NewTerminalRenderer(),
		now:     time.Now,
		lang:    domain.LangCN,
		spinner: sp,
	}
	m.rebuild()
	return m
}

func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AppModel) Init() tea.Cmd {
	m.fetching = true
	return tea.Batch(m.spinner.Tick, m.fetchCmd(false), tickCmd())
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			m.lang = m.lang.Toggle()
			m.rebuild()
			return m, nil
		case "r":
			if m.fetching {
				return m, nil
			}
			m.fetching = true
			return m, tea.Batch(m.spinner.Tick, m.fetchCmd(true))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.fetching = false
		if msg.err != nil {
			m.fetchErr = msg.err
			return m, nil
		}
		m.fetchErr = nil
		m.snapshot = msg.snapshot
		m.rebuild()
		return m, nil

	case tickMsg:
		now := m.now()
		var cmd tea.Cmd
		if !m.fetching && m.snapshot != nil &&
			schedule.FromSnapshot(m.snapshot, now) <= 0 && !now.Before(m.retryAt) {
			m.fetching = true
			// A snapshot that comes back still stale waits the short retry
			// delay instead of refetching on every tick. The refetch is
			// forced so the cache-busting param skips any intermediate cache.
			m.retryAt = now.Add(schedule.StaleRetryDelay)
			cmd = tea.Batch(m.spinner.Tick, m.fetchCmd(true))
		}
		return m, tea.Batch(tickCmd(), cmd)

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// rebuild recomputes the view state for the current snapshot and language.
func (m *AppModel) rebuild() {
	m.view, m.viewErr = render.BuildView(m.snapshot, m.lang, m.md)
}

func (m *AppModel) fetchCmd(force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		snapshot, err := m.fetcher.Fetch(ctx, force)
		return snapshotMsg{snapshot: snapshot, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
