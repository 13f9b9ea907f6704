package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typers/internal/session"
	"github.com/verte-zerg/typers/internal/typing"
)

const refreshInterval = time.Second

// NoticeSource returns the latest warning to show in the footer.
type NoticeSource interface {
	Last() string
}

type sentenceMsg struct {
	text string
	err  error
}

type tickMsg time.Time

// Model implements the Bubble Tea typing UI on top of a session.
type Model struct {
	ctx     context.Context
	session *session.Session
	notices NoticeSource
	keys    KeyMap
	spinner spinner.Model

	width  int
	height int

	fetching    bool
	err         error
	interrupted bool
}

// NewModel constructs a typing TUI model. notices may be nil.
func NewModel(ctx context.Context, s *session.Session, notices NoticeSource) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = footerStyle
	return &Model{
		ctx:     ctx,
		session: s,
		notices: notices,
		keys:    DefaultKeyMap(),
		spinner: sp,
	}
}

// Err returns the error that ended the run, if any.
func (m *Model) Err() error {
	return m.err
}

// Interrupted reports whether the user quit before the last round.
func (m *Model) Interrupted() bool {
	return m.interrupted
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.session.Phase() == session.Finished {
		return tea.Quit
	}
	return tea.Batch(m.fetch(), tick())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case sentenceMsg:
		m.fetching = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.session.Load(msg.text)
		return m, m.afterInput()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.interrupted = true
			return m, tea.Quit
		}
		if m.session.Phase() != session.InProgress {
			return m, nil
		}
		if key.Matches(msg, m.keys.Cancel) {
			m.session.Apply(typing.Cancel())
		} else {
			for _, ev := range keyEvents(msg) {
				m.session.Apply(ev)
			}
		}
		return m, m.afterInput()
	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tickMsg:
		return m, tick()
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	v := m.session.View()
	if v.State.Len() == 0 && m.fetching {
		waiting := m.spinner.View() + " Fetching sentence..."
		if m.width == 0 || m.height == 0 {
			return waiting
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, waiting)
	}

	metrics := metricsStyle.Render(RenderMetrics(v.Metrics))
	if m.width == 0 || m.height == 0 {
		return RenderSentence(v.State, 0) + "\n\n" + metrics
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	sentence := lipgloss.NewStyle().Width(contentWidth).Render(RenderSentence(v.State, contentWidth))
	content := lipgloss.JoinVertical(lipgloss.Left, sentence, "", metrics)
	footer := m.renderFooter(v)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter(v session.View) string {
	segments := []string{fmt.Sprintf("Round %d/%d", v.Round, v.Rounds)}
	if m.fetching {
		segments = append(segments, m.spinner.View()+" fetching")
	} else {
		segments = append(segments, fmt.Sprintf("Progress %d%%", int(v.State.Progress()*100)))
	}
	for _, b := range []key.Binding{m.keys.Cancel, m.keys.Quit} {
		h := b.Help()
		segments = append(segments, h.Key+" "+h.Desc)
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.notices != nil {
		if notice := m.notices.Last(); notice != "" {
			footer += "  " + noticeStyle.Render(notice)
		}
	}
	return footer
}

func (m *Model) afterInput() tea.Cmd {
	if m.session.Phase() != session.RoundComplete {
		return nil
	}
	m.session.Advance()
	if m.session.Phase() == session.Finished {
		return tea.Quit
	}
	return m.fetch()
}

// fetch runs the blocking sentence request off the update loop. Only one is
// in flight at a time, since the next round waits for its result.
func (m *Model) fetch() tea.Cmd {
	m.fetching = true
	s := m.session
	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg {
			text, err := s.Fetch(ctx)
			return sentenceMsg{text: text, err: err}
		},
		m.spinner.Tick,
	)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
