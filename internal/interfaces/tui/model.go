// Package tui is the terminal rendition of the admissions chat widget:
// the same transcript, lead-capture and Enter-to-send behavior, drawn
// with bubbletea instead of a browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/session"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

const (
	modeChat = iota
	modeLead
)

var (
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type stateMsg session.State

type leadResultMsg struct {
	state session.State
	err   error
}

type syncDoneMsg struct{ err error }

// Model is the bubbletea model for the terminal chat client.
type Model struct {
	engine     *session.Engine
	leadPrompt string

	viewport viewport.Model
	input    textarea.Model
	leadForm []textinput.Model
	focus    int
	spin     spinner.Model
	renderer *glamour.TermRenderer

	mode    int
	width   int
	height  int
	ready   bool
	loading bool
	err     string
}

// New creates the terminal chat model around a session engine.
func New(engine *session.Engine, leadPrompt string) Model {
	ta := textarea.New()
	ta.Placeholder = "Write a message..."
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	labels := []string{"Name", "Email", "Phone"}
	form := make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Placeholder = label
		form[i] = ti
	}

	return Model{
		engine:     engine,
		leadPrompt: leadPrompt,
		input:      ta,
		leadForm:   form,
		spin:       sp,
		mode:       modeChat,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.input.SetWidth(msg.Width - 2)
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-4),
		)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.loading = false
		m.err = session.State(msg).Error
		m.refresh()
		// Enter-triggered submissions also push the snapshot upstream
		return m, m.syncCmd()

	case leadResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = "An error occurred while fetching the data. Please try again."
		} else {
			m.err = msg.state.Error
		}
		m.mode = modeChat
		m.input.Focus()
		m.refresh()
		return m, nil

	case syncDoneMsg:
		if msg.err != nil {
			m.err = "An error occurred while fetching the data. Please try again."
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+d":
		if m.mode == modeChat && m.engine.State().PromptShown {
			m.mode = modeLead
			m.focus = 0
			m.input.Blur()
			m.leadForm[0].Focus()
			return m, nil
		}

	case "tab", "shift+tab":
		if m.mode == modeLead {
			m.leadForm[m.focus].Blur()
			if msg.String() == "tab" {
				m.focus = (m.focus + 1) % len(m.leadForm)
			} else {
				m.focus = (m.focus + len(m.leadForm) - 1) % len(m.leadForm)
			}
			m.leadForm[m.focus].Focus()
			return m, nil
		}

	case "enter":
		if m.loading {
			return m, nil
		}
		if m.mode == modeLead {
			m.loading = true
			return m, m.leadCmd()
		}
		question := m.input.Value()
		if strings.TrimSpace(question) == "" {
			// Enter on empty input is suppressed, same as the widget
			return m, nil
		}
		m.input.Reset()
		m.loading = true
		m.err = ""
		return m, m.submitCmd(question)
	}

	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.mode == modeLead {
		m.leadForm[m.focus], cmd = m.leadForm[m.focus].Update(msg)
		return m, cmd
	}
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitCmd(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		state, err := m.engine.SubmitQuestion(ctx, question)
		if errors.Is(err, entity.ErrEmptyQuestion) {
			return stateMsg(m.engine.State())
		}
		return stateMsg(state)
	}
}

func (m Model) leadCmd() tea.Cmd {
	contact := valueobject.NewContact(
		m.leadForm[0].Value(),
		m.leadForm[1].Value(),
		m.leadForm[2].Value(),
	)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		state, err := m.engine.CaptureLead(ctx, contact)
		return leadResultMsg{state: state, err: err}
	}
}

func (m Model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return syncDoneMsg{err: m.engine.Sync(ctx)}
	}
}

// refresh re-renders the transcript into the viewport and scrolls to the
// bottom, mirroring the widget's scroll-after-completion behavior.
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	state := m.engine.State()
	var b strings.Builder

	for _, msg := range state.Conversation.Messages {
		if msg.IsFromUser() {
			b.WriteString(userStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(msg.Message)
			b.WriteString("\n\n")
			continue
		}

		b.WriteString(botStyle.Render("LPU AI"))
		b.WriteString("\n")
		rendered := msg.Message
		if m.renderer != nil {
			if out, err := m.renderer.Render(msg.Message); err == nil {
				rendered = out
			}
		}
		b.WriteString(rendered)
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var footer string
	switch {
	case m.mode == modeLead:
		var fields []string
		for i := range m.leadForm {
			fields = append(fields, m.leadForm[i].View())
		}
		footer = promptStyle.Render(m.leadPrompt) + "\n" +
			strings.Join(fields, "\n") + "\n" +
			hintStyle.Render("tab: next field · enter: submit · esc: quit")
	case m.loading:
		footer = m.spin.View() + " thinking...\n" + m.input.View()
	default:
		footer = m.input.View()
	}

	status := hintStyle.Render("enter: send · esc: quit")
	if m.engine.State().PromptShown && m.mode == modeChat {
		status = hintStyle.Render("enter: send · ctrl+d: enter your details · esc: quit")
	}

	errLine := ""
	if m.err != "" {
		errLine = errorStyle.Render(m.err) + "\n"
	}

	return fmt.Sprintf("%s\n%s%s\n%s", m.viewport.View(), errLine, footer, status)
}
