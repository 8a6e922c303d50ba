// Package tui implements the interactive chat session on Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driving"
)

var (
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// exchange is one question/answer pair in the transcript.
type exchange struct {
	question string
	answer   string
	err      error
}

// answerMsg carries the result of an Ask call back into the event loop.
type answerMsg struct {
	question string
	answer   string
	err      error
}

// ChatModel is the Bubble Tea model for the chat session.
type ChatModel struct {
	answerer driving.Answerer
	topK     int

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []exchange
	waiting    bool
	ready      bool
}

// NewChatModel creates a chat model over the answer service.
func NewChatModel(answerer driving.Answerer, topK int) ChatModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a question and press Enter (q to quit)"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ChatModel{
		answerer: answerer,
		topK:     topK,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
	}
}

// Init initializes the model (text input cursor blink).
func (m ChatModel) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := ih + 3 // header, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			if question == "q" {
				return m, tea.Quit
			}
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, m.ask(question))
		}

	case answerMsg:
		m.waiting = false
		m.transcript = append(m.transcript, exchange{
			question: msg.question,
			answer:   msg.answer,
			err:      msg.err,
		})
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask issues the question off the event loop.
func (m ChatModel) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.answerer.Ask(context.Background(), question, m.topK)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// View renders the chat layout.
func (m ChatModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := lipgloss.NewStyle().Bold(true).Render("boxrag chat")
	status := statusStyle.Render("enter: ask  q/esc: quit")
	if m.waiting {
		status = m.spinner.View() + statusStyle.Render(" thinking...")
	}

	return header + "\n" +
		m.viewport.View() + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		status
}

func (m ChatModel) renderTranscript() string {
	if len(m.transcript) == 0 {
		return statusStyle.Render("No questions yet.")
	}

	var b strings.Builder
	for i, ex := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n")
		if ex.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", ex.err)))
		} else {
			b.WriteString(answerStyle.Render(ex.answer))
		}
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
