// Package tui provides an interactive terminal form for answering
// clarification questions.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/cli"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2E86AB")).MarginBottom(1)
	contextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	optionStyle   = lipgloss.NewStyle().PaddingLeft(2)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")).MarginTop(1)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
)

// Model is the bubbletea model walking through the question list.
type Model struct {
	questions model.Questions
	answers   []cli.Answer
	input     textinput.Model
	current   int
	cursor    int
	typing    bool
	done      bool
	aborted   bool
}

// New creates a question-review model.
func New(questions model.Questions) Model {
	input := textinput.New()
	input.Placeholder = "type your answer"
	input.CharLimit = 200

	return Model{
		questions: questions,
		answers:   make([]cli.Answer, 0, len(questions)),
		input:     input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.typing {
		return m.updateTyping(keyMsg)
	}

	q := m.questions[m.current]

	switch keyMsg.String() {
	case "ctrl+c", "q":
		m.aborted = true
		return m, tea.Quit

	case "j", "down":
		if len(q.Options) > 0 {
			m.cursor = (m.cursor + 1) % len(q.Options)
		}

	case "k", "up":
		if len(q.Options) > 0 {
			m.cursor = (m.cursor + len(q.Options) - 1) % len(q.Options)
		}

	case "enter":
		answer := cli.Answer{QuestionID: q.ID}
		if len(q.Options) > 0 {
			opt := q.Options[m.cursor]
			answer.Selected = &opt
		} else {
			answer.Skipped = true
		}
		return m.record(answer)

	case "t":
		m.typing = true
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "s":
		return m.record(cli.Answer{QuestionID: q.ID, Skipped: true})
	}

	return m, nil
}

func (m Model) updateTyping(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.typing = false
		m.input.Blur()
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.typing = false
		m.input.Blur()
		if text == "" {
			return m, nil
		}
		return m.record(cli.Answer{QuestionID: m.questions[m.current].ID, FreeText: text})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(keyMsg)
	return m, cmd
}

func (m Model) record(answer cli.Answer) (tea.Model, tea.Cmd) {
	m.answers = append(m.answers, answer)
	m.current++
	m.cursor = 0
	if m.current >= len(m.questions) {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.aborted || m.current >= len(m.questions) {
		return ""
	}

	q := m.questions[m.current]

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Question %d of %d", m.current+1, len(m.questions))))
	b.WriteString("  " + categoryStyle.Render(fmt.Sprintf("[%s, priority %d]", q.Category, q.Priority)))
	b.WriteString("\n\n" + q.Text + "\n")
	if q.Context != "" {
		b.WriteString(contextStyle.Render(q.Context) + "\n")
	}
	b.WriteString("\n")

	for i, opt := range q.Options {
		line := opt.Label
		if opt.DutyRate != "" {
			line += fmt.Sprintf(" (duty %s)", opt.DutyRate)
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
			if opt.Implication != "" {
				b.WriteString(optionStyle.Render(contextStyle.Render(opt.Implication)) + "\n")
			}
		} else {
			b.WriteString(optionStyle.Render(line) + "\n")
		}
	}

	if m.typing {
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter: submit • esc: cancel"))
	} else {
		help := "t: type answer • s: skip • q: quit"
		if len(q.Options) > 0 {
			help = "↑/↓: select • enter: choose • " + help
		}
		b.WriteString(helpStyle.Render(help))
	}

	return b.String()
}

// Answers returns the collected answers.
func (m Model) Answers() []cli.Answer {
	return m.answers
}

// Aborted reports whether the user quit before finishing.
func (m Model) Aborted() bool {
	return m.aborted
}

// Run walks the user through the questions and returns their answers.
func Run(questions model.Questions) ([]cli.Answer, error) {
	if len(questions) == 0 {
		return nil, nil
	}

	final, err := tea.NewProgram(New(questions)).Run()
	if err != nil {
		return nil, fmt.Errorf("question form failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if m.Aborted() {
		return m.Answers(), fmt.Errorf("review aborted")
	}
	return m.Answers(), nil
}
