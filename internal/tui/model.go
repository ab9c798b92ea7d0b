package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studybuddy/internal/service"
)

// Asker is the TUI-facing subset of the study service.
type Asker interface {
	Ask(ctx context.Context, question string) (service.Answer, error)
}

// answerMsg delivers the result of an Ask call back into the event loop.
type answerMsg struct {
	question string
	answer   service.Answer
	err      error
}

// Model is the Bubble Tea model for the study session.
type Model struct {
	asker    Asker
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	summary  string
	answer   service.Answer
	question string
	status   string
	waiting  bool
	ready    bool
	width    int
	height   int
}

// New creates a TUI model over an indexed study session. summary is shown
// above the answer area.
func New(asker Asker, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		asker:    asker,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		summary:  summary,
		status:   "Ready. Ask away.",
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, spinner, and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = service.Answer{}
		} else {
			m.question = msg.question
			m.answer = msg.answer
			if msg.answer.Text != "" {
				m.status = fmt.Sprintf("Answer for %q", msg.question)
			} else {
				m.status = fmt.Sprintf("Top passages for %q", msg.question)
			}
		}
		m.viewport.SetContent(m.renderAnswer())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.waiting = true
				m.status = "Thinking..."
				return m, tea.Batch(m.spinner.Tick, m.ask(q))
			}
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "pgup":
			m.viewport.ViewUp()
			return m, nil
		case "pgdown":
			m.viewport.ViewDown()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the question against the service off the event loop.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.asker.Ask(context.Background(), question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// View renders the header, summary, answer area, input box, and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Study Buddy")
	summary := m.renderSummary()
	answer := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())

	status := statusStyle.Render(m.status)
	if m.waiting {
		status = m.spinner.View() + statusStyle.Render(m.status)
	}
	return header + "\n" + summary + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderSummary() string {
	style := summaryStyle
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(m.summary)
}

func (m *Model) resize() {
	frameW, frameH := answerBoxStyle.GetFrameSize()
	_, queryFrameH := queryBoxStyle.GetFrameSize()

	headerLines := 1
	summaryLines := lipgloss.Height(m.renderSummary())
	statusLines := 1
	inputLines := 1 + queryFrameH

	vh := m.height - headerLines - summaryLines - statusLines - inputLines - frameH
	m.viewport.Width = max(20, m.width-frameW)
	m.viewport.Height = max(3, vh)
}

func (m Model) renderAnswer() string {
	if m.answer.Text == "" && len(m.answer.Sources) == 0 {
		return "Ask a question about your notes."
	}

	var b strings.Builder
	if m.answer.Text != "" {
		b.WriteString(m.answer.Text)
		b.WriteString("\n\n")
	}
	b.WriteString(sourcesHeaderStyle.Render("Sources"))
	for i, src := range m.answer.Sources {
		passage := highlightBestSentence(strings.TrimSpace(src), m.question)
		fmt.Fprintf(&b, "\n\n%s %s", sourceIndexStyle.Render(fmt.Sprintf("[%d]", i+1)), passage)
	}
	return b.String()
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	summaryStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	answerBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	spinnerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sourcesHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	sourceIndexStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe      = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe         = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence emphasizes the sentence sharing the most tokens with
// the question, so the relevant part of a passage stands out.
func highlightBestSentence(text, question string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(question)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(questionTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := questionTokens[t]; ok {
			score++
		}
	}
	return score
}
