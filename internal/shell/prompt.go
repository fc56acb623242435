package shell

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"})
)

const (
	inputCharLimit = 500
	inputWidth     = 60
)

// prompt is a one-line text input asking a single question.
type prompt struct {
	question    string
	input       textinput.Model
	completions []string
	submitted   bool
	cancelled   bool
}

func newPrompt(question, defaultAnswer string) prompt {
	input := textinput.New()
	input.Placeholder = "tag1, tag2, tag3"
	input.CharLimit = inputCharLimit
	input.Width = inputWidth
	input.SetValue(defaultAnswer)
	input.CursorEnd()
	input.Focus()

	return prompt{question: question, input: input}
}

// withCompletions enables Tab completion of the last comma separated entry.
func (p prompt) withCompletions(words []string) prompt {
	p.completions = words
	return p
}

// Init implements tea.Model.
func (p prompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p prompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			p.submitted = true
			return p, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit
		case tea.KeyTab:
			p.input.SetValue(complete(p.input.Value(), p.completions))
			p.input.CursorEnd()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View implements tea.Model.
func (p prompt) View() string {
	if p.submitted || p.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render(p.question))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n")
	hint := "Enter: confirm  Esc: cancel"
	if len(p.completions) > 0 {
		hint = "Tab: complete  " + hint
	}
	b.WriteString(hintStyle.Render(hint))
	b.WriteString("\n")
	return b.String()
}

// Answer returns the entered text and whether it was confirmed.
func (p prompt) Answer() (string, bool) {
	if !p.submitted {
		return "", false
	}
	return p.input.Value(), true
}

// complete extends the last comma separated entry of value with the first
// word that has it as a prefix.
func complete(value string, words []string) string {
	head, last := "", value
	if i := strings.LastIndex(value, ","); i >= 0 {
		head, last = value[:i+1], value[i+1:]
	}

	fragment := strings.ToLower(strings.TrimSpace(last))
	if fragment == "" {
		return value
	}
	for _, word := range words {
		if strings.HasPrefix(word, fragment) {
			if head != "" {
				return head + " " + word
			}
			return word
		}
	}
	return value
}

func runPrompt(p prompt, opts ...tea.ProgramOption) (string, bool, error) {
	final, err := tea.NewProgram(p, opts...).Run()
	if err != nil {
		return "", false, err
	}
	answer, ok := final.(prompt).Answer()
	return answer, ok, nil
}
