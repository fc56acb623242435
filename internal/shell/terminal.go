// Package shell provides terminal implementations of the browser window and
// webview collaborators.
package shell

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

var (
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// Terminal shows messages on the terminal and prompts with a text input.
type Terminal struct {
	out         io.Writer
	err         io.Writer
	input       func(p prompt) (string, bool, error)
	completions []string
	log         zerolog.Logger
}

// TerminalParams holds parameters for creating a new Terminal.
type TerminalParams struct {
	Out    io.Writer
	Err    io.Writer
	In     io.Reader       // optional, the program's stdin if nil
	Logger *zerolog.Logger // optional, discards if nil
}

// NewTerminal creates a Terminal writing to params.Out and params.Err.
func NewTerminal(params TerminalParams) *Terminal {
	log := zerolog.Nop()
	if params.Logger != nil {
		log = *params.Logger
	}

	var opts []tea.ProgramOption
	if params.In != nil {
		opts = append(opts, tea.WithInput(params.In))
	}
	opts = append(opts, tea.WithOutput(params.Err))

	return &Terminal{
		out: params.Out,
		err: params.Err,
		input: func(p prompt) (string, bool, error) {
			return runPrompt(p, opts...)
		},
		log: log,
	}
}

// SetCompletions sets the words offered by Tab in BlockingInput.
func (t *Terminal) SetCompletions(words []string) {
	t.completions = words
}

// Info implements browser.Shell.
func (t *Terminal) Info(message string) {
	fmt.Fprintln(t.out, infoStyle.Render(message))
}

// Error implements browser.Shell.
func (t *Terminal) Error(err error) {
	fmt.Fprintln(t.err, errorStyle.Render("Error: "+err.Error()))
}

// BlockingInput implements browser.Shell.
func (t *Terminal) BlockingInput(prompt, defaultAnswer string) (string, bool) {
	answer, ok, err := t.input(newPrompt(prompt, defaultAnswer).withCompletions(t.completions))
	if err != nil {
		t.log.Error().Err(err).Msg("prompt failed")
		return "", false
	}
	return answer, ok
}
