package shell

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"
)

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func TestPrompt_SubmitDefault(t *testing.T) {
	p := newPrompt("Tags:", "news, tech")

	updated, cmd := p.Update(key(tea.KeyEnter))
	p = updated.(prompt)

	assert.Assert(t, cmd != nil, "enter should quit")
	answer, ok := p.Answer()
	assert.Assert(t, ok)
	assert.Equal(t, answer, "news, tech")
	assert.Equal(t, p.View(), "")
}

func TestPrompt_Typing(t *testing.T) {
	p := newPrompt("Tags:", "")

	updated, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("go, web")})
	p = updated.(prompt)
	updated, _ = p.Update(key(tea.KeyEnter))
	p = updated.(prompt)

	answer, ok := p.Answer()
	assert.Assert(t, ok)
	assert.Equal(t, answer, "go, web")
}

func TestPrompt_Cancel(t *testing.T) {
	for _, kt := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		p := newPrompt("Tags:", "news")

		updated, _ := p.Update(key(kt))
		p = updated.(prompt)

		_, ok := p.Answer()
		assert.Assert(t, !ok)
	}
}

func TestPrompt_TabCompletes(t *testing.T) {
	p := newPrompt("Tags:", "golang, pro").withCompletions([]string{"news", "programming"})

	updated, _ := p.Update(key(tea.KeyTab))
	p = updated.(prompt)

	assert.Equal(t, p.input.Value(), "golang, programming")
	assert.Assert(t, strings.Contains(p.View(), "Tab: complete"))
}

func TestComplete(t *testing.T) {
	words := []string{"golang", "news", "programming"}

	tests := []struct {
		value string
		want  string
	}{
		{"go", "golang"},
		{"news, Pro", "news, programming"},
		{"news,", "news,"},
		{"rust", "rust"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, complete(tt.value, words), tt.want)
		})
	}
}

func TestTerminal_Messages(t *testing.T) {
	var out, errOut bytes.Buffer
	term := NewTerminal(TerminalParams{Out: &out, Err: &errOut})

	term.Info("Added bookmark: https://go.dev")
	term.Error(errors.New("database is locked"))

	assert.Assert(t, strings.Contains(out.String(), "Added bookmark: https://go.dev"))
	assert.Assert(t, strings.Contains(errOut.String(), "Error: database is locked"))
}

func TestTerminal_BlockingInput(t *testing.T) {
	var out, errOut bytes.Buffer
	term := NewTerminal(TerminalParams{Out: &out, Err: &errOut})
	term.SetCompletions([]string{"news"})

	var seen prompt
	term.input = func(p prompt) (string, bool, error) {
		seen = p
		return "a, b", true, nil
	}

	answer, ok := term.BlockingInput("Tags:", "x")
	assert.Assert(t, ok)
	assert.Equal(t, answer, "a, b")
	assert.Equal(t, seen.question, "Tags:")
	assert.Equal(t, seen.input.Value(), "x")
	assert.DeepEqual(t, seen.completions, []string{"news"})

	term.input = func(prompt) (string, bool, error) {
		return "", false, errors.New("no tty")
	}
	_, ok = term.BlockingInput("Tags:", "x")
	assert.Assert(t, !ok, "a failing prompt counts as cancelled")
}

func TestPage(t *testing.T) {
	var opened []string
	page := NewPage("https://example.com/page/1", "Page one", func(uri string) error {
		opened = append(opened, uri)
		return nil
	})

	uri, ok := page.URI()
	assert.Assert(t, ok)
	assert.Equal(t, uri, "https://example.com/page/1")
	assert.Equal(t, page.Title(), "Page one")

	assert.NilError(t, page.LoadURI("https://example.com/page/2"))
	uri, _ = page.URI()
	assert.Equal(t, uri, "https://example.com/page/2")
	assert.DeepEqual(t, opened, []string{"https://example.com/page/2"})

	page.open = func(string) error { return errors.New("no browser") }
	assert.ErrorContains(t, page.LoadURI("https://example.com/page/3"), "no browser")
	uri, _ = page.URI()
	assert.Equal(t, uri, "https://example.com/page/2")
}

func TestPage_Empty(t *testing.T) {
	page := NewPage("", "", nil)
	_, ok := page.URI()
	assert.Assert(t, !ok)
	assert.Assert(t, page.open != nil)
}
