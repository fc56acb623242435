package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/pagemark/internal/model"
	"github.com/nikbrunner/pagemark/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Underline(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("108"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Action is what the user chose to do with the selected bookmark.
type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionCopy
)

// linesPerResult is the number of rows one result occupies.
const linesPerResult = 2

// Picker is a simple TUI for selecting from search results.
type Picker struct {
	results []search.SearchResult
	query   string
	cursor  int
	offset  int // first visible result
	action  Action
	width   int
	height  int
}

// New creates a new Picker with the given search results.
func New(results []search.SearchResult, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		cursor:  0,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.scroll()
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.action = ActionNone
			return p, tea.Quit

		case tea.KeyEnter:
			p.action = ActionOpen
			return p, tea.Quit

		case tea.KeyDown:
			p.move(1)
			return p, nil

		case tea.KeyUp:
			p.move(-1)
			return p, nil
		}

		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				p.move(1)
				return p, nil
			case "k":
				p.move(-1)
				return p, nil
			case "y":
				p.action = ActionCopy
				return p, tea.Quit
			case "q":
				p.action = ActionNone
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

func (p *Picker) move(delta int) {
	p.cursor = max(0, min(p.cursor+delta, len(p.results)-1))
	p.scroll()
}

// visibleResults is how many results fit between header and footer.
func (p Picker) visibleResults() int {
	// header (2) + blank line and footer (2)
	return max(1, (p.height-4)/linesPerResult)
}

// scroll keeps the cursor inside the visible window.
func (p *Picker) scroll() {
	visible := p.visibleResults()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+visible {
		p.offset = p.cursor - visible + 1
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	end := min(len(p.results), p.offset+p.visibleResults())
	for i := p.offset; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		title := highlight(displayTitle(result.Bookmark), result.MatchedIndexes, style)
		url := urlStyle.Render(result.Bookmark.URL)
		if len(result.Bookmark.Tags) > 0 {
			url += " " + tagStyle.Render("#"+strings.Join(result.Bookmark.Tags, " #"))
		}

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, title))
		b.WriteString(fmt.Sprintf("   %s\n", url))
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k: move  Enter: open  y: copy URL  q/Esc: cancel"))

	return b.String()
}

// displayTitle mirrors the text search matched against.
func displayTitle(b *model.Bookmark) string {
	if b.Title == "" {
		return b.URL
	}
	return b.Title
}

// highlight renders text with style, marking the runes at matched indexes.
func highlight(text string, matched []int, style lipgloss.Style) string {
	if len(matched) == 0 {
		return style.Render(text)
	}

	isMatch := make(map[int]bool, len(matched))
	for _, idx := range matched {
		isMatch[idx] = true
	}

	var b strings.Builder
	// fuzzy reports byte offsets
	for i, r := range text {
		if isMatch[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(style.Render(string(r)))
		}
	}
	return b.String()
}

// SelectedBookmark returns the selected bookmark, or nil if cancelled.
func (p Picker) SelectedBookmark() *model.Bookmark {
	if p.action == ActionNone {
		return nil
	}
	if p.cursor < len(p.results) {
		return p.results[p.cursor].Bookmark
	}
	return nil
}

// Action returns what to do with SelectedBookmark.
func (p Picker) Action() Action {
	return p.action
}

// Cancelled returns true if the user left without choosing.
func (p Picker) Cancelled() bool {
	return p.action == ActionNone
}
