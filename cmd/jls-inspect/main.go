// Command jls-inspect is a read-only terminal browser for JLS files
// (SPEC_FULL.md §6.3), built the way the teacher's cmd/tui/main.go builds
// its graph browser: a single bubbletea model wrapping a bubbles/list,
// lipgloss for styling, no cobra/pflag command tree since there is only
// one thing to look at.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jetperch/jls-go/pkg/jls"
	"github.com/jetperch/jls-go/pkg/jls/directory"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AFFF")).
			MarginLeft(2).
			MarginTop(1)

	detailBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00AFFF")).
			Padding(1, 2).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

// entryItem is one row of the source/signal browser list.
type entryItem struct {
	title       string
	description string
	signalID    int // -1 for a source row
}

func (i entryItem) Title() string       { return i.title }
func (i entryItem) Description() string { return i.description }
func (i entryItem) FilterValue() string { return i.title }

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Quit}} }

type model struct {
	reader  *jls.Reader
	entries list.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
	err     error
}

func newModel(r *jls.Reader) model {
	items := buildItems(r)
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "sources & signals"
	l.SetShowHelp(false)
	return model{
		reader:  r,
		entries: l,
		help:    help.New(),
		keys:    keys,
	}
}

func buildItems(r *jls.Reader) []list.Item {
	var items []list.Item
	for _, src := range r.Sources() {
		items = append(items, entryItem{
			title:       fmt.Sprintf("source %d: %s", src.SourceID, src.Name),
			description: strings.TrimSpace(strings.Join([]string{src.Vendor, src.Model, src.Version}, " ")),
			signalID:    -1,
		})
	}
	for _, sig := range r.Signals() {
		kind := "FSR"
		if sig.SignalType == directory.SignalTypeVSR {
			kind = "VSR"
		}
		items = append(items, entryItem{
			title:       fmt.Sprintf("signal %d: %s", sig.SignalID, sig.Name),
			description: fmt.Sprintf("%s from source %d, %d Hz", kind, sig.SourceID, sig.SampleRate),
			signalID:    int(sig.SignalID),
		})
	}
	return items
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		listHeight := msg.Height - 10
		if listHeight < 3 {
			listHeight = 3
		}
		m.entries.SetSize(msg.Width-4, listHeight)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.entries, cmd = m.entries.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("JLS Inspector"))
	s.WriteString("\n\n")
	s.WriteString(lipgloss.NewStyle().MarginLeft(2).Render(m.entries.View()))
	s.WriteString("\n")
	s.WriteString(detailBoxStyle.Render(m.renderDetail()))

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(m.err.Error()))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

// renderDetail shows the selected signal's track summary: populated
// summary-pyramid level count, total sample count, and sample rate.
// Source rows show only their descriptor fields.
func (m model) renderDetail() string {
	item, ok := m.entries.SelectedItem().(entryItem)
	if !ok {
		return "no selection"
	}
	if item.signalID < 0 {
		return item.title + "\n" + item.description
	}

	signalID := uint16(item.signalID)
	var sig directory.SignalDef
	for _, s := range m.reader.Signals() {
		if s.SignalID == signalID {
			sig = s
			break
		}
	}

	if sig.SignalType != directory.SignalTypeFSR {
		return fmt.Sprintf("%s\nVSR signals have no FSR track summary (no ground truth for VSR reads; see reader.AnnotationNext/writer.VSRF32)", item.title)
	}

	length, lengthErr := m.reader.FSRLength(signalID)
	levels, levelErr := m.reader.FSRLevelCount(signalID)
	if lengthErr != nil || levelErr != nil {
		return fmt.Sprintf("%s\n(track summary unavailable)", item.title)
	}
	return fmt.Sprintf(
		"%s\nsample_rate: %d Hz\nlength: %d samples\nsummary levels: %d",
		item.title, sig.SampleRate, length, levels,
	)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: jls-inspect <filename>")
		os.Exit(1)
	}

	r, err := jls.Open(os.Args[1])
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer r.Close()

	p := tea.NewProgram(newModel(r), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("running inspector: %v", err)
	}
}
