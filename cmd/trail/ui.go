package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/trail1897/pkg/chat"
	"github.com/jwebster45206/trail1897/pkg/game"
)

const (
	Title           = "THE TRAIL, 1897"
	PlaceHolderText = "What do you do?"
)

// entry is one rendered line of the transcript. User input has no kind of
// its own in the game, so it is tracked here.
type entry struct {
	user bool
	line game.Line
}

// ConsoleUI is the BubbleTea model that runs the game screen.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	ctx     context.Context
	session *game.Session
	logger  *slog.Logger

	entries []entry
	status  game.Status

	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	loading      bool
	notice       string

	showQuitModal bool
	progressTick  int
}

type turnMsg struct {
	turn *game.Turn
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")). // brass
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("173")). // rust
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("108")) // sage

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // grey
			Italic(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("94")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func NewConsoleUI(ctx context.Context, session *game.Session, opening *game.Turn, logger *slog.Logger) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	m := ConsoleUI{
		ctx:          ctx,
		session:      session,
		logger:       logger,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: viewport.New(20, 20),
	}
	m.applyTurn(opening)
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m *ConsoleUI) applyTurn(t *game.Turn) {
	if t == nil {
		return
	}
	if t.Clear {
		m.entries = nil
	}
	for _, line := range t.Lines {
		m.entries = append(m.entries, entry{line: line})
	}
	m.status = t.Status
}

func (m *ConsoleUI) layout() {
	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			m.copyLastNarration()
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			m.notice = ""
			m.loading = true
			m.progressTick = 0
			m.entries = append(m.entries, entry{user: true, line: game.Line{Text: input}})
			m.refresh()
			return m, tea.Batch(m.handle(input), progressTick())
		}

	case turnMsg:
		m.loading = false
		m.applyTurn(msg.turn)
		m.refresh()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.refresh()
			return m, progressTick()
		}
		return m, nil
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// handle runs the turn off the UI goroutine; narrator calls can take a
// while.
func (m ConsoleUI) handle(input string) tea.Cmd {
	return func() tea.Msg {
		return turnMsg{turn: m.session.Handle(m.ctx, input)}
	}
}

func (m *ConsoleUI) copyLastNarration() {
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.user || e.line.Kind == game.LineSystem {
			continue
		}
		if err := clipboard.WriteAll(e.line.Text); err != nil {
			m.logger.Warn("Clipboard write failed", "error", err)
			m.notice = "Could not copy to the clipboard."
			return
		}
		m.notice = "Copied the last passage to the clipboard."
		return
	}
	m.notice = "Nothing to copy yet."
}

func (m *ConsoleUI) refresh() {
	if !m.ready {
		return
	}
	m.chatViewport.SetContent(m.writeChatContent())
	m.chatViewport.GotoBottom()
	m.metaViewport.SetContent(writeMetadata(m.status, m.notice))
}

func (m ConsoleUI) writeChatContent() string {
	width := m.chatViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(Title) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, e := range m.entries {
		content.WriteString(formatEntry(e, width) + "\n\n")
	}
	if m.loading {
		content.WriteString(m.renderProgressBar())
	}
	return content.String()
}

func formatEntry(e entry, width int) string {
	if e.user {
		return userStyle.Render("You: ") + wordwrap.String(e.line.Text, width-5)
	}
	switch e.line.Kind {
	case game.LineSystem:
		return systemStyle.Render(wordwrap.String(e.line.Text, width))
	case game.LineDialogue:
		return formatDialogue(e.line.Text, width)
	default:
		return narratorStyle.Render(wordwrap.String(e.line.Text, width))
	}
}

// formatDialogue highlights the "Name:" prefix of a spoken line.
func formatDialogue(text string, width int) string {
	wrapped := wordwrap.String(text, width)
	if !chat.HasSpeakerPrefix(wrapped) {
		return wrapped
	}
	idx := strings.Index(wrapped, ":")
	return speakerStyle.Render(wrapped[:idx+1]) + wrapped[idx+1:]
}

func meter(label string, v int) string {
	const width = 10
	filled := v * width / 100
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	line := fmt.Sprintf("%-7s %s %3d", label, bar, v)
	if v <= 20 {
		return warnStyle.Render(line)
	}
	return line
}

func writeMetadata(st game.Status, notice string) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("HIKER") + "\n\n")
	content.WriteString(meter("Health", st.Health) + "\n")
	content.WriteString(meter("Energy", st.Energy) + "\n")
	content.WriteString(fmt.Sprintf("Money   %d¢\n\n", st.Money))

	content.WriteString("Location:\n")
	content.WriteString(st.Location + "\n\n")

	if st.Goal != "" {
		content.WriteString("Goal:\n")
		content.WriteString(st.Goal + "\n\n")
	}

	content.WriteString("Pack:\n")
	content.WriteString(st.Inventory + "\n\n")

	if st.Talking != "" {
		content.WriteString(speakerStyle.Render("Talking with "+st.Talking) + "\n\n")
	}

	content.WriteString("Keys:\n")
	content.WriteString("• Enter: Act\n")
	content.WriteString("• Ctrl+Y: Copy passage\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• /help: Commands\n")

	if notice != "" {
		content.WriteString("\n" + loadingStyle.Render(notice) + "\n")
	}
	return content.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case turnMsg:
		m.loading = false
		m.applyTurn(msg.turn)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				m.refresh()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Trail?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress is lost. Use /save first to keep it.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar animates while the narrator is working.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
