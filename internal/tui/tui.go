// Package tui is the terminal front end for blackjack. One Bubble Tea model
// drives both solo and networked play; the Driver abstraction hides where
// the engine actually lives.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack21/internal/deck"
	"github.com/lox/blackjack21/internal/game"
)

// Model is the Bubble Tea model for a blackjack table.
type Model struct {
	driver Driver
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	snapshot     game.Snapshot
	hasSnapshot  bool
	lastMessages map[game.SeatID]string
	gameLog      []string
	quitting     bool

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// NewModel creates a model on top of a driver.
func NewModel(driver Driver, logger *log.Logger) *Model {
	return NewModelWithOptions(driver, logger, false)
}

// NewModelWithOptions creates a model with test mode option.
func NewModelWithOptions(driver Driver, logger *log.Logger, testMode bool) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bet <amount>, deal, hit, stand, next, quit"
	ti.Focus()
	ti.CharLimit = 50
	ti.Width = 50
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		driver:       driver,
		logger:       logger.WithPrefix("tui"),
		logViewport:  vp,
		actionInput:  ti,
		lastMessages: make(map[game.SeatID]string),
		gameLog:      []string{},
		testMode:     testMode,
		capturedLog:  []string{},
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.driver.Init())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m.quit()
		case "enter":
			input := strings.TrimSpace(m.actionInput.Value())
			m.actionInput.SetValue("")
			if input == "quit" || input == "exit" {
				return m.quit()
			}
			if cmd := m.submit(input); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case "up":
			m.logViewport.ScrollUp(1)
		case "down":
			m.logViewport.ScrollDown(1)
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}

	case StateMsg:
		m.applySnapshot(msg.Snapshot)
		cmds = append(cmds, m.driver.Next())

	case ErrMsg:
		m.AddLogEntry(ErrorStyle.Render(msg.Message))
		cmds = append(cmds, m.driver.Next())

	case SeatedMsg:
		m.AddLogEntry(fmt.Sprintf("Seated as %s at table %s.", msg.Seat, msg.SessionID))
		if msg.Seat == game.SeatPlayer1 {
			m.AddLogEntry("Waiting for an opponent to join...")
		}
		cmds = append(cmds, m.driver.Next())

	case OpponentJoinedMsg:
		m.AddLogEntry(fmt.Sprintf("%s joined the table.", msg.Name))
		cmds = append(cmds, m.driver.Next())

	case OpponentLeftMsg:
		m.AddLogEntry(ErrorStyle.Render(msg.Message))
		cmds = append(cmds, m.driver.Next())

	case InfoMsg:
		m.AddLogEntry(InfoStyle.Render(msg.Text))
		cmds = append(cmds, m.driver.Next())

	case DisconnectedMsg:
		m.AddLogEntry(ErrorStyle.Render("Disconnected from server."))
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	_ = m.driver.Close()
	return m, tea.Sequence(tea.ClearScreen, tea.Quit)
}

// submit parses a typed command and hands the intent to the driver.
func (m *Model) submit(input string) tea.Cmd {
	if input == "" {
		return nil
	}
	if input == "help" {
		m.AddLogEntry(InfoStyle.Render("Commands: bet <amount>, deal, hit, stand, next, quit"))
		return nil
	}

	in, err := parseCommand(input)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		return nil
	}
	return m.driver.Apply(in)
}

// parseCommand maps a typed command onto a game intent.
func parseCommand(input string) (game.Intent, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return game.Intent{}, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "bet":
		if len(fields) != 2 {
			return game.Intent{}, fmt.Errorf("usage: bet <amount>")
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount <= 0 {
			return game.Intent{}, fmt.Errorf("bet amount must be a positive number")
		}
		return game.Intent{Kind: game.IntentPlaceBet, Amount: amount}, nil
	case "deal", "start":
		return game.Intent{Kind: game.IntentStartRound}, nil
	case "hit":
		return game.Intent{Kind: game.IntentHit}, nil
	case "stand":
		return game.Intent{Kind: game.IntentStand}, nil
	case "next":
		return game.Intent{Kind: game.IntentNextRound}, nil
	default:
		return game.Intent{}, fmt.Errorf("unknown command %q, try 'help'", fields[0])
	}
}

// applySnapshot stores the new state and logs whatever changed.
func (m *Model) applySnapshot(snap game.Snapshot) {
	m.snapshot = snap
	m.hasSnapshot = true

	seats := append([]game.SeatState{}, snap.Seats...)
	seats = append(seats, snap.Dealer)
	for _, st := range seats {
		if st.RoundMessage != "" && st.RoundMessage != m.lastMessages[st.ID] {
			m.AddLogEntry(st.RoundMessage)
		}
		m.lastMessages[st.ID] = st.RoundMessage
	}

	if snap.Phase == game.PhaseRoundOver {
		m.AddLogEntry(InfoStyle.Render("Round over. Type 'next' for another round."))
	}
}

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	table := m.renderTable()
	action := m.renderActionPane()
	actionHeight := lipgloss.Height(action) + 2

	logWidth := m.width - 2
	logHeight := m.height - lipgloss.Height(table) - actionHeight - 4
	if logWidth < 1 {
		logWidth = 1
	}
	if logHeight < 1 {
		logHeight = 1
	}

	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if !m.initialized && logWidth > 1 && logHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(m.width - 2)

	return lipgloss.JoinVertical(lipgloss.Top,
		table,
		logStyle.Render(m.logViewport.View()),
		actionStyle.Render(action),
	)
}

// renderTable renders the dealer and seats.
func (m *Model) renderTable() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(" ♠ Blackjack ♦ "))
	content.WriteString("\n")

	if !m.hasSnapshot {
		content.WriteString(InfoStyle.Render("Waiting for the table..."))
		return content.String()
	}

	content.WriteString(m.renderSeat(m.snapshot.Dealer))
	for _, st := range m.snapshot.Seats {
		content.WriteString(m.renderSeat(st))
	}

	content.WriteString(InfoStyle.Render(fmt.Sprintf("Phase: %s", m.snapshot.Phase)))
	if m.snapshot.Turn != "" {
		content.WriteString(InfoStyle.Render(fmt.Sprintf("  Turn: %s", m.snapshot.Turn)))
	}
	content.WriteString("\n")

	return content.String()
}

// renderSeat renders one line of the table.
func (m *Model) renderSeat(st game.SeatState) string {
	var line strings.Builder

	name := st.Name
	if st.ID == m.driver.Seat() {
		name = HandInfoStyle.Render(name + " (you)")
	}
	line.WriteString(name)
	line.WriteString(": ")
	line.WriteString(m.formatHand(st))

	if st.PointValue > 0 {
		line.WriteString(fmt.Sprintf(" %d", st.PointValue))
	}
	if st.ID != game.SeatDealer {
		line.WriteString(InfoStyle.Render(fmt.Sprintf("  chips %d", st.Chips)))
		if st.CurrentBet > 0 {
			line.WriteString(WarningStyle.Render(fmt.Sprintf("  bet %d", st.CurrentBet)))
		}
	}
	if st.HasBlackjack {
		line.WriteString(SuccessStyle.Render("  blackjack!"))
	} else if st.IsBust {
		line.WriteString(ErrorStyle.Render("  bust"))
	}
	line.WriteString("\n")

	return line.String()
}

// formatHand formats cards with colors, showing a face-down marker for the
// dealer's redacted hole card.
func (m *Model) formatHand(st game.SeatState) string {
	if len(st.Hand) == 0 {
		return InfoStyle.Render("[no cards]")
	}

	var formatted []string
	for _, card := range st.Hand {
		formatted = append(formatted, formatCard(card))
	}

	if st.ID == game.SeatDealer && len(st.Hand) == 1 && m.snapshot.Phase != game.PhaseBetting {
		formatted = append(formatted, HiddenCardStyle.Render("??"))
	}

	return "[" + strings.Join(formatted, " ") + "]"
}

func formatCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

// renderActionPane renders the input pane content.
func (m *Model) renderActionPane() string {
	var content strings.Builder

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render("bet <amount> • deal • hit • stand • next • quit"))

	return content.String()
}

// AddLogEntry adds an entry to the game log.
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// IsTestMode reports whether the model captures log entries for assertions.
func (m *Model) IsTestMode() bool {
	return m.testMode
}

// GetCapturedLog returns the log entries captured in test mode.
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	return m.capturedLog
}
