// Package tui provides a Bubble Tea terminal user interface for takeback.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/takeback/internal/config"
	"github.com/handiism/takeback/internal/session"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	takeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   session.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	summaries []string
	artifacts []session.Artifact
	noData    bool
	err       error

	// Recovery context
	ctx    context.Context
	cancel context.CancelFunc

	// Session manager reference
	manager *session.Manager

	// Recovery progress
	totalItems     int32
	processedItems int32

	// Options
	snippet  bool
	lookback int
	tags     bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "ElevenLabs API key"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	settings := config.DefaultSettings()

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		lookback:  settings.LookbackHours,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when a recovery progress event arrives.
	ProgressMsg struct {
		Event session.ProgressEvent
	}

	// InitDoneMsg is sent when history fetch and reconstruction complete.
	InitDoneMsg struct {
		Summaries []string
		Manager   *session.Manager
		NoData    bool
		Err       error
	}

	// DownloadDoneMsg is sent when all downloads and archives complete.
	DownloadDoneMsg struct {
		Artifacts []session.Artifact
		Err       error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initializeRecovery(), m.spinner.Tick)
			}

		case "s":
			if m.state == StateInput {
				m.snippet = !m.snippet
			}

		case "t":
			if m.state == StateInput {
				m.tags = !m.tags
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "+", "=":
			if m.state == StateInput && m.lookback < config.MaxLookbackHours {
				m.lookback++
			}

		case "-":
			if m.state == StateInput && m.lookback > config.MinLookbackHours {
				m.lookback--
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new session
				m.state = StateInput
				m.logs = nil
				m.summaries = nil
				m.artifacts = nil
				m.noData = false
				m.err = nil
				m.processedItems = 0
				m.totalItems = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == session.LevelVerbose && !m.verbose {
			return m, nil
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if msg.NoData {
			m.noData = true
			m.state = StateComplete
		} else {
			m.summaries = msg.Summaries
			m.manager = msg.Manager
			m.state = StateDownloading
			// Start the actual recovery and tick for progress updates
			cmds = append(cmds, m.startDownloads(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.artifacts = msg.Artifacts
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			processed, total := m.manager.GetProgress()
			m.processedItems = processed
			m.totalItems = total

			var percent float64
			if total > 0 {
				percent = float64(processed) / float64(total)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎙 takeback"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Recover your ElevenLabs takes, organized A / B / C"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter your API key:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	strategy := "positional (strict a,b,c order)"
	if m.snippet {
		strategy = fmt.Sprintf("snippet clustering, last %dh", m.lookback)
	}
	tagsCheck := "[ ]"
	if m.tags {
		tagsCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Strategy: %s (s)\n", strategy))
	if m.snippet {
		b.WriteString(fmt.Sprintf("  Lookback: %d hours (+/-)\n", m.lookback))
	}
	b.WriteString(fmt.Sprintf("  %s Embed take tags (t)\n", tagsCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output path: %s", m.settings.OutputPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching and organizing history..."))
	b.WriteString("\n\n")

	// Show logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	// Takes found
	if len(m.summaries) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d audio item(s):", m.totalItems)))
		b.WriteString("\n")
		for _, summary := range m.summaries {
			b.WriteString(takeStyle.Render(fmt.Sprintf("  ♪ %s", summary)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Progress bar
	var percent float64
	if m.totalItems > 0 {
		percent = float64(m.processedItems) / float64(m.totalItems)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Items: %d/%d",
		m.processedItems,
		m.totalItems,
	)))
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	if m.noData {
		b.WriteString(boxStyle.Render("No audio found in your history.\n\nNothing to recover."))
		return b.String()
	}

	var lines []string
	lines = append(lines, "✨ Recovery Complete!", "")
	if len(m.artifacts) == 0 {
		lines = append(lines, "No archives written.")
	}
	for _, artifact := range m.artifacts {
		lines = append(lines, fmt.Sprintf("%s: %d files", artifact.Take, artifact.Count))
		lines = append(lines, dimStyle.Render("  "+artifact.Path))
	}

	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case session.LevelError:
			style = errorStyle
			prefix = "✗"
		case session.LevelWarning:
			style = warningStyle
			prefix = "!"
		case session.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case session.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		if m.snippet {
			return "enter: start • s: strategy • +/-: lookback • t: tags • v: verbose • esc: quit"
		}
		return "enter: start • s: strategy • t: tags • v: verbose • esc: quit"
	case StateInitializing, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new session • q: quit"
	}
	return ""
}

// initializeRecovery fetches history, reconstructs takes and creates the manager.
func (m *Model) initializeRecovery() tea.Cmd {
	return func() tea.Msg {
		apiKey := m.textInput.Value()

		// Apply options
		settings := config.DefaultSettings()
		if m.snippet {
			settings.Strategy = config.StrategySnippet
			settings.LookbackHours = m.lookback
		}
		settings.EmbedTakeTags = m.tags

		// Create manager with progress callback; the TUI polls for
		// progress via TickMsg rather than receiving events directly.
		manager := session.NewManager(settings, nil)

		if err := manager.Initialize(m.ctx, apiKey); err != nil {
			return InitDoneMsg{Err: err}
		}

		if !manager.HasResults() {
			return InitDoneMsg{NoData: true}
		}

		return InitDoneMsg{
			Summaries: manager.TakeSummaries(),
			Manager:   manager,
		}
	}
}

// startDownloads runs the downloads and archiving in the background.
func (m *Model) startDownloads() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := m.manager.StartDownloads(m.ctx)

		return DownloadDoneMsg{
			Artifacts: m.manager.Artifacts(),
			Err:       err,
		}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
