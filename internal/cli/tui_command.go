package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-media-fetcher/internal/config"
	"yt-media-fetcher/internal/engine"
	"yt-media-fetcher/internal/model"
	"yt-media-fetcher/internal/store"

	pbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const tuiLogKeep = 8

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	tuiMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	tuiOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	tuiStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
)

type engineEventMsg struct {
	evt model.Event
}

type engineClosedMsg struct{}

type tuiModel struct {
	settingsPath string
	settings     config.Settings
	manager      *engine.Manager

	input textinput.Model
	bar   pbar.Model

	phase      model.Phase
	percent    float64
	hasPercent bool
	itemIndex  int
	itemCount  int
	title      string
	speed      string
	eta        string

	status string
	logs   []string
	width  int

	fatalErr error
}

func runTUI(args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	jf := registerJobFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("tui requires an interactive terminal (TTY)")
	}

	settings, err := config.Load(*jf.settingsPath)
	if err != nil {
		return err
	}

	lock, err := store.AcquireInstanceLock(jf.resolvedDataDir())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	manager := engine.NewManager(engine.ManagerOptions{
		BinDirs: jf.binDirs(),
		LogDir:  jf.logDir(),
	})
	defer manager.Close()

	input := textinput.New()
	input.Placeholder = "https://www.youtube.com/watch?v=..."
	input.Prompt = "URL> "
	input.Focus()

	m := tuiModel{
		settingsPath: *jf.settingsPath,
		settings:     settings,
		manager:      manager,
		input:        input,
		bar:          pbar.New(pbar.WithDefaultGradient()),
		phase:        model.PhaseIdle,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("tui requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(tuiModel); ok {
		_ = config.Save(fm.settingsPath, fm.settings)
		return fm.fatalErr
	}
	return nil
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEngineEvent(m.manager.Events()))
}

func waitForEngineEvent(events <-chan model.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return engineClosedMsg{}
		}
		return engineEventMsg{evt: evt}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(20, msg.Width-10)
		m.bar.Width = max(10, min(60, msg.Width-20))
		return m, nil
	case engineClosedMsg:
		return m, tea.Quit
	case engineEventMsg:
		m = m.applyEvent(msg.evt)
		return m, waitForEngineEvent(m.manager.Events())
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	running := m.phase == model.PhaseRunning || m.phase == model.PhaseCancelling

	switch msg.String() {
	case "ctrl+c":
		if running {
			m.manager.Cancel()
			m.status = "cancelling..."
			return m, nil
		}
		return m, tea.Quit
	case "q":
		if !running && strings.TrimSpace(m.input.Value()) == "" {
			return m, tea.Quit
		}
	case "esc":
		if running {
			m.manager.Cancel()
			m.status = "cancelling..."
			return m, nil
		}
	case "tab":
		if !running {
			if m.settings.Format == model.FormatAudio {
				m.settings.Format = model.FormatVideo
			} else {
				m.settings.Format = model.FormatAudio
			}
			return m, nil
		}
	case "enter":
		if running {
			return m, nil
		}
		url := strings.TrimSpace(m.input.Value())
		if url == "" {
			m.status = "enter a URL first"
			return m, nil
		}
		if _, err := m.manager.StartSingle(url, m.settings.JobOptions()); err != nil {
			m.status = "error: " + err.Error()
			return m, nil
		}
		m = m.resetJobView()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) applyEvent(evt model.Event) tuiModel {
	switch e := evt.(type) {
	case model.StatusEvent:
		m.phase = e.Phase
		m.status = e.Message
		if e.Phase == model.PhaseFinished {
			m.phase = model.PhaseIdle
		}
	case model.ProgressEvent:
		if e.Progress.Title != "" {
			m.title = e.Progress.Title
		}
		if e.Progress.Percent != nil {
			m.percent = *e.Progress.Percent
			m.hasPercent = true
		}
		if e.Progress.Speed != "" {
			m.speed = e.Progress.Speed
		}
		if e.Progress.ETA != "" {
			m.eta = e.Progress.ETA
		}
		if e.Progress.ItemIndex > 0 {
			m.itemIndex = e.Progress.ItemIndex
			m.itemCount = e.Progress.ItemCount
		}
	case model.LogEvent:
		if e.Level == model.LevelDebug && !m.settings.Verbose {
			return m
		}
		m.logs = append(m.logs, e.Message)
		if len(m.logs) > tuiLogKeep {
			m.logs = m.logs[len(m.logs)-tuiLogKeep:]
		}
	case model.FinishedEvent:
		m.phase = model.PhaseIdle
	case model.ErrorEvent:
		m.phase = model.PhaseIdle
		m.status = "error: " + e.Message
	}
	return m
}

func (m tuiModel) resetJobView() tuiModel {
	m.percent = 0
	m.hasPercent = false
	m.itemIndex = 0
	m.itemCount = 0
	m.title = ""
	m.speed = ""
	m.eta = ""
	m.logs = nil
	return m
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(tuiTitleStyle.Render("yt-media-fetcher"))
	b.WriteString(tuiMutedStyle.Render(fmt.Sprintf("  format: %s  dest: %s", m.settings.Format, m.settings.DestinationDir)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.status != "" {
		style := tuiStatusStyle
		if strings.HasPrefix(m.status, "error:") {
			style = tuiErrorStyle
		} else if m.status == "Done." {
			style = tuiOKStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	if m.phase == model.PhaseRunning || m.phase == model.PhaseCancelling || m.hasPercent {
		b.WriteString(m.renderProgress())
		b.WriteString("\n")
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		for _, line := range m.logs {
			b.WriteString(tuiMutedStyle.Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tuiMutedStyle.Render("enter: download   tab: toggle format   esc: cancel   ctrl+c: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m tuiModel) renderProgress() string {
	var b strings.Builder
	if m.itemIndex > 0 && m.itemCount > 0 {
		b.WriteString(fmt.Sprintf("[%d/%d] ", m.itemIndex, m.itemCount))
	}
	if m.title != "" {
		b.WriteString(m.title)
		b.WriteString("\n")
	}
	b.WriteString(m.bar.ViewAs(m.percent / 100))
	var tail []string
	if m.speed != "" {
		tail = append(tail, m.speed)
	}
	if m.eta != "" {
		tail = append(tail, "ETA "+m.eta)
	}
	if len(tail) > 0 {
		b.WriteString("  ")
		b.WriteString(tuiMutedStyle.Render(strings.Join(tail, " ")))
	}
	return b.String()
}
