package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/fstat/internal/formatter"
	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	LookupView
	ResultView
	HistoryView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	pipeline     *tasks.Pipeline
	renderer     *formatter.Renderer
	width        int
	height       int
	input        textinput.Model
	spinner      spinner.Model
	history      list.Model
	externalID   string
	progressChan chan tasks.ProgressUpdate
	resultChan   chan lookupCompleteMsg
	progress     tasks.ProgressUpdate
	stats        *models.NormalizedStats
	failure      *tasks.Failure
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model. A non-empty externalID is looked up as soon as the program starts.
func NewModel(ctx context.Context, pipeline *tasks.Pipeline, renderer *formatter.Renderer, externalID string) *Model {
	input := textinput.New()
	input.Placeholder = "Steam ID or profile URL"
	input.CharLimit = 256
	input.Width = 48
	input.SetValue(externalID)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title.UnsetMarginBottom()

	history := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	history.Title = "Recent lookups"

	return &Model{
		ctx:        ctx,
		view:       InputView,
		pipeline:   pipeline,
		renderer:   renderer,
		input:      input,
		spinner:    sp,
		history:    history,
		externalID: strings.TrimSpace(externalID),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the cursor blink, plus the initial lookup when one was given.
func (m *Model) Init() tea.Cmd {
	if m.externalID != "" {
		return tea.Batch(textinput.Blink, m.startLookup(m.externalID))
	}
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case LookupView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != LookupView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case lookupCompleteMsg:
		m.progressChan = nil
		m.resultChan = nil
		m.stats = msg.stats
		m.failure = nil
		if msg.err != nil {
			m.failure = asFailure(msg.err)
		}
		m.view = ResultView
		return m, m.history.InsertItem(0, m.historyItem(msg))
	}

	if m.view == InputView {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	if m.view == HistoryView {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case LookupView:
		return m.renderLookup()
	case ResultView:
		return m.renderResult()
	case HistoryView:
		return m.renderHistory()
	default:
		return ""
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		id := normalizeID(m.input.Value())
		if id == "" {
			return m, nil
		}
		return m, m.startLookup(id)
	case msg.String() == "esc" && len(m.history.Items()) > 0:
		m.view = HistoryView
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = InputView
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.retry):
		return m, m.startLookup(m.externalID)
	case key.Matches(msg, m.keys.history):
		m.view = HistoryView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.history.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	switch {
	case msg.String() == "ctrl+c" || msg.String() == "q":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = InputView
		m.input.Focus()
		return m, nil
	case msg.String() == "enter":
		if item, ok := m.history.SelectedItem().(historyItem); ok {
			return m, m.startLookup(item.externalID)
		}
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

// startLookup runs the pipeline in the background. Progress arrives through waitForProgress and
// the outcome is delivered after the progress channel closes.
func (m *Model) startLookup(externalID string) tea.Cmd {
	m.externalID = externalID
	m.view = LookupView
	m.stats = nil
	m.failure = nil
	m.progress = tasks.ProgressUpdate{}
	m.input.Blur()

	progress := make(chan tasks.ProgressUpdate, 8)
	result := make(chan lookupCompleteMsg, 1)
	m.progressChan = progress
	m.resultChan = result

	ctx, pipeline := m.ctx, m.pipeline
	go func() {
		stats, err := pipeline.Run(ctx, externalID, progress)
		result <- lookupCompleteMsg{externalID: externalID, stats: stats, err: err}
		close(progress)
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, result := m.progressChan, m.resultChan
	if progress == nil {
		return nil
	}

	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-result
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) historyItem(msg lookupCompleteMsg) historyItem {
	item := historyItem{externalID: msg.externalID, stats: msg.stats}
	if m.failure != nil {
		item.message = m.renderer.ErrorMessage(m.failure)
	}
	return item
}

func (m *Model) renderInput() string {
	title := styles.title.Render("FACEIT Statistics")
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	if len(m.history.Items()) > 0 {
		helpKeys = append(helpKeys, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "history")))
	}
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderLookup() string {
	title := styles.title.Render(fmt.Sprintf("Looking up %s", m.externalID))

	phase := "Starting..."
	switch m.progress.Phase {
	case tasks.Resolving:
		phase = fmt.Sprintf("Resolving player (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Aggregating:
		phase = fmt.Sprintf("Fetching stats (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Done, tasks.Failed:
		phase = "Finishing..."
	}

	return fmt.Sprintf("%s\n%s %s\n%s", title, m.spinner.View(), phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.retry, m.keys.history, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.failure != nil {
		return fmt.Sprintf("%s\n\n%s", m.renderer.ErrorCard(m.failure), helpView)
	}
	if m.stats == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	title := styles.ok.Render("✓ " + m.externalID)
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.renderer.Card(m.stats), helpView)
}

func (m *Model) renderHistory() string {
	helpKeys := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "look up again")),
		m.keys.back,
		m.keys.quit,
	}
	return fmt.Sprintf("%s\n\n%s", m.history.View(), m.help.ShortHelpView(helpKeys))
}

// normalizeID accepts a bare identifier or a steamcommunity.com/profiles/<id> URL.
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if id, err := shared.SteamIDFromURL(s); err == nil {
		return id
	}
	return s
}

func asFailure(err error) *tasks.Failure {
	var f *tasks.Failure
	if errors.As(err, &f) {
		return f
	}
	return &tasks.Failure{Category: tasks.CategoryAPIRequest, Message: err.Error(), Err: err}
}
