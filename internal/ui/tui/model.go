// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragdesk/internal/api"
	"github.com/jeranaias/ragdesk/internal/app"
	"github.com/jeranaias/ragdesk/internal/chat"
	"github.com/jeranaias/ragdesk/internal/commands"
	"github.com/jeranaias/ragdesk/internal/prompts"
	"github.com/jeranaias/ragdesk/internal/registry"
	"github.com/jeranaias/ragdesk/internal/ui/components"
	"github.com/jeranaias/ragdesk/internal/ui/styles"
)

// =============================================================================
// TYPES
// =============================================================================

// Tab selects the screen.
type Tab int

const (
	TabChat Tab = iota
	TabDocuments
)

var tabNames = []string{"Chat", "Documents"}

// docFocus is the widget that receives keys on the Documents tab.
type docFocus int

const (
	focusTable docFocus = iota
	focusPath
	focusCollection
)

// MsgBusy is shown when a question is submitted while one is unanswered.
const MsgBusy = "Wait for the current answer"

// Layout rows outside the transcript: header (2), input box (3), spinner
// line (1) and status bar (1).
const reservedRows = 7

// Options configures New.
type Options struct {
	App *app.App

	// Toasts must be the sink App reports to; nil creates one that only
	// shows the TUI's own notices.
	Toasts *components.ToastManager

	Logger *zap.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	app       *app.App
	commands  *commands.Registry
	completer *commands.Completer
	toasts    *components.ToastManager
	logger    *zap.Logger
	theme     *styles.Theme
	keys      KeyMap
	help      help.Model
	md        *markdown

	tab      Tab
	width    int
	height   int
	showHelp bool
	quitting bool

	// Chat tab
	input         textinput.Model
	viewport      viewport.Model
	spinner       components.Spinner
	output        string // output of the last slash command
	completions   []string
	completionIdx int
	pickerOpen    bool
	pickerCursor  int

	// Documents tab
	focus           docFocus
	cursor          int
	pathInput       textinput.Model
	collectionInput textinput.Model
	confirmDelete   api.DocumentID
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates the TUI model for a.
func New(opts Options) Model {
	a := opts.App
	cfg := a.Config()

	toasts := opts.Toasts
	if toasts == nil {
		toasts = components.NewToastManager(cfg.ToastDuration())
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := styles.NewTheme(cfg.UI.Theme)

	reg := commands.NewRegistry()

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 4000
	input.Focus()

	path := textinput.New()
	path.Prompt = ""
	path.Placeholder = "path/to/file.pdf"

	collection := textinput.New()
	collection.Prompt = ""
	collection.Placeholder = registry.DefaultCollection
	collection.SetValue(a.Registry.CollectionInput())

	m := Model{
		app:             a,
		commands:        reg,
		completer:       commands.NewAppCompleter(reg, a),
		toasts:          toasts,
		logger:          logger.Named("tui"),
		theme:           theme,
		keys:            DefaultKeyMap(),
		help:            help.New(),
		md:              newMarkdown(cfg, theme),
		input:           input,
		viewport:        viewport.New(80, 24-reservedRows),
		spinner:         components.NewSpinner("Thinking"),
		pathInput:       path,
		collectionInput: collection,
	}
	m.resize(80, 24)
	return m
}

// Init loads documents, collections and prompts and starts the toast clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.app.Init(), components.ToastTickCmd(), textinput.Blink)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case registry.DocumentsLoadedMsg, registry.CollectionsLoadedMsg,
		registry.UploadFinishedMsg, registry.DeleteFinishedMsg,
		chat.ChatAnsweredMsg, prompts.PromptsLoadedMsg:
		return m.handleAppMsg(msg)
	}

	// Anything else (cursor blinks) goes to the focused input.
	var cmd tea.Cmd
	switch {
	case m.tab == TabChat:
		m.input, cmd = m.input.Update(msg)
	case m.focus == focusPath:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case m.focus == focusCollection:
		m.collectionInput, cmd = m.collectionInput.Update(msg)
	}
	return m, cmd
}

// handleAppMsg routes a controller completion through the app and refreshes
// everything derived from controller state.
func (m Model) handleAppMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.app.Update(msg)

	if m.focus != focusCollection {
		m.collectionInput.SetValue(m.app.Registry.CollectionInput())
	}
	m.clampCursor()

	_, answered := msg.(chat.ChatAnsweredMsg)
	m.refreshTranscript(answered)
	return m, tea.Batch(cmd, m.syncSpinner())
}

// handleKey dispatches a key press to the global bindings, then to the
// active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.DismissToast):
		m.toasts.DismissNewest()
		return m, nil
	}

	if m.pickerOpen {
		return m.handlePickerKey(msg)
	}
	if m.tab == TabDocuments {
		return m.handleDocumentsKey(msg)
	}
	return m.handleChatKey(msg)
}

// quit abandons in-flight requests and stops the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.app.Close()
	m.logger.Info("tui exiting", zap.String("session_id", m.app.Chat.SessionID()))
	return m, tea.Quit
}

// =============================================================================
// STATE HELPERS
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.help.Width = width

	inputWidth := m.theme.ContentWidth() - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth
	m.pathInput.Width = inputWidth / 2
	m.collectionInput.Width = 20

	m.viewport.Width = width
	m.viewport.Height = height - reservedRows
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.refreshTranscript(m.viewport.AtBottom())
}

func (m *Model) switchTab() {
	m.confirmDelete = ""
	m.pickerOpen = false
	if m.tab == TabChat {
		m.tab = TabDocuments
		m.input.Blur()
		return
	}
	m.tab = TabChat
	m.focus = focusTable
	m.pathInput.Blur()
	m.collectionInput.Blur()
	m.input.Focus()
}

// syncSpinner runs the spinner while a question or an upload is out.
func (m *Model) syncSpinner() tea.Cmd {
	asking := m.app.Chat.Pending() > 0
	uploading := m.app.Registry.Uploading()
	if !asking && !uploading {
		m.spinner.Stop()
		return nil
	}
	if asking {
		m.spinner.SetMessage("Thinking")
	} else {
		m.spinner.SetMessage("Uploading")
	}
	return m.spinner.Start()
}

func (m *Model) clampCursor() {
	n := len(m.app.Registry.Documents())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// refreshTranscript re-renders the chat history into the viewport.
func (m *Model) refreshTranscript(gotoBottom bool) {
	var md components.MarkdownFunc
	if m.md != nil {
		md = m.md.Render
	}

	msgs := m.app.Chat.Messages()
	var content string
	if len(msgs) == 0 {
		content = m.theme.Muted.Render(m.welcome())
	} else {
		content = components.RenderTranscript(m.theme, msgs, m.theme.ContentWidth(), md)
	}
	if m.output != "" {
		content += "\n\n" + m.theme.Muted.Render(m.output)
	}
	m.viewport.SetContent(content)
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}
