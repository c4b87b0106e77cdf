package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/studygenius/internal/chat"
	"github.com/csheth/studygenius/internal/config"
	"github.com/csheth/studygenius/internal/ingest"
	"github.com/csheth/studygenius/internal/llm"
	"github.com/csheth/studygenius/internal/session"
	"github.com/csheth/studygenius/internal/study"
)

// Config wires runtime options into the TUI program.
type Config struct {
	// Client talks to the model. When nil the program opens on the API key form
	// and builds one with NewClient.
	Client      llm.Client
	NewClient   func(apiKey string) (llm.Client, error)
	Credentials *config.CredentialStore
	// Inbox delivers files dropped into InboxDir.
	Inbox    <-chan string
	InboxDir string
	StartDir string
	Logger   *zap.Logger
	Context  context.Context
}

// New returns a tea.Model ready to be mounted into a Program.
func New(cfg Config) tea.Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	keyInput := textinput.New()
	keyInput.Placeholder = credentialPlaceholder
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '•'
	keyInput.CharLimit = 120
	keyInput.Width = 60

	pathInput := textinput.New()
	pathInput.Placeholder = pathPlaceholder
	pathInput.CharLimit = 1024
	pathInput.Width = 70

	composer := textinput.New()
	composer.Placeholder = composerPlaceholder
	composer.CharLimit = 2000
	composer.Width = 70

	picker := filepicker.New()
	picker.AllowedTypes = ingest.Extensions
	picker.CurrentDirectory = startDirectory(cfg.StartDir)
	picker.Height = 10

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:         cfg,
		client:         cfg.Client,
		logger:         logger.Named("tui"),
		jobs:           newJobBus(cfg.Context, logger),
		session:        session.New(),
		layout:         newPageLayout(),
		keyInput:       keyInput,
		pathInput:      pathInput,
		composer:       composer,
		picker:         picker,
		spinner:        spin,
		viewport:       vp,
		activeJobs:     map[string]jobSnapshot{},
		sectionAnchors: map[string]int{},
		questionLines:  map[int]int{},
		viewportDirty:  true,
	}
	if m.client == nil {
		m.keyInput.Focus()
		m.infoMessage = "Provide a Google Gemini API key to get started."
	}
	return m
}

func startDirectory(dir string) string {
	if dir != "" {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

type model struct {
	config  Config
	client  llm.Client
	logger  *zap.Logger
	jobs    *jobBus
	session *session.Session
	layout  pageLayout

	keyInput  textinput.Model
	pathInput textinput.Model
	composer  textinput.Model
	picker    filepicker.Model
	spinner   spinner.Model
	viewport  viewport.Model

	uploadFocus     uploadFocus
	ingesting       bool
	uploadError     string
	credentialError string

	quizCursor       int
	chatPending      bool
	pendingChat      *chat.Pending
	chatGeneration   int
	sectionAnchors   map[string]int
	questionLines    map[int]int
	viewportDirty    bool
	scrollChatBottom bool

	activeJobs   map[string]jobSnapshot
	infoMessage  string
	errorMessage string
	helpVisible  bool
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.picker.Init()}
	if cmd := waitForInbox(m.config.Inbox); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *model) stage() stage {
	if m.client == nil {
		return stageCredential
	}
	switch m.session.Phase() {
	case session.PhaseProcessing:
		return stageProcessing
	case session.PhaseDashboard:
		return stageDashboard
	default:
		return stageUpload
	}
}

func (m *model) busy() bool {
	return m.ingesting || m.chatPending || m.stage() == stageProcessing
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			if m.chatPending {
				m.markViewportDirty()
			}
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case jobSignalMsg:
		m.activeJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.activeJobs, msg.Snapshot.ID)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case credentialSavedMsg:
		return m.handleCredentialSaved(msg)
	case ingestResultMsg:
		return m.handleIngestResult(msg)
	case analysisResultMsg:
		return m.handleAnalysisResult(msg)
	case chatReplyMsg:
		return m.handleChatReply(msg)
	case inboxFileMsg:
		return m.handleInboxFile(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage() == stageDashboard {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	// Directory listings and other picker internals.
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.viewport.Width = m.layout.viewportWidth
	m.viewport.Height = m.layout.viewportHeight
	m.picker.Height = m.layout.pickerHeight
	inputWidth := m.layout.viewportWidth - 4
	m.pathInput.Width = inputWidth
	m.composer.Width = inputWidth
	m.markViewportDirty()
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage() {
	case stageCredential:
		return m.handleCredentialKey(key)
	case stageUpload:
		return m.handleUploadKey(key)
	case stageProcessing:
		return m, nil
	case stageDashboard:
		return m.handleDashboardKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleCredentialKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(key)
		return m, cmd
	}
	value := strings.TrimSpace(m.keyInput.Value())
	if value == "" {
		m.credentialError = "Enter an API key to continue."
		return m, nil
	}
	if m.config.NewClient == nil {
		m.credentialError = "No model provider is configured."
		return m, nil
	}
	m.credentialError = ""
	m.infoMessage = "Saving API key…"
	return m, m.jobs.Start(jobKindCredential, saveCredentialJob(m.config.Credentials, value))
}

func (m *model) handleCredentialSaved(msg credentialSavedMsg) (tea.Model, tea.Cmd) {
	client, err := m.config.NewClient(msg.key)
	if err != nil {
		m.credentialError = err.Error()
		m.infoMessage = ""
		return m, nil
	}
	m.client = client
	m.keyInput.SetValue("")
	m.keyInput.Blur()
	m.credentialError = ""
	m.uploadFocus = focusPicker
	if msg.err != nil {
		m.logger.Warn("credential not persisted", zap.Error(msg.err))
		m.errorMessage = "API key could not be saved; it is kept for this session only."
	}
	m.infoMessage = fmt.Sprintf("Connected to %s.", client.Name())
	m.logger.Info("client ready", zap.String("client", client.Name()))
	return m, nil
}

func (m *model) handleUploadKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "tab", "shift+tab":
		m.toggleUploadFocus()
		return m, nil
	}

	if m.uploadFocus == focusPath {
		if key.Type == tea.KeyEnter {
			path := expandHome(strings.TrimSpace(m.pathInput.Value()))
			if path == "" {
				m.uploadError = "Enter a file path or pick a file above."
				return m, nil
			}
			return m, m.startIngest("path", path)
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(key)
		return m, cmd
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(key)
	if ok, path := m.picker.DidSelectFile(key); ok {
		return m, tea.Batch(cmd, m.startIngest("picker", path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(key); ok {
		m.uploadError = (&ingest.ValidationError{Name: filepath.Base(path), Err: ingest.ErrUnsupportedType}).UserMessage()
		return m, cmd
	}
	return m, cmd
}

func (m *model) toggleUploadFocus() {
	if m.uploadFocus == focusPicker {
		m.uploadFocus = focusPath
		m.pathInput.Focus()
		return
	}
	m.uploadFocus = focusPicker
	m.pathInput.Blur()
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (m *model) startIngest(source, path string) tea.Cmd {
	if m.ingesting {
		m.infoMessage = "Still reading the previous file…"
		return nil
	}
	m.ingesting = true
	m.uploadError = ""
	m.infoMessage = fmt.Sprintf("Reading %s…", filepath.Base(path))
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindIngest, ingestFileJob(source, path)))
}

func (m *model) handleIngestResult(msg ingestResultMsg) (tea.Model, tea.Cmd) {
	m.ingesting = false
	if m.stage() != stageUpload {
		return m, nil
	}
	if msg.err != nil {
		m.uploadError = uploadErrorText(msg.err)
		m.infoMessage = ""
		m.logger.Info("upload rejected", zap.String("source", msg.source), zap.Error(msg.err))
		return m, nil
	}
	if err := m.session.Apply(session.UploadAccepted{File: msg.file}); err != nil {
		m.logger.Error("upload transition rejected", zap.Error(err))
		return m, nil
	}
	m.uploadError = ""
	m.errorMessage = ""
	m.infoMessage = ""
	m.pathInput.SetValue("")
	m.logger.Info("upload accepted",
		zap.String("source", msg.source),
		zap.String("file", msg.file.Name),
		zap.String("mediaType", string(msg.file.MediaType)),
		zap.Int64("bytes", msg.file.Size),
	)
	return m, tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindAnalyze, analyzeJob(m.client, msg.file)))
}

func (m *model) handleAnalysisResult(msg analysisResultMsg) (tea.Model, tea.Cmd) {
	if m.session.Phase() != session.PhaseProcessing {
		return m, nil
	}
	if msg.err != nil {
		if err := m.session.Apply(session.AnalysisFailed{Err: msg.err}); err != nil {
			m.logger.Error("failure transition rejected", zap.Error(err))
			return m, nil
		}
		m.logger.Error("analysis failed", zap.String("file", msg.fileName), zap.Error(m.session.Cause()))
		m.uploadFocus = focusPicker
		m.pathInput.Blur()
		m.infoMessage = ""
		return m, nil
	}
	if err := m.session.Apply(session.AnalysisSucceeded{Result: msg.result}); err != nil {
		m.logger.Error("success transition rejected", zap.Error(err))
		return m, nil
	}
	m.enterDashboard(msg.fileName)
	return m, nil
}

func (m *model) enterDashboard(fileName string) {
	m.quizCursor = 0
	m.chatPending = false
	m.pendingChat = nil
	m.chatGeneration++
	m.composer.SetValue("")
	m.composer.Blur()
	m.helpVisible = false
	m.errorMessage = ""
	m.viewport.SetYOffset(0)
	m.infoMessage = fmt.Sprintf("Analyzed %s. Switch views with 1 / 2 / 3.", fileName)
	m.markViewportDirty()
}

func (m *model) handleInboxFile(msg inboxFileMsg) (tea.Model, tea.Cmd) {
	next := waitForInbox(m.config.Inbox)
	if m.stage() != stageUpload || m.ingesting {
		m.logger.Info("inbox file ignored", zap.String("path", msg.path), zap.String("stage", m.stage().String()))
		return m, next
	}
	return m, tea.Batch(next, m.startIngest("inbox", msg.path))
}

func (m *model) handleDashboardKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.Tab() == session.TabChat && m.composer.Focused() {
		return m.handleComposerKey(key)
	}

	switch key.String() {
	case "1":
		return m, m.selectTab(session.TabNotes)
	case "2":
		return m, m.selectTab(session.TabAssessment)
	case "3":
		return m, m.selectTab(session.TabChat)
	case "tab":
		return m, m.selectTab(nextTab(m.session.Tab(), 1))
	case "shift+tab":
		return m, m.selectTab(nextTab(m.session.Tab(), -1))
	case "n":
		m.newUpload()
		return m, nil
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "esc":
		m.helpVisible = false
		return m, nil
	}

	switch m.session.Tab() {
	case session.TabNotes:
		if m.handleNotesKey(key) {
			return m, nil
		}
	case session.TabAssessment:
		if m.handleAssessmentKey(key) {
			return m, nil
		}
	case session.TabChat:
		switch key.String() {
		case "i", "enter":
			m.composer.Focus()
			return m, textinput.Blink
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func nextTab(current session.Tab, delta int) session.Tab {
	n := len(session.Tabs)
	idx := (int(current) + delta + n) % n
	return session.Tabs[idx]
}

func (m *model) selectTab(tab session.Tab) tea.Cmd {
	if err := m.session.Apply(session.TabSelected{Tab: tab}); err != nil {
		m.logger.Warn("tab change rejected", zap.Error(err))
		return nil
	}
	m.viewport.SetYOffset(0)
	m.markViewportDirty()
	if tab == session.TabChat {
		m.scrollChatBottom = true
		m.composer.Focus()
		return textinput.Blink
	}
	m.composer.Blur()
	return nil
}

func (m *model) newUpload() {
	if err := m.session.Apply(session.ResetRequested{}); err != nil {
		m.logger.Warn("reset rejected", zap.Error(err))
		return
	}
	m.chatPending = false
	m.pendingChat = nil
	m.composer.SetValue("")
	m.composer.Blur()
	m.helpVisible = false
	m.uploadError = ""
	m.errorMessage = ""
	m.uploadFocus = focusPicker
	m.pathInput.Blur()
	m.infoMessage = "Ready for another document."
	m.sectionAnchors = map[string]int{}
	m.questionLines = map[int]int{}
	m.viewport.SetContent("")
	m.logger.Info("session reset")
}

func (m *model) handleNotesKey(key tea.KeyMsg) bool {
	switch key.String() {
	case "]":
		m.jumpToRelativeSection(1)
	case "[":
		m.jumpToRelativeSection(-1)
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	default:
		return false
	}
	return true
}

func (m *model) handleAssessmentKey(key tea.KeyMsg) bool {
	quiz := m.session.Quiz()
	if quiz == nil {
		return false
	}
	questions := quiz.Questions()
	switch k := key.String(); k {
	case "j", "down":
		if m.quizCursor < len(questions)-1 {
			m.quizCursor++
		}
		m.markViewportDirty()
	case "k", "up":
		if m.quizCursor > 0 {
			m.quizCursor--
		}
		m.markViewportDirty()
	case "a", "b", "c", "d":
		if len(questions) == 0 {
			return true
		}
		option := int(k[0] - 'a')
		if err := quiz.Select(questions[m.quizCursor].ID, option); err != nil {
			switch {
			case errors.Is(err, study.ErrQuizSubmitted):
				m.infoMessage = "Results are showing. Press r to retake the quiz."
			default:
				m.infoMessage = "That option does not exist for this question."
			}
			return true
		}
		m.infoMessage = ""
		m.markViewportDirty()
	case "s", "enter":
		if quiz.Submitted() {
			m.infoMessage = fmt.Sprintf("Score %s. Press r to retake the quiz.", quiz.ScoreLabel())
			return true
		}
		if !quiz.CanSubmit() {
			m.infoMessage = fmt.Sprintf("Answer every question before submitting (%d / %d answered).", quiz.Answered(), len(questions))
			return true
		}
		_ = quiz.Submit()
		m.quizCursor = 0
		m.infoMessage = fmt.Sprintf("Quiz submitted. Score %s.", quiz.ScoreLabel())
		m.logger.Info("quiz submitted", zap.Int("score", quiz.Score()), zap.Int("questions", len(questions)))
		m.markViewportDirty()
	case "r":
		quiz.Reset()
		m.quizCursor = 0
		m.viewport.SetYOffset(0)
		m.infoMessage = "Answers cleared."
		m.markViewportDirty()
	default:
		return false
	}
	return true
}

func (m *model) handleComposerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.composer.Blur()
		return m, nil
	case tea.KeyEnter:
		return m, m.sendQuestion()
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	return m, cmd
}

func (m *model) sendQuestion() tea.Cmd {
	question := strings.TrimSpace(m.composer.Value())
	if question == "" {
		return nil
	}
	if m.chatPending {
		m.infoMessage = "The tutor is still answering."
		return nil
	}
	log := m.session.Conversation()
	file, ok := m.session.File()
	if log == nil || !ok {
		return nil
	}
	m.pendingChat = log.Ask(question)
	m.composer.SetValue("")
	m.chatPending = true
	m.scrollChatBottom = true
	m.infoMessage = ""
	m.markViewportDirty()
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindChat, chatJob(m.chatGeneration, m.client, file, m.pendingChat)))
}

func (m *model) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.chatGeneration || m.session.Phase() != session.PhaseDashboard || m.pendingChat == nil {
		return m, nil
	}
	m.pendingChat.Complete(msg.reply)
	m.pendingChat = nil
	m.chatPending = false
	m.scrollChatBottom = true
	m.markViewportDirty()
	return m, nil
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty || m.stage() != stageDashboard {
		return
	}
	m.viewportDirty = false
	var view displayView
	switch m.session.Tab() {
	case session.TabAssessment:
		view = m.buildAssessmentContent()
	case session.TabChat:
		view = m.buildChatContent()
	default:
		view = m.buildNotesContent()
	}
	m.sectionAnchors = view.anchors
	m.questionLines = view.questionLines
	m.viewport.SetContent(view.content)

	switch {
	case m.session.Tab() == session.TabChat && m.scrollChatBottom:
		m.viewport.GotoBottom()
		m.scrollChatBottom = false
	case m.session.Tab() == session.TabAssessment:
		m.ensureQuestionVisible()
	}
}

func (m *model) ensureQuestionVisible() {
	if m.quizCursor == 0 {
		m.viewport.GotoTop()
		return
	}
	line, ok := m.questionLines[m.quizCursor]
	if !ok {
		return
	}
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	switch {
	case line < top:
		m.viewport.SetYOffset(line)
	case line+optionBlockHeight > bottom:
		m.viewport.SetYOffset(line + optionBlockHeight - m.viewport.Height + 1)
	}
}

func (m *model) jumpToRelativeSection(delta int) {
	m.refreshViewportIfDirty()
	current := m.viewport.YOffset
	var target string
	if delta > 0 {
		for _, anchor := range sectionSequence {
			if line, ok := m.sectionAnchors[anchor]; ok && line > current {
				target = anchor
				break
			}
		}
	} else {
		for i := len(sectionSequence) - 1; i >= 0; i-- {
			anchor := sectionSequence[i]
			if line, ok := m.sectionAnchors[anchor]; ok && line < current {
				target = anchor
				break
			}
		}
	}
	if target == "" {
		return
	}
	m.viewport.SetYOffset(m.sectionAnchors[target])
	m.infoMessage = fmt.Sprintf("Jumped to %s.", sectionLabel(target))
}
