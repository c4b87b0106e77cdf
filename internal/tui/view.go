package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/studygenius/internal/ingest"
	"github.com/csheth/studygenius/internal/session"
)

func (m *model) View() string {
	switch m.stage() {
	case stageCredential:
		return m.viewCredential()
	case stageUpload:
		return m.viewUpload()
	case stageProcessing:
		return m.viewProcessing()
	case stageDashboard:
		return m.viewDashboard()
	default:
		return ""
	}
}

func (m *model) viewCredential() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Setup Gemini API"))
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Provide a Google Gemini API key. It is stored in your user config directory."))
	b.WriteRune('\n')
	b.WriteRune('\n')
	b.WriteString(m.keyInput.View())
	b.WriteRune('\n')
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Enter: start • Ctrl+C: quit"))
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Get an API key at https://aistudio.google.com/app/apikey"))

	parts := []string{m.heroView(), formBoxStyle.Render(b.String())}
	if m.credentialError != "" {
		parts = append(parts, errorStyle.Render(m.credentialError))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return joinNonEmpty(parts)
}

func (m *model) viewUpload() string {
	intro := joinLines(
		sectionHeaderStyle.Render("Upload Study Material"),
		helperStyle.Render("Upload your notes, slides, or textbook chapters: PDF, PNG, JPEG or plain text up to 10MB."),
	)

	pickerHeader := "Browse " + m.picker.CurrentDirectory
	pathHeader := "Or type a path"
	if m.uploadFocus == focusPicker {
		pickerHeader = "▸ " + pickerHeader
	} else {
		pathHeader = "▸ " + pathHeader
	}
	pickerPanel := joinLines(subtitleStyle.Render(pickerHeader), m.picker.View())
	pathPanel := joinLines(subtitleStyle.Render(pathHeader), m.pathInput.View())

	parts := []string{m.heroView(), intro, pickerPanel, pathPanel}
	if m.config.InboxDir != "" {
		parts = append(parts, helperStyle.Render("Or drop a file into "+m.config.InboxDir))
	}
	if m.uploadError != "" {
		parts = append(parts, errorStyle.Render(m.uploadError))
	}
	if msg := m.session.ErrorMessage(); msg != "" {
		parts = append(parts, errorStyle.Render(msg))
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.ingesting {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	parts = append(parts, helperStyle.Render("Tab: switch picker/path • Enter: select • Ctrl+C: quit"))
	return joinNonEmpty(parts)
}

func (m *model) viewProcessing() string {
	lines := []string{
		heroTitleStyle.Render(fmt.Sprintf("%s Analyzing Document...", m.spinner.View())),
		helperStyle.Render("Extracting concepts, generating notes, and creating quiz."),
	}
	if file, ok := m.session.File(); ok {
		lines = append(lines, "", helperStyle.Render(fileSummary(file)))
	}
	return joinNonEmpty([]string{m.heroView(), heroBoxStyle.Render(strings.Join(lines, "\n"))})
}

func fileSummary(file ingest.UploadedFile) string {
	parts := []string{file.Name, file.MediaType.Label(), humanSize(file.Size)}
	if file.Pages > 0 {
		parts = append(parts, fmt.Sprintf("%d pages", file.Pages))
	}
	return strings.Join(parts, " • ")
}

func (m *model) viewDashboard() string {
	m.refreshViewportIfDirty()
	parts := []string{m.headerBar(), m.tabBar(), m.viewport.View()}
	if m.session.Tab() == session.TabChat {
		parts = append(parts, m.composerPanel())
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView(), m.helpView())
	}
	parts = append(parts, m.sessionMeterView())
	return joinNonEmpty(parts)
}

func (m *model) headerBar() string {
	title := heroTitleStyle.Render("StudyGenius AI")
	file := ""
	if f, ok := m.session.File(); ok {
		file = helperStyle.Render("File: " + f.Name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "   ", file, "   ", keyStyle.Render("n"), keyDescStyle.Render(" New Upload"))
}

func (m *model) tabBar() string {
	cells := make([]string, 0, len(session.Tabs))
	for idx, tab := range session.Tabs {
		label := fmt.Sprintf("%d %s", idx+1, tab)
		if tab == m.session.Tab() {
			cells = append(cells, activeTabStyle.Render(label))
		} else {
			cells = append(cells, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *model) composerPanel() string {
	help := "Enter: send • Esc: leave composer"
	if !m.composer.Focused() {
		help = "i: write a question • 1/2/3: switch view"
	}
	if m.chatPending {
		help = disabledStyle.Render("Send") + helperStyle.Render("  waiting for the tutor…")
		return joinLines(m.composer.View(), help)
	}
	return joinLines(m.composer.View(), helperStyle.Render(help))
}

func (m *model) heroView() string {
	if !m.layout.showLogo() {
		return lipgloss.JoinVertical(lipgloss.Left, heroTitleStyle.Render("StudyGenius AI"), taglineStyle.Render(heroTagline))
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n")
}

func (m *model) sessionMeterView() string {
	snap := m.session.Snapshot()
	stats := []string{fmt.Sprintf("View %s", snap.Tab)}
	if quiz := m.session.Quiz(); quiz != nil {
		if quiz.Submitted() {
			stats = append(stats, "Score "+quiz.ScoreLabel())
		} else {
			stats = append(stats, fmt.Sprintf("Answered %d/%d", quiz.Answered(), snap.Questions))
		}
	}
	stats = append(stats, fmt.Sprintf("Messages %d", snap.Messages))
	if m.chatPending {
		stats = append(stats, "Tutor thinking…")
	}
	if m.client != nil {
		stats = append(stats, m.client.Name())
	}
	stats = append(stats, m.jobStatusBadges()...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	if len(m.activeJobs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(m.activeJobs))
	for id := range m.activeJobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	badges := make([]string, 0, len(ids))
	for _, id := range ids {
		badges = append(badges, fmt.Sprintf("%s %s", m.activeJobs[id].Kind, m.activeJobs[id].Status))
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"1/2/3", "Switch view"},
		{"Tab", "Next view"},
		{"↑/↓", "Scroll"},
		{"[/]", "Jump sections"},
		{"j/k", "Move question"},
		{"a-d", "Pick answer"},
		{"s", "Submit quiz"},
		{"r", "Retake quiz"},
		{"i", "Ask the tutor"},
		{"n", "New upload"},
		{"?", "Toggle cheatsheet"},
		{"Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Navigation Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) helpView() string {
	lines := []string{
		sectionHeaderStyle.Render("How it works"),
		helperStyle.Render("• Notes & Maps: [ and ] jump between summary, key points, detailed notes, definitions and the structure map."),
		helperStyle.Render("• Assessment: move with j / k, answer with a-d; submitting unlocks once every question has an answer."),
		helperStyle.Render("• AI Tutor: questions are answered from the uploaded document only."),
		helperStyle.Render("• n discards this document and returns to the upload screen."),
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' && y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
