package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/studygenius/internal/llm"
	"github.com/csheth/studygenius/internal/study"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	pickerHeight   int
	composerHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 20,
		pickerHeight:   10,
		composerHeight: 2,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.composerHeight = 2

	// header, tab bar, status meter, info line and the gaps between them
	const dashboardChrome = 8
	l.viewportHeight = height - dashboardChrome - l.composerHeight
	if l.viewportHeight < 6 {
		l.viewportHeight = 6
	}

	// logo, tagline, form headings, path input and hints
	const uploadChrome = 16
	l.pickerHeight = height - uploadChrome
	if l.pickerHeight < pickerMinHeight {
		l.pickerHeight = pickerMinHeight
	}
}

func (l pageLayout) showLogo() bool {
	return l.windowWidth == 0 || l.windowWidth >= len([]rune(logoArtLines[0]))+4
}

type displayView struct {
	content       string
	anchors       map[string]int
	questionLines map[int]int
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func (m *model) buildNotesContent() displayView {
	cb := &contentBuilder{}
	anchors := map[string]int{}
	result, ok := m.session.Result()
	if !ok {
		return displayView{anchors: anchors}
	}
	notes := result.Notes
	wrap := m.wrapWidth(4)

	section := func(anchor, title string) {
		if cb.Line() > 0 {
			cb.WriteRune('\n')
		}
		anchors[anchor] = cb.Line()
		cb.WriteString(sectionHeaderStyle.Render(title))
		cb.WriteRune('\n')
	}
	empty := func() {
		cb.WriteString(helperStyle.Render("Nothing extracted for this section."))
		cb.WriteRune('\n')
	}

	section(anchorSummary, "Executive Summary")
	if strings.TrimSpace(notes.Summary) == "" {
		empty()
	} else {
		cb.WriteString(indentMultiline(wordwrap.String(notes.Summary, wrap), "  "))
		cb.WriteRune('\n')
	}

	section(anchorKeyPoints, "Key Takeaways")
	if len(notes.BulletPoints) == 0 {
		empty()
	}
	for idx, point := range notes.BulletPoints {
		prefix := fmt.Sprintf(" %2d. ", idx+1)
		body := wordwrap.String(point, wrap-len(prefix))
		cb.WriteString(prefix)
		cb.WriteString(hangingIndent(body, len(prefix)))
		cb.WriteRune('\n')
	}

	section(anchorDetailed, "Detailed Notes")
	if len(notes.DetailedNotes) == 0 {
		empty()
	}
	for idx, sec := range notes.DetailedNotes {
		if idx > 0 {
			cb.WriteRune('\n')
		}
		cb.WriteString(subtitleStyle.Render("▌ " + sec.Heading))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(wordwrap.String(sec.Content, wrap), "  "))
		cb.WriteRune('\n')
	}

	section(anchorDefinitions, "Definitions")
	if len(notes.Definitions) == 0 {
		empty()
	}
	for _, def := range notes.Definitions {
		cb.WriteString(" • ")
		cb.WriteString(subtitleStyle.Render(def.Term))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(wordwrap.String(def.Definition, wrap), "   "))
		cb.WriteRune('\n')
	}

	section(anchorMindMap, "Structure Map")
	if len(notes.MindMap) == 0 {
		empty()
	}
	for _, topic := range notes.MindMap {
		cb.WriteString(" ◆ ")
		cb.WriteString(subtitleStyle.Render(topic.Topic))
		cb.WriteRune('\n')
		for idx, sub := range topic.Subtopics {
			branch := "   ├─ "
			if idx == len(topic.Subtopics)-1 {
				branch = "   └─ "
			}
			cb.WriteString(branch)
			cb.WriteString(sub)
			cb.WriteRune('\n')
		}
	}

	return displayView{content: cb.String(), anchors: anchors, questionLines: map[int]int{}}
}

// optionBlockHeight is how many lines below a question's first line stay
// visible when the cursor lands on it.
const optionBlockHeight = 6

func (m *model) buildAssessmentContent() displayView {
	cb := &contentBuilder{}
	lines := map[int]int{}
	quiz := m.session.Quiz()
	if quiz == nil {
		return displayView{anchors: map[string]int{}, questionLines: lines}
	}
	questions := quiz.Questions()
	wrap := m.wrapWidth(8)

	cb.WriteString(sectionHeaderStyle.Render("Knowledge Check"))
	cb.WriteRune('\n')
	if quiz.Submitted() {
		cb.WriteString(successStyle.Render(fmt.Sprintf("Score: %s", quiz.ScoreLabel())))
	} else {
		cb.WriteString(helperStyle.Render(fmt.Sprintf("%d / %d answered", quiz.Answered(), len(questions))))
	}
	cb.WriteRune('\n')

	for idx, q := range questions {
		cb.WriteRune('\n')
		lines[idx] = cb.Line()
		marker := "  "
		if idx == m.quizCursor {
			marker = currentLineStyle.Render("▸") + " "
		}
		label := fmt.Sprintf("Q%d. ", idx+1)
		cb.WriteString(marker)
		cb.WriteString(label)
		cb.WriteString(hangingIndent(wordwrap.String(q.Question, wrap), len(label)+2))
		cb.WriteString("  ")
		cb.WriteString(difficultyStyle(q.Difficulty).Render("[" + string(q.Difficulty) + "]"))
		cb.WriteRune('\n')

		chosen, answered := quiz.Answer(q.ID)
		for opt, text := range q.Options {
			cb.WriteString("     ")
			cb.WriteString(renderOption(opt, text, answered && chosen == opt, opt == q.CorrectAnswerIndex, quiz.Submitted()))
			cb.WriteRune('\n')
		}
		if quiz.Submitted() {
			explanation := wordwrap.String("Explanation: "+q.Explanation, wrap)
			cb.WriteString(indentMultiline(helperStyle.Render(explanation), "     "))
			cb.WriteRune('\n')
		}
	}

	cb.WriteRune('\n')
	switch {
	case quiz.Submitted():
		cb.WriteString(helperStyle.Render("Press r to retake the quiz."))
	case quiz.CanSubmit():
		cb.WriteString(keyStyle.Render("s") + keyDescStyle.Render(" Submit answers"))
	default:
		cb.WriteString(disabledStyle.Render("Submit answers"))
		cb.WriteString(helperStyle.Render("  (answer every question first)"))
	}
	cb.WriteRune('\n')

	return displayView{content: cb.String(), anchors: map[string]int{}, questionLines: lines}
}

func renderOption(index int, text string, chosen, correct, revealed bool) string {
	letter := optionLetter(index)
	switch {
	case revealed && correct:
		return correctStyle.Render(fmt.Sprintf("✓ %s) %s", letter, text))
	case revealed && chosen:
		return incorrectStyle.Render(fmt.Sprintf("✗ %s) %s", letter, text))
	case chosen:
		return chosenStyle.Render(fmt.Sprintf("● %s) %s", letter, text))
	default:
		return fmt.Sprintf("○ %s) %s", letter, text)
	}
}

func optionLetter(index int) string {
	return string(rune('A' + index))
}

func difficultyStyle(d study.Difficulty) lipgloss.Style {
	if style, ok := difficultyStyles[string(d)]; ok {
		return style
	}
	return helperStyle
}

func (m *model) buildChatContent() displayView {
	cb := &contentBuilder{}
	wrap := m.wrapWidth(4)
	cb.WriteString(sectionHeaderStyle.Render("AI Tutor Assistant"))
	cb.WriteRune('\n')
	log := m.session.Conversation()
	if log != nil {
		for _, msg := range log.All() {
			cb.WriteRune('\n')
			label := modelLabelStyle.Render("Tutor")
			if msg.Role == llm.RoleUser {
				label = userLabelStyle.Render("You")
			}
			cb.WriteString(label)
			cb.WriteString(helperStyle.Render("  " + msg.Timestamp.Format("15:04")))
			cb.WriteRune('\n')
			cb.WriteString(indentMultiline(wordwrap.String(msg.Content, wrap), "  "))
			cb.WriteRune('\n')
		}
	}
	if m.chatPending {
		cb.WriteRune('\n')
		cb.WriteString(modelLabelStyle.Render("Tutor"))
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render(fmt.Sprintf("  %s Thinking…", m.spinner.View())))
		cb.WriteRune('\n')
	}
	return displayView{content: cb.String(), anchors: map[string]int{}, questionLines: map[int]int{}}
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// hangingIndent indents every line after the first by width spaces.
func hangingIndent(text string, width int) string {
	lines := strings.Split(text, "\n")
	pad := strings.Repeat(" ", width)
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func sectionLabel(anchor string) string {
	switch anchor {
	case anchorSummary:
		return "Summary"
	case anchorKeyPoints:
		return "Key Points"
	case anchorDetailed:
		return "Detailed Notes"
	case anchorDefinitions:
		return "Definitions"
	case anchorMindMap:
		return "Structure Map"
	default:
		return "section"
	}
}

func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMG"[exp])
}
