package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/csheth/studygenius/internal/study"
)

var dataURLPrefix = regexp.MustCompile(`^data:(.*?,)?`)

// stripDataURL returns the bare base64 payload of a data URL.
func stripDataURL(data string) string {
	return dataURLPrefix.ReplaceAllString(data, "")
}

func buildAnalysisPrompt() string {
	return fmt.Sprintf(`You are an expert educational assistant. Analyze the attached study material completely.

Tasks:
1. Extract the core knowledge: key concepts, definitions, and how they relate hierarchically.
2. Write study notes: a summary, key bullet points, detailed section-by-section notes, and definitions of key terms.
3. Build a conceptual hierarchy suitable for a mind map (topics with subtopics).
4. Write exactly %d multiple-choice assessment questions with %d options each, spanning Easy, Medium and Hard difficulty, to test understanding.

Return the output strictly in the requested JSON format.`, study.QuestionCount, study.OptionCount)
}

func buildChatPrompt(history []Turn, message string) string {
	var b strings.Builder
	b.WriteString("You are a helpful tutor. The user is asking questions about the attached study document.\n")
	b.WriteString("Answer clearly and concisely using ONLY the document. If the answer isn't in the document, say so.\n\n")
	b.WriteString("Chat History:\n")
	for _, turn := range history {
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteRune('\n')
	}
	b.WriteString("\nUser Question: ")
	b.WriteString(message)
	return b.String()
}
