package chat

import "strings"

// Summary style and length options. Unknown values degrade to the generic
// instruction and an empty length hint rather than failing the request.
const (
	StyleBullet    = "bullet"
	StyleParagraph = "paragraph"

	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// SummaryPrompt composes the oracle prompt for a summary request.
func SummaryPrompt(style, length, text string) string {
	var instruction string
	switch style {
	case StyleBullet:
		instruction = "Summarize the following text as concise bullet points."
	case StyleParagraph:
		instruction = "Summarize the following text as a single cohesive paragraph."
	default:
		instruction = "Summarize the following text."
	}

	var lengthHint string
	switch length {
	case LengthShort:
		lengthHint = "Keep it brief, around 2-3 sentences or bullets."
	case LengthMedium:
		lengthHint = "Aim for a medium length, around 5-6 sentences or bullets."
	case LengthLong:
		lengthHint = "Provide a detailed summary covering all key points."
	}

	var b strings.Builder
	b.WriteString(instruction)
	if lengthHint != "" {
		b.WriteString(" ")
		b.WriteString(lengthHint)
	}
	b.WriteString("\n\nText:\n")
	b.WriteString(text)
	return b.String()
}

// QAPrompt composes the oracle prompt for a grounded question. The document
// text is the primary context; prior turns follow so the oracle can resolve
// references like "the second one".
func QAPrompt(documentText, historyText, question string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant answering questions about an uploaded file.\n")
	b.WriteString("Prefer the file content when answering. When the answer comes from the file, start with \"Based on the uploaded file:\".\n")
	b.WriteString("Never say you have no information; if the file does not cover the question, answer from general knowledge.\n")
	b.WriteString("Be concise.\n\n")
	b.WriteString("File content:\n")
	b.WriteString(documentText)
	b.WriteString("\n\n")
	if strings.TrimSpace(historyText) != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(historyText)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

// ParseBullets splits an oracle reply into clean bullet items, stripping
// leading list markers and dropping blank lines.
func ParseBullets(raw string) []string {
	items := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "*-• ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}
