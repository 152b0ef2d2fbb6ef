package chat

import "strings"

// Sender labels for transcript turns.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Turn is a single utterance in a document's transcript. The flat storage
// encoding keeps sender and text only; per-turn timestamps would not survive
// a round trip.
type Turn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Line prefixes of the flat storage encoding.
const (
	userPrefix      = "User: "
	assistantPrefix = "Assistant: "
)

// RenderExchange encodes one question/answer pair in the flat transcript
// form. continuation prepends a newline so appended exchanges stay one
// turn per line.
func RenderExchange(question, answer string, continuation bool) string {
	var b strings.Builder
	if continuation {
		b.WriteString("\n")
	}
	b.WriteString(userPrefix)
	b.WriteString(question)
	b.WriteString("\n")
	b.WriteString(assistantPrefix)
	b.WriteString(answer)
	return b.String()
}

// ParseHistory decodes flat transcript text back into turns. Lines that do
// not carry a sender prefix are dropped; leaked prefix text inside an answer
// would corrupt the parse, which is why answers are stored verbatim on a
// single logical line per turn.
func ParseHistory(historyText string) []Turn {
	turns := []Turn{}
	for _, line := range strings.Split(historyText, "\n") {
		switch {
		case strings.HasPrefix(line, userPrefix):
			turns = append(turns, Turn{
				Sender: SenderUser,
				Text:   strings.TrimSpace(strings.TrimPrefix(line, userPrefix)),
			})
		case strings.HasPrefix(line, assistantPrefix):
			turns = append(turns, Turn{
				Sender: SenderAssistant,
				Text:   strings.TrimSpace(strings.TrimPrefix(line, assistantPrefix)),
			})
		}
	}
	return turns
}

// RenderHistory is the inverse of ParseHistory for a full turn list.
func RenderHistory(turns []Turn) string {
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		switch turn.Sender {
		case SenderUser:
			b.WriteString(userPrefix)
		case SenderAssistant:
			b.WriteString(assistantPrefix)
		}
		b.WriteString(turn.Text)
	}
	return b.String()
}
