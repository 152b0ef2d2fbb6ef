package chat

import (
	"reflect"
	"strings"
	"testing"
)

func TestSummaryPromptStyles(t *testing.T) {
	bullet := SummaryPrompt(StyleBullet, LengthShort, "body")
	if !strings.Contains(bullet, "bullet points") {
		t.Fatalf("bullet prompt missing style instruction: %q", bullet)
	}
	if !strings.Contains(bullet, "brief") {
		t.Fatalf("bullet prompt missing length hint: %q", bullet)
	}

	paragraph := SummaryPrompt(StyleParagraph, LengthLong, "body")
	if !strings.Contains(paragraph, "paragraph") {
		t.Fatalf("paragraph prompt missing style instruction: %q", paragraph)
	}

	generic := SummaryPrompt("haiku", "epic", "body")
	if !strings.HasPrefix(generic, "Summarize the following text.") {
		t.Fatalf("unknown style should degrade to generic instruction: %q", generic)
	}
	if strings.Contains(generic, "Aim for") || strings.Contains(generic, "brief") {
		t.Fatalf("unknown length should add no hint: %q", generic)
	}
}

func TestSummaryPromptEndsWithText(t *testing.T) {
	p := SummaryPrompt(StyleParagraph, LengthMedium, "the document body")
	if !strings.HasSuffix(p, "Text:\nthe document body") {
		t.Fatalf("prompt must end with the text block: %q", p)
	}
}

func TestQAPromptIncludesContextAndHistory(t *testing.T) {
	p := QAPrompt("file body", "User: q1\nAssistant: a1", "what next?")
	for _, fragment := range []string{
		"Based on the uploaded file:",
		"File content:\nfile body",
		"Conversation so far:\nUser: q1\nAssistant: a1",
		"Question: what next?",
	} {
		if !strings.Contains(p, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, p)
		}
	}
}

func TestQAPromptOmitsEmptyHistory(t *testing.T) {
	p := QAPrompt("file body", "", "first question")
	if strings.Contains(p, "Conversation so far") {
		t.Fatalf("empty history must not add a history section: %q", p)
	}
}

func TestParseBullets(t *testing.T) {
	raw := "* first point\n- second point\n• third point\n\n   \nfourth point"
	got := ParseBullets(raw)
	want := []string{"first point", "second point", "third point", "fourth point"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected bullets: %#v", got)
	}
}
