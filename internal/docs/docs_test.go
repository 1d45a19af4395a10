package docs

import (
	"strings"
	"testing"
)

func TestTopics_ListsEmbeddedContent(t *testing.T) {
	topics := Topics()
	want := []string{"config", "files", "navigation", "overview", "storage"}
	if strings.Join(topics, ",") != strings.Join(want, ",") {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for _, topic := range topics {
		body, ok := Get(topic)
		if !ok || !strings.HasPrefix(body, "# ") {
			t.Fatalf("topic %q has no heading", topic)
		}
	}
}

func TestGet_NormalizesAndRejects(t *testing.T) {
	if _, ok := Get(" Overview "); !ok {
		t.Fatalf("expected case-insensitive lookup")
	}
	for _, bad := range []string{"", "nope", "../docs"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
	if got := Title("files"); got != "Export and import" {
		t.Fatalf("Title = %q", got)
	}
}
