package render

import (
	"strings"
	"testing"
)

func TestHTMLRendererConvertsGFM(t *testing.T) {
	out, err := NewHTMLRenderer().Render("# Title\n\nSome **bold** text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<strong>bold</strong>") {
		t.Fatalf("unexpected html: %s", out)
	}
}

func TestTerminalRendererHandlesLists(t *testing.T) {
	out, err := NewTerminalRenderer().Render("- one\n- two")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "• one") || !strings.Contains(out, "• two") {
		t.Fatalf("unexpected terminal output: %q", out)
	}
}

func TestTerminalRendererKeepsPlainText(t *testing.T) {
	out, err := NewTerminalRenderer().Render("流动性正在收紧")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "流动性正在收紧") {
		t.Fatalf("plain text lost: %q", out)
	}
}

func TestRenderSummaryNilConverter(t *testing.T) {
	if got := RenderSummary(nil, "raw **md**"); got != "raw **md**" {
		t.Fatalf("nil converter must return raw text, got %q", got)
	}
}
