package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// MarkdownRenderer converts a markdown summary into display markup. It is an
// injected collaborator: callers must degrade to raw text when it is nil or
// fails, never crash.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// HTMLRenderer converts markdown to GFM HTML via goldmark.
type HTMLRenderer struct {
	md goldmark.Markdown
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (r *HTMLRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// TerminalRenderer converts markdown to ANSI-styled text by walking the
// goldmark AST, for the TUI summary panel.
type TerminalRenderer struct {
	md      goldmark.Markdown
	heading lipgloss.Style
	strong  lipgloss.Style
	code    lipgloss.Style
}

func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		strong:  lipgloss.NewStyle().Bold(true),
		code:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

func (r *TerminalRenderer) Render(markdown string) (string, error) {
	source := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(source))

	w := &terminalWalker{renderer: r, source: source}
	if err := ast.Walk(doc, w.walk); err != nil {
		return "", fmt.Errorf("walk markdown: %w", err)
	}
	return strings.TrimRight(w.out.String(), "\n"), nil
}

type terminalWalker struct {
	renderer  *TerminalRenderer
	source    []byte
	out       strings.Builder
	bold      bool
	listDepth int
}

func (w *terminalWalker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			w.out.WriteString(w.renderer.heading.Render(string(node.Text(w.source))))
			w.out.WriteString("\n")
		}
		return ast.WalkSkipChildren, nil
	case *ast.Paragraph:
		if !entering {
			w.out.WriteString("\n")
		}
	case *ast.Text:
		if entering {
			segment := node.Segment.Value(w.source)
			if w.bold {
				w.out.WriteString(w.renderer.strong.Render(string(segment)))
			} else {
				w.out.Write(segment)
			}
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.out.WriteString("\n")
			}
		}
	case *ast.Emphasis:
		if node.Level >= 2 {
			w.bold = entering
		}
	case *ast.CodeSpan:
		if entering {
			w.out.WriteString(w.renderer.code.Render(string(node.Text(w.source))))
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		if entering {
			w.listDepth++
		} else {
			w.listDepth--
		}
	case *ast.ListItem:
		if entering {
			w.out.WriteString(strings.Repeat("  ", w.listDepth-1))
			w.out.WriteString("• ")
		}
	case *ast.ThematicBreak:
		if entering {
			w.out.WriteString(strings.Repeat("─", 30))
			w.out.WriteString("\n")
		}
	}
	return ast.WalkContinue, nil
}

// RenderSummary applies the injected converter with the graceful-degradation
// contract: nil converter or conversion failure returns the raw markdown.
func RenderSummary(md MarkdownRenderer, markdown string) string {
	if md == nil {
		return markdown
	}
	out, err := md.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
