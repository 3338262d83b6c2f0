package docmodel

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// plainText reduces markdown-formatted annotation text to plain text.
// Inline markup (emphasis, code spans, links) is unwrapped to its textual
// content; wrapped source lines are joined with single spaces. The manifest
// description must stay consumable by tools that render no markup.
func plainText(markup string) string {
	trimmed := strings.TrimSpace(markup)
	if trimmed == "" {
		return ""
	}

	src := []byte(trimmed)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			// Separate block-level chunks with a single space.
			if n.Type() == gmast.TypeBlock && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(node.Value)
		case *gmast.AutoLink:
			sb.Write(node.URL(src))
		}
		return gmast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(sb.String()), " ")
}
