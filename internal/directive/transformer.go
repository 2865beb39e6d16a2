package directive

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type transformer struct{}

// Transform replaces every json-table fence in doc with a JSONTable node.
func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var fences []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fence, ok := n.(*ast.FencedCodeBlock); ok {
			if string(fence.Language(source)) == Language {
				fences = append(fences, fence)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for i, fence := range fences {
		opts, err := ParseOptions(infoOptions(fence, source))

		lines := fence.Lines()
		body := make([]string, 0, lines.Len())
		for j := 0; j < lines.Len(); j++ {
			seg := lines.At(j)
			body = append(body, strings.TrimRight(string(seg.Value(source)), "\r\n"))
		}

		node := NewJSONTable(i+1, opts, body, err)
		fence.Parent().ReplaceChild(fence.Parent(), fence, node)
	}
}

// infoOptions returns the fence info string without its language word.
func infoOptions(fence *ast.FencedCodeBlock, source []byte) string {
	if fence.Info == nil {
		return ""
	}
	info := strings.TrimSpace(string(fence.Info.Segment.Value(source)))
	idx := strings.IndexAny(info, " \t")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(info[idx:])
}
