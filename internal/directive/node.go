package directive

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// KindJSONTable is the node kind of a JSONTable.
var KindJSONTable = ast.NewNodeKind("JSONTable")

// JSONTable is a block node standing in for a json-table fence.
type JSONTable struct {
	ast.BaseBlock

	// Index is the 1-based position of the directive within its document.
	Index int
	// Options are the parsed fence options.
	Options Options
	// Body holds the fence content lines.
	Body []string
	// Err is set when the fence options could not be parsed.
	Err error
}

// NewJSONTable returns a new JSONTable node.
func NewJSONTable(index int, opts Options, body []string, err error) *JSONTable {
	return &JSONTable{Index: index, Options: opts, Body: body, Err: err}
}

// Kind implements ast.Node.
func (n *JSONTable) Kind() ast.NodeKind {
	return KindJSONTable
}

// Dump implements ast.Node.
func (n *JSONTable) Dump(source []byte, level int) {
	kv := map[string]string{
		"Index":  fmt.Sprintf("%d", n.Index),
		"File":   n.Options.File,
		"Header": fmt.Sprintf("%v", n.Options.Header),
		"Lines":  fmt.Sprintf("%d", len(n.Body)),
	}
	if n.Options.Limit != nil {
		kv["Limit"] = fmt.Sprintf("%d", *n.Options.Limit)
	}
	if n.Options.Encoding != "" {
		kv["Encoding"] = n.Options.Encoding
	}
	if n.Err != nil {
		kv["Error"] = n.Err.Error()
	}
	ast.DumpHelper(n, source, level, kv, nil)
}

func (n *JSONTable) hasBody() bool {
	for _, line := range n.Body {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}
