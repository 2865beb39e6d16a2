package directive

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the optional YAML block opening a document:
//
//	---
//	title: Quarterly report
//	jsontable:
//	  ceiling: 500
//	  encoding: latin1
//	  stylesheet: report.css
//	---
type Frontmatter struct {
	Title     string            `yaml:"title"`
	JSONTable *DocumentSettings `yaml:"jsontable"`
}

// DocumentSettings override configuration for one document.
type DocumentSettings struct {
	Ceiling    *int   `yaml:"ceiling"`
	Encoding   string `yaml:"encoding"`
	Stylesheet string `yaml:"stylesheet"`
}

// SplitFrontmatter separates a leading "---" delimited YAML block from the
// document body. Content without a complete block is returned unchanged
// with a nil Frontmatter.
func SplitFrontmatter(content []byte) ([]byte, *Frontmatter, error) {
	lines := bytes.Split(content, []byte("\n"))

	if len(lines) < 3 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content, nil, nil
	}

	for i := 1; i < len(lines); i++ {
		if !bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			continue
		}

		var fm Frontmatter
		if err := yaml.Unmarshal(bytes.Join(lines[1:i], []byte("\n")), &fm); err != nil {
			return nil, nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
		if fm.JSONTable != nil && fm.JSONTable.Ceiling != nil && *fm.JSONTable.Ceiling < 0 {
			return nil, nil, fmt.Errorf("frontmatter jsontable.ceiling must be >= 0, got %d", *fm.JSONTable.Ceiling)
		}
		return bytes.Join(lines[i+1:], []byte("\n")), &fm, nil
	}

	// No closing delimiter
	return content, nil, nil
}
