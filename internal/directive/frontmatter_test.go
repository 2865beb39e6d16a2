package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	src := "---\ntitle: Report\njsontable:\n  ceiling: 5\n  encoding: latin1\n  stylesheet: r.css\n---\n# Body\n"

	body, fm, err := SplitFrontmatter([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, fm)
	assert.Equal(t, "# Body\n", string(body))
	assert.Equal(t, "Report", fm.Title)
	require.NotNil(t, fm.JSONTable)
	require.NotNil(t, fm.JSONTable.Ceiling)
	assert.Equal(t, 5, *fm.JSONTable.Ceiling)
	assert.Equal(t, "latin1", fm.JSONTable.Encoding)
	assert.Equal(t, "r.css", fm.JSONTable.Stylesheet)
}

func TestSplitFrontmatterAbsent(t *testing.T) {
	for _, src := range []string{
		"# Just a document\n",
		"---\ntitle: never closed\n",
		"",
	} {
		body, fm, err := SplitFrontmatter([]byte(src))
		require.NoError(t, err)
		assert.Nil(t, fm)
		assert.Equal(t, src, string(body))
	}
}

func TestSplitFrontmatterErrors(t *testing.T) {
	_, _, err := SplitFrontmatter([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse frontmatter")

	_, _, err = SplitFrontmatter([]byte("---\njsontable:\n  ceiling: -1\n---\nbody\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ceiling must be >= 0")
}
