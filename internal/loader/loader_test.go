package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pracviz/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTabularStripsHeaderWhitespace(t *testing.T) {
	path := writeFile(t, "data.csv", " Instrument , Practice \nPiano,2.5\nViolin,x\n")

	table, diags := LoadTabular(path)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"Instrument", "Practice"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Violin", "x"}, table.Rows[1])
}

func TestLoadTabularMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	table, diags := LoadTabular(path)
	assert.True(t, table.Empty())
	require.Len(t, diags, 1)
	assert.Equal(t, model.LevelWarning, diags[0].Level)
	assert.Equal(t, model.KindMissingSource, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "CSV")
}

func TestLoadTabularEmptyFile(t *testing.T) {
	path := writeFile(t, "data.csv", "")

	table, diags := LoadTabular(path)
	assert.True(t, table.Empty())
	require.Len(t, diags, 1)
	assert.Equal(t, model.KindMissingSource, diags[0].Kind)
}

func TestLoadTabularKeepsShortRows(t *testing.T) {
	path := writeFile(t, "data.csv", "Instrument,Practice\nPiano,2.5\nCello,4\nViolin\n")

	table, diags := LoadTabular(path)
	assert.Empty(t, diags)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Violin", table.Cell(2, 0))
	assert.Equal(t, "", table.Cell(2, 1))
}

func TestLoadTabularMalformed(t *testing.T) {
	path := writeFile(t, "data.csv", "Instrument,Practice\nPiano,2,extra\n")

	table, diags := LoadTabular(path)
	assert.True(t, table.Empty())
	assert.Empty(t, table.Columns)
	require.Len(t, diags, 1)
	assert.Equal(t, model.LevelError, diags[0].Level)
	assert.Equal(t, model.KindParseFailure, diags[0].Kind)
	assert.Equal(t, path, diags[0].Source)
}

func TestLoadStructuredJSON(t *testing.T) {
	path := writeFile(t, "data.json", `{"title":"x","data_points":[[1,3.5],[2,"4"],[3]]}`)

	doc, diags := LoadStructured(path)
	assert.Empty(t, diags)
	require.True(t, doc.DataPoints.Present)
	require.Len(t, doc.DataPoints.Points, 3)
	assert.Equal(t, []any{float64(1), 3.5}, doc.DataPoints.Points[0])
	assert.Equal(t, []any{float64(3)}, doc.DataPoints.Points[2])
}

func TestLoadStructuredYAML(t *testing.T) {
	path := writeFile(t, "data.yaml", "data_points:\n  - [1, 2.5]\n  - [4, 8]\n")

	doc, diags := LoadStructured(path)
	assert.Empty(t, diags)
	require.True(t, doc.DataPoints.Present)
	assert.Len(t, doc.DataPoints.Points, 2)
}

func TestLoadStructuredWithoutDataPoints(t *testing.T) {
	path := writeFile(t, "data.json", `{"other":[1,2]}`)

	doc, diags := LoadStructured(path)
	assert.Empty(t, diags)
	assert.True(t, doc.Empty())
}

func TestLoadStructuredMalformed(t *testing.T) {
	path := writeFile(t, "data.json", `{"data_points": [[1,2],`)

	doc, diags := LoadStructured(path)
	assert.True(t, doc.Empty())
	require.Len(t, diags, 1)
	assert.Equal(t, model.KindParseFailure, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "Error reading JSON")
}

func TestLoadStructuredWrongShape(t *testing.T) {
	path := writeFile(t, "data.json", `{"data_points": {"a": 1}}`)

	doc, diags := LoadStructured(path)
	assert.True(t, doc.Empty())
	require.Len(t, diags, 1)
	assert.Equal(t, model.KindParseFailure, diags[0].Kind)
}

func TestLoadStructuredNonMappingSkips(t *testing.T) {
	cases := map[string]string{
		"null.json":  "null",
		"null.yaml":  "null\n",
		"array.json": "[[1, 2], [3, 4]]",
		"array.yaml": "- [1, 2]\n- [3, 4]\n",
		"scalar.yml": "42\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, content)

			doc, diags := LoadStructured(path)
			assert.Empty(t, diags)
			assert.True(t, doc.Empty())
		})
	}
}

func TestLoadBothMissing(t *testing.T) {
	dir := t.TempDir()

	table, doc, diags := Load(filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.json"))
	assert.True(t, table.Empty())
	assert.True(t, doc.Empty())
	require.Len(t, diags, 2)
	assert.Contains(t, diags[0].Message, "CSV")
	assert.Contains(t, diags[1].Message, "JSON")
}
