package grade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rubricJSON = `{
	"rubric": {"name": "Laporan Praktikum", "course": "Jaringan Komputer"},
	"sub_rubrics": [
		{"id": 1, "name": "Pendahuluan", "description": "Latar belakang", "levels": [
			{"level": "A", "description": "Sangat baik", "score_range": [81, 100]},
			{"level": "B", "description": "Baik", "score_range": [61, 80]}
		]},
		{"id": 2, "name": "Metodologi", "description": "Langkah percobaan"}
	],
	"assignment_sub_rubrics": [
		{"sub_rubric_id": 1, "weight": 40},
		{"sub_rubric_id": 2, "weight": 60}
	]
}`

func writeRubric(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rubrik.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRubric(t *testing.T) {
	rubric, err := LoadRubric(writeRubric(t, rubricJSON))
	require.NoError(t, err)

	assert.Equal(t, "Laporan Praktikum", rubric.Rubric.Name)
	require.Len(t, rubric.SubRubrics, 2)
	assert.Equal(t, "Pendahuluan", rubric.SubRubrics[0].Name)
	require.Len(t, rubric.SubRubrics[0].Levels, 2)
	assert.Equal(t, []float64{81, 100}, rubric.SubRubrics[0].Levels[0].ScoreRange)

	weight, ok := rubric.WeightByName("Metodologi")
	require.True(t, ok)
	assert.Equal(t, 60.0, weight)
}

func TestLoadRubricMissingFile(t *testing.T) {
	_, err := LoadRubric(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadRubricInvalidJSON(t *testing.T) {
	_, err := LoadRubric(writeRubric(t, "{not json"))
	assert.Error(t, err)
}

func TestLoadRubricNoSubRubrics(t *testing.T) {
	_, err := LoadRubric(writeRubric(t, `{"rubric": {"name": "x"}, "sub_rubrics": []}`))
	assert.Error(t, err)
}

func TestWeightByNameUnknown(t *testing.T) {
	rubric, err := LoadRubric(writeRubric(t, rubricJSON))
	require.NoError(t, err)

	weight, ok := rubric.WeightByName("Kesimpulan")
	assert.False(t, ok)
	assert.Zero(t, weight)
}
