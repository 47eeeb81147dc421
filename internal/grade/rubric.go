package grade

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// LoadRubric reads the rubric JSON. The rubric is loaded once per batch run
// and is immutable afterwards.
func LoadRubric(path string) (*core.Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric file %s: %w", path, err)
	}

	var rubric core.Rubric
	if err := json.Unmarshal(data, &rubric); err != nil {
		return nil, fmt.Errorf("failed to decode rubric %s: %w", path, err)
	}
	if len(rubric.SubRubrics) == 0 {
		return nil, fmt.Errorf("rubric %s declares no sub-rubrics", path)
	}

	var total float64
	for _, w := range rubric.AssignmentSubRubrics {
		total += w.Weight
	}
	if total != 100 {
		// Not fatal, but the final score loses its meaning.
		logger.Warn("Rubric weights sum to %g, not 100; final scores will be skewed", total)
	}

	logger.Info("Rubric loaded: %s (%d sub-rubrics)", rubric.Rubric.Course, len(rubric.SubRubrics))
	return &rubric, nil
}
