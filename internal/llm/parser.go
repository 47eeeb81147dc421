package llm

import (
	"encoding/json"
	"strings"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// Parse extracts a structured grading result from the raw service response.
// It never fails: on malformed JSON or a schema violation it returns a
// structurally valid empty result whose Error field carries the failure
// description, so callers always receive something they can aggregate.
func Parse(raw string, rubric *core.Rubric) *core.GradingResult {
	payload := strings.TrimSpace(stripFence(raw))

	var result core.GradingResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		logger.LLMError("Failed to parse grading response: %v", err)
		logger.LLMDebug("Response was: %s", preview(raw, 500))
		return emptyResult("failed to parse grading response: " + err.Error())
	}

	if len(result.GradingResult) == 0 {
		logger.LLMError("Grading response carries no grading_result entries")
		return emptyResult("grading_result missing or empty in service response")
	}

	// The service-reported weight is not trusted: overwrite every entry
	// from the rubric's declared weighting. Unmatched names get weight 0.
	for i := range result.GradingResult {
		entry := &result.GradingResult[i]
		weight, ok := rubric.WeightByName(entry.SubRubric)
		if !ok {
			logger.LLMWarn("Sub-rubric %q from service matches no rubric entry; weight set to 0", entry.SubRubric)
		}
		entry.Weight = weight

		// Defensive clamping: the service could return out-of-range values.
		entry.ScoreAwarded = clamp(entry.ScoreAwarded, 0, 100)
		entry.Confidence = clamp(entry.Confidence, 0, 1)
	}

	result.FinalScore = clamp(result.FinalScore, 0, 100)
	result.OverallConfidence = clamp(result.OverallConfidence, 0, 1)

	return &result
}

// stripFence removes one optional fenced code block around the payload,
// preferring a JSON-tagged fence and falling back to a generic one.
func stripFence(raw string) string {
	if i := strings.Index(raw, "```json"); i >= 0 {
		rest := raw[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	if i := strings.Index(raw, "```"); i >= 0 {
		rest := raw[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			return rest[:j]
		}
		return rest
	}
	return raw
}

func emptyResult(errMsg string) *core.GradingResult {
	return &core.GradingResult{
		GradingResult:     []core.GradeEntry{},
		FinalScore:        0,
		OverallConfidence: 0,
		Error:             errMsg,
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
