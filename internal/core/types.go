package core

// Shared types for the grading pipeline. Kept here so that the rag, llm and
// grade packages can exchange them without import cycles.

// Rubric mirrors the rubric JSON loaded once per batch run. It is immutable
// after loading.
type Rubric struct {
	Rubric               RubricInfo  `json:"rubric"`
	SubRubrics           []SubRubric `json:"sub_rubrics"`
	AssignmentSubRubrics []Weighting `json:"assignment_sub_rubrics"`
}

// RubricInfo describes the rubric as a whole.
type RubricInfo struct {
	Name        string `json:"name,omitempty"`
	Course      string `json:"course,omitempty"`
	Description string `json:"description,omitempty"`
}

// SubRubric is a single named criterion within a rubric.
type SubRubric struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Levels      []RubricLevel `json:"levels,omitempty"`
}

// RubricLevel is one achievement level of a sub-rubric, with the numeric
// range a score for that level must fall into.
type RubricLevel struct {
	Level       string    `json:"level"`
	Description string    `json:"description,omitempty"`
	ScoreRange  []float64 `json:"score_range,omitempty"`
}

// Weighting maps a sub-rubric id to its weight (0-100). Weights across a
// rubric are expected to sum to 100; a violation degrades the meaning of the
// final score but is not fatal.
type Weighting struct {
	SubRubricID int     `json:"sub_rubric_id"`
	Weight      float64 `json:"weight"`
}

// WeightByName returns the declared weight for the first sub-rubric whose
// name equals name. The boolean reports whether a match was found.
func (r *Rubric) WeightByName(name string) (float64, bool) {
	weights := make(map[int]float64, len(r.AssignmentSubRubrics))
	for _, w := range r.AssignmentSubRubrics {
		weights[w.SubRubricID] = w.Weight
	}
	for _, sr := range r.SubRubrics {
		if sr.Name == name {
			return weights[sr.ID], true
		}
	}
	return 0, false
}

// GradeEntry is the judgment for a single sub-rubric as returned by the
// grading service. The weight field is overwritten by the pipeline from the
// rubric; the service-reported value is not trusted.
type GradeEntry struct {
	SubRubric     string  `json:"sub_rubric"`
	SelectedLevel string  `json:"selected_level"`
	ScoreAwarded  float64 `json:"score_awarded"`
	Weight        float64 `json:"weight"`
	Reason        string  `json:"reason"`
	EvidenceQuote string  `json:"evidence_quote"`
	Confidence    float64 `json:"confidence"`
}

// GradingResult is the complete judgment for one document. DocumentInfo is
// attached by the orchestrator after grading; the grading service never
// produces it.
type GradingResult struct {
	GradingResult     []GradeEntry  `json:"grading_result"`
	FinalScore        float64       `json:"final_score"`
	OverallConfidence float64       `json:"overall_confidence"`
	Error             string        `json:"error,omitempty"`
	DocumentInfo      *DocumentInfo `json:"document_info,omitempty"`
}

// DocumentInfo carries provenance for a graded document.
type DocumentInfo struct {
	Filename    string            `json:"filename"`
	PageCount   int               `json:"page_count"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ProcessedAt string            `json:"processed_at"`
}

// ExtractedDocument is the output of the text-extraction collaborator: plain
// text plus best-effort heuristic metadata. An empty Text means the document
// is unusable and must be skipped, not treated as an error.
type ExtractedDocument struct {
	Text      string            `json:"text"`
	Filename  string            `json:"filename"`
	PageCount int               `json:"page_count"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// StoredDocument is a chunk persisted in the optional remote vector store.
type StoredDocument struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Source     string            `json:"source,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreateTime int64             `json:"create_time,omitempty"`
}

// StoreSearchResult pairs a stored document with its similarity score.
type StoreSearchResult struct {
	Document StoredDocument `json:"document"`
	Score    float32        `json:"score"`
}
