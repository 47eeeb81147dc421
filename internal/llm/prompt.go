package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arkanhadi/ragrader/internal/core"
)

// gradingPromptTemplate is the instruction document sent to the grading
// service. The text is part of the wire contract and must not drift: the
// service is expected to evaluate every sub-rubric, pick numeric scores
// inside the matching level range, cite evidence, and answer with exactly one
// JSON object of the fixed schema.
const gradingPromptTemplate = `
Anda adalah sistem auto-grading untuk Learning Management System (LMS).
Tugas Anda adalah menilai laporan mahasiswa berdasarkan **rubrik penilaian (JSON)** dan **evidence dari hasil pencarian dokumen (RAG)**.

Gunakan *hanya informasi dari evidence di bawah ini* sebagai dasar penilaian.
JANGAN mengarang isi di luar evidence.

---

### 📘 RUBRIK PENILAIAN (JSON)
%s

---

### 📄 EVIDENCE DARI LAPORAN (hasil pencarian RAG)
Gunakan bagian-bagian teks berikut untuk mendukung setiap penilaian:
%s

---

### 📋 INSTRUKSI PENILAIAN
1. Evaluasi **SEMUA sub-rubrik** yang ada pada rubrik JSON, jangan ada yang dilewatkan.
2. Setiap level memiliki rentang nilai (` + "`score_range`" + `). Pilih **nilai numerik** dalam rentang itu, bukan hanya ujungnya.
   - Contoh: jika sesuai level B (61–80), boleh kasih 70 atau 75 tergantung kualitas.
   - Jika isi tidak mencukupi, tetap tampilkan sub-rubrik tersebut dengan level terendah dan beri alasan.
3. Gunakan bukti dari bagian *Evidence* di atas untuk setiap keputusan penilaian.
   - Jika ada kalimat pendukung, sebutkan ringkas potongan teks evidence yang relevan.
4. Sertakan alasan singkat (1–3 kalimat) yang berdasarkan evidence.
5. Cantumkan bobot (` + "`assignment_sub_rubrics.weight`" + `).
6. Hitung nilai total berdasarkan skor × bobot.
7. Tambahkan confidence score untuk setiap sub-rubrik dan keseluruhan (` + "`overall_confidence`" + `).

---

### 📤 FORMAT OUTPUT WAJIB (JSON)
Jawaban akhir **HARUS** mengikuti struktur JSON berikut:

{
  "grading_result": [
    {
      "sub_rubric": "Nama Sub Rubrik",
      "selected_level": "A/B/C/...",
      "score_awarded": 0-100,
      "weight": 0-100,
      "reason": "alasan singkat berdasarkan evidence",
      "evidence_quote": "potongan teks relevan dari evidence",
      "confidence": 0.0-1.0
    }
  ],
  "final_score": 0-100,
  "overall_confidence": 0.0-1.0
}

Output tidak boleh berisi penjelasan tambahan di luar struktur JSON.
`

// BuildGradingPrompt renders the rubric and the evidence block into the
// instruction document.
func BuildGradingPrompt(rubric *core.Rubric, evidence string) (string, error) {
	rubricJSON, err := marshalRubric(rubric)
	if err != nil {
		return "", fmt.Errorf("failed to serialize rubric: %w", err)
	}
	return fmt.Sprintf(gradingPromptTemplate, rubricJSON, evidence), nil
}

// marshalRubric serializes the rubric indented and without HTML escaping, so
// the service sees the rubric text exactly as authored.
func marshalRubric(rubric *core.Rubric) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rubric); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
