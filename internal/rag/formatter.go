package rag

import "strings"

// evidenceSeparator visually separates chunks inside the prompt's evidence
// block.
const evidenceSeparator = "\n\n---\n\n"

// MaxEvidenceChunks bounds the evidence block embedded in the service
// prompt, and with it the request payload size.
const MaxEvidenceChunks = 10

// DedupeEvidence unions evidence lists with first-seen-wins deduplication by
// exact string equality, preserving order.
func DedupeEvidence(lists ...[]string) []string {
	var merged []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			merged = append(merged, item)
			seen[item] = struct{}{}
		}
	}
	return merged
}

// FormatEvidence joins at most MaxEvidenceChunks evidence chunks into the
// block the prompt embeds.
func FormatEvidence(evidence []string) string {
	if len(evidence) > MaxEvidenceChunks {
		evidence = evidence[:MaxEvidenceChunks]
	}
	return strings.Join(evidence, evidenceSeparator)
}
