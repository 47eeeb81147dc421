// Package extract implements the document-source collaborator boundary. PDF
// byte decoding itself lives outside this repository; the shipped extractor
// reads plain-text files a decoder has already produced, with form feeds as
// page breaks, and applies the same heuristic metadata scan the PDF
// collaborator uses.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arkanhadi/ragrader/internal/core"
	"github.com/arkanhadi/ragrader/internal/logger"
)

// metadataScanLines bounds how deep into a document the metadata heuristics
// look. Identity lines sit at the top of a lab report.
const metadataScanLines = 20

// TextExtractor reads pre-extracted plain-text documents from the
// filesystem.
type TextExtractor struct{}

// NewTextExtractor creates a filesystem-backed extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Discover lists the .txt documents under folder in lexical order.
func (e *TextExtractor) Discover(folder string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(folder, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan folder %s: %w", folder, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Extract reads one document and derives page count and heuristic metadata.
// An unreadable or empty file yields an ExtractedDocument with empty Text;
// the orchestrator skips it.
func (e *TextExtractor) Extract(path string) (*core.ExtractedDocument, error) {
	logger.Info("Extracting document: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	filename := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	// Form feed is the conventional page separator in extracted text.
	var pages []string
	for _, p := range strings.Split(string(data), "\f") {
		if strings.TrimSpace(p) != "" {
			pages = append(pages, strings.TrimSpace(p))
		}
	}
	text := strings.Join(pages, "\n")

	doc := &core.ExtractedDocument{
		Text:      text,
		Filename:  filename,
		PageCount: len(pages),
		Metadata:  scanMetadata(text, filename),
	}

	logger.Info("Extracted %d pages from %s (%d characters)", doc.PageCount, filename, len(text))
	return doc, nil
}

// scanMetadata pulls group/student identity lines out of the document head.
// Lab reports carry these in the first lines; the filename is the fallback
// group label.
func scanMetadata(text, filename string) map[string]string {
	metadata := map[string]string{
		"kelompok":       filename,
		"extracted_from": "filename",
	}

	lines := strings.Split(text, "\n")
	if len(lines) > metadataScanLines {
		lines = lines[:metadataScanLines]
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "kelompok"):
			metadata["kelompok"] = strings.TrimSpace(line)
			metadata["extracted_from"] = "text"
		case strings.Contains(lower, "nim"):
			metadata["nim"] = strings.TrimSpace(line)
		case strings.Contains(lower, "nama"):
			metadata["nama"] = strings.TrimSpace(line)
		}
	}

	return metadata
}
