// Package export writes portfolio analyses to files analysts can open.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ibeckermayer/portfoliowatch/internal/types"
)

// Document is the JSON export layout
type Document struct {
	RunID       string                 `json:"run_id,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
	Rollup      types.PortfolioRollup  `json:"rollup"`
	Profiles    []types.CompanyProfile `json:"profiles,omitempty"`
}

// WriteJSON writes doc to path, creating parent directories
func WriteJSON(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	return nil
}

// ReadJSON loads a document written by WriteJSON
func ReadJSON(path string) (Document, error) {
	var doc Document

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to unmarshal export: %w", err)
	}

	return doc, nil
}
