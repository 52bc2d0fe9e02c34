package export

import (
	"fmt"
	"path/filepath"
	"time"
)

// Supported formats
const (
	FormatJSON  = "json"
	FormatExcel = "xlsx"
)

// FileName is the export file name for a run
func FileName(generatedAt time.Time, runID, format string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	name := "portfolio-analysis-" + generatedAt.Format("2006-01-02-150405")
	if short != "" {
		name += "-" + short
	}
	return name + "." + format
}

// All writes doc in every requested format under dir and returns the
// written paths keyed by format
func All(dir string, formats []string, doc Document) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	for _, format := range formats {
		path := filepath.Join(dir, FileName(doc.GeneratedAt, doc.RunID, format))

		var err error
		switch format {
		case FormatJSON:
			err = WriteJSON(path, doc)
		case FormatExcel:
			err = WriteWorkbook(path, doc.Rollup, doc.Profiles)
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}
		if err != nil {
			return paths, err
		}
		paths[format] = path
	}
	return paths, nil
}
