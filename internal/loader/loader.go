// Package loader reads the tabular and structured practice sources.
package loader

import (
	"fmt"
	"os"

	"github.com/verte-zerg/pracviz/internal/model"
)

// Load reads both sources. It never fails: a missing, empty, or malformed
// source yields an empty result plus a diagnostic naming it.
func Load(tabularPath, structuredPath string) (model.Table, model.Document, []model.Diagnostic) {
	var diags []model.Diagnostic
	table, tabDiags := LoadTabular(tabularPath)
	diags = append(diags, tabDiags...)
	doc, docDiags := LoadStructured(structuredPath)
	diags = append(diags, docDiags...)
	return table, doc, diags
}

// LoadTabular reads the CSV source.
func LoadTabular(path string) (model.Table, []model.Diagnostic) {
	if !usable(path) {
		return model.Table{}, []model.Diagnostic{
			model.Warning(model.KindMissingSource, path, "CSV file missing or empty"),
		}
	}
	table, err := readCSV(path)
	if err != nil {
		return model.Table{}, []model.Diagnostic{
			model.Error(model.KindParseFailure, path, fmt.Sprintf("Error reading CSV: %v", err)),
		}
	}
	return table, nil
}

// LoadStructured reads the JSON or YAML source.
func LoadStructured(path string) (model.Document, []model.Diagnostic) {
	label := formatLabel(path)
	if !usable(path) {
		return model.Document{}, []model.Diagnostic{
			model.Warning(model.KindMissingSource, path, label+" file missing or empty"),
		}
	}
	doc, err := readDocument(path)
	if err != nil {
		return model.Document{}, []model.Diagnostic{
			model.Error(model.KindParseFailure, path, fmt.Sprintf("Error reading %s: %v", label, err)),
		}
	}
	return doc, nil
}

// usable reports whether path names a regular, non-empty file.
func usable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}
