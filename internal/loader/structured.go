package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/pracviz/internal/model"
)

const dataPointsKey = "data_points"

func formatLabel(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func readDocument(path string) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, err
	}
	if isYAML(path) {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) (model.Document, error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return model.Document{}, err
	}
	return documentFromTop(top)
}

func decodeYAML(data []byte) (model.Document, error) {
	var top any
	if err := yaml.Unmarshal(data, &top); err != nil {
		return model.Document{}, err
	}
	return documentFromTop(top)
}

// documentFromTop looks up data_points in a decoded document. A document
// that is not a mapping (null, an array, a scalar) has no data_points.
func documentFromTop(top any) (model.Document, error) {
	fields, ok := top.(map[string]any)
	if !ok {
		return model.Document{}, nil
	}
	value, ok := fields[dataPointsKey]
	if !ok {
		return model.Document{}, nil
	}
	return documentFrom(value)
}

func documentFrom(value any) (model.Document, error) {
	if value == nil {
		return model.Document{}, nil
	}
	items, ok := value.([]any)
	if !ok {
		return model.Document{}, fmt.Errorf("%s must be an array, got %T", dataPointsKey, value)
	}
	points := make([][]any, 0, len(items))
	for _, item := range items {
		pair, ok := item.([]any)
		if !ok {
			points = append(points, []any{item})
			continue
		}
		points = append(points, pair)
	}
	return model.Document{DataPoints: model.DataPoints{Present: true, Points: points}}, nil
}
