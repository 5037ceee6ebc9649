package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/pracviz/internal/config"
	"github.com/verte-zerg/pracviz/internal/export"
	"github.com/verte-zerg/pracviz/internal/model"
	"github.com/verte-zerg/pracviz/internal/report"
)

func writeSources(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "data.csv")
	jsonPath := filepath.Join(dir, "data.json")
	if err := os.WriteFile(csvPath, []byte("Instrument,Practice\nPiano,2\nViolin,oops\nCello,1.5\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := os.WriteFile(jsonPath, []byte(`{"data_points": [[1, 40], [2, 65]]}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	return csvPath, jsonPath
}

func isolateXDG(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestReportCommandPrintsSections(t *testing.T) {
	isolateXDG(t)
	csvPath, jsonPath := writeSources(t)
	out, err := execute(t, "report", "--csv", csvPath, "--structured", jsonPath, "--remember=false")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	for _, want := range []string{report.PageTitle, report.BarsTitle, "Selected: Piano, Violin, Cello", "warning: Invalid number"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReportCommandMarkdownWithSelect(t *testing.T) {
	isolateXDG(t)
	csvPath, jsonPath := writeSources(t)
	out, err := execute(t, "report", "--markdown", "--csv", csvPath, "--structured", jsonPath, "--select", "Cello", "--remember=false")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.HasPrefix(out, "# "+report.PageTitle) {
		t.Fatalf("expected raw markdown, got:\n%s", out)
	}
	if !strings.Contains(out, "Selected: Cello") {
		t.Fatalf("expected selection header:\n%s", out)
	}
}

func TestRememberRestoresSelection(t *testing.T) {
	isolateXDG(t)
	csvPath, jsonPath := writeSources(t)

	root := newRootCmd()
	root.SetArgs([]string{"report", "--csv", csvPath, "--structured", jsonPath})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("report failed: %v", err)
	}

	s, err := openSession(root)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	want := model.State{Selection: model.Selection{Instruments: []string{"Violin"}, Set: true}, Threshold: 1}
	s.save(root.Context(), want)
	s.Close()

	out, err := execute(t, "report", "--csv", csvPath, "--structured", jsonPath)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "Selected: Violin") {
		t.Fatalf("expected remembered selection:\n%s", out)
	}
	if !strings.Contains(out, "Showing up to 1 of 2 practice hours") {
		t.Fatalf("expected remembered threshold:\n%s", out)
	}
}

func TestForgetClearsSavedSelection(t *testing.T) {
	isolateXDG(t)
	csvPath, jsonPath := writeSources(t)

	root := newRootCmd()
	root.SetArgs([]string{"report", "--csv", csvPath, "--structured", jsonPath})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	s, err := openSession(root)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	s.save(root.Context(), model.State{Selection: model.Selection{Instruments: []string{"Cello"}, Set: true}})
	s.Close()

	out, err := execute(t, "forget", "--csv", csvPath, "--structured", jsonPath)
	if err != nil {
		t.Fatalf("forget failed: %v", err)
	}
	if !strings.HasPrefix(out, "forgot ") {
		t.Fatalf("unexpected forget output: %q", out)
	}

	out, err = execute(t, "report", "--csv", csvPath, "--structured", jsonPath)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "Selected: Piano, Violin, Cello") {
		t.Fatalf("expected default selection after forget:\n%s", out)
	}
}

func TestExportCommandWritesImages(t *testing.T) {
	isolateXDG(t)
	csvPath, jsonPath := writeSources(t)
	outDir := filepath.Join(t.TempDir(), "charts")
	out, err := execute(t, "export", "--csv", csvPath, "--structured", jsonPath, "--remember=false", "--out", outDir, "--width", "320", "--height", "240")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	for _, name := range []string{export.ScatterFile, export.BarsFile, export.PerformanceFile} {
		path := filepath.Join(outDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
		if !strings.Contains(out, path) {
			t.Fatalf("expected %s in output:\n%s", path, out)
		}
	}
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	isolateXDG(t)
	csvPath, jsonPath := writeSources(t)
	cfgPath := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "[data]\ncsv = " + quote(csvPath) + "\nstructured = " + quote(jsonPath) + "\n\n[dashboard]\nselect = [\"Piano\"]\nremember = false\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := execute(t, "report")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "Selected: Piano") {
		t.Fatalf("expected config selection:\n%s", out)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	meta, err := toml.Decode(defaultConfigTemplate(), &cfg)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	if len(meta.Undecoded()) != 0 {
		t.Fatalf("unexpected keys: %v", meta.Undecoded())
	}
}

func TestNormalizeSelect(t *testing.T) {
	got := normalizeSelect([]string{" Piano", "", "Cello", "Piano"})
	if !reflect.DeepEqual(got, []string{"Piano", "Cello"}) {
		t.Fatalf("unexpected selection %v", got)
	}
	if normalizeSelect([]string{" "}) != nil {
		t.Fatalf("expected nil for blank selection")
	}
}

func TestOrderedSelection(t *testing.T) {
	got := orderedSelection([]string{"Piano", "Violin", "Cello"}, []string{"Cello", "Piano"})
	want := model.Selection{Instruments: []string{"Piano", "Cello"}, Set: true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(model.Config{TabularPath: "a", StructuredPath: "b", Threshold: -1}); err == nil {
		t.Fatalf("expected negative threshold error")
	}
	if err := validateConfig(model.Config{StructuredPath: "b"}); err == nil {
		t.Fatalf("expected empty csv error")
	}
}

func quote(s string) string {
	return "'" + s + "'"
}
