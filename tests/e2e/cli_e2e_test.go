package main_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func runHs(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(hsBinary(t), args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	out, err := runHs(t, t.TempDir(), "--version")
	if err != nil {
		t.Fatalf("--version failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "hs v") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestRobotSceneDiscoversDataCSV(t *testing.T) {
	dir, _ := writeDataset(t)
	out, err := runHs(t, dir, "--robot-scene", "--y", "obesity")
	if err != nil {
		t.Fatalf("--robot-scene failed: %v\n%s", err, out)
	}

	var scene struct {
		Markers []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
			Y  float64 `json:"y"`
		} `json:"markers"`
		Selectors []struct {
			Tag    string `json:"tag"`
			Active bool   `json:"active"`
		} `json:"selectors"`
	}
	if err := json.Unmarshal([]byte(out), &scene); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(scene.Markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(scene.Markers))
	}
	active := map[string]bool{}
	for _, s := range scene.Selectors {
		if s.Active {
			active[s.Tag] = true
		}
	}
	if len(active) != 2 || !active["poverty"] || !active["obesity"] {
		t.Errorf("active selectors = %v, want poverty and obesity", active)
	}
}

func TestRobotTooltip(t *testing.T) {
	dir, data := writeDataset(t)
	out, err := runHs(t, dir, "--data", data, "--robot-tooltip", "CA")
	if err != nil {
		t.Fatalf("--robot-tooltip failed: %v\n%s", err, out)
	}
	want := "California<hr>Poverty: 10%<br>Lacks Healthcare: 12.1%"
	if strings.TrimSpace(out) != want {
		t.Errorf("tooltip = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestMissingDataExitsNonZero(t *testing.T) {
	out, err := runHs(t, t.TempDir(), "--data", "missing.csv", "--robot-scene")
	var exitErr *exec.ExitError
	if err == nil || !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit 1, got %v\n%s", err, out)
	}
	if !strings.Contains(out, "loading data") {
		t.Errorf("output should explain the failure: %q", out)
	}
}

func TestExportDir(t *testing.T) {
	dir, data := writeDataset(t)
	outDir := filepath.Join(dir, "out")
	out, err := runHs(t, dir, "--data", data, "--export-dir", outDir, "--x", "income")
	if err != nil {
		t.Fatalf("--export-dir failed: %v\n%s", err, out)
	}
	for _, ext := range []string{"svg", "png", "html"} {
		p := filepath.Join(outDir, "health-scatter."+ext)
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
	page, err := os.ReadFile(filepath.Join(outDir, "health-scatter.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), `"initial_x":"income"`) {
		t.Error("html export should start on the income axis")
	}
}

func TestTUIAutoClose(t *testing.T) {
	skipIfNoScript(t)
	dir, data := writeDataset(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, hsBinary(t), "--data", data)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "HS_TUI_AUTOCLOSE_MS=300")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		t.Fatal("hs did not exit after HS_TUI_AUTOCLOSE_MS")
	}
	if err != nil {
		t.Fatalf("TUI run failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "Lacks Healthcare") {
		t.Errorf("TUI output should include the Y selector titles")
	}
}
