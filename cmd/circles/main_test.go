package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recera/circles/cmd/circles/internal/config"
	"github.com/recera/circles/pkg/components/circles"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, circles.Version) {
		t.Errorf("version output %q should mention %s", out, circles.Version)
	}
}

func TestRender_HTMLFromFlags(t *testing.T) {
	out, err := execute(t, "render", "--config", t.TempDir(), "--radius", "50", "--value", "30")
	if err != nil {
		t.Fatal(err)
	}

	geom := circles.NewGeometry(50, 10)
	for _, want := range []string{`width="100"`, geom.ArcPath(30, true), geom.ArcPath(100, false), ">30</div>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_ConfigGraphs(t *testing.T) {
	dir := writeConfig(t, `
graphs:
  - {id: a, radius: 20, value: 10}
  - {id: b, radius: 30, value: 90, text: "{value}!"}
`)

	out, err := execute(t, "render", "--config", dir, "--format", "svg")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out, "<svg"); n != 2 {
		t.Errorf("rendered %d svgs, want 2:\n%s", n, out)
	}
	if strings.Contains(out, "<div") {
		t.Error("svg output should not include the label wrapper")
	}

	out, err = execute(t, "render", "--config", dir, "--id", "b", "--value", "45")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ">45!</div>") {
		t.Errorf("flag should override the config value:\n%s", out)
	}
}

func TestRender_PNG(t *testing.T) {
	dir := writeConfig(t, "graphs: [{id: a, radius: 20, value: 10}, {id: b, radius: 30, value: 90}]")
	file := filepath.Join(t.TempDir(), "b.png")

	if _, err := execute(t, "render", "--config", dir, "--format", "png"); err == nil {
		t.Error("png output of several graphs should fail")
	}

	if _, err := execute(t, "render", "--config", dir, "--id", "b", "--format", "png", "--out", file); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(file)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 60 {
		t.Errorf("png width = %d, want 60", img.Bounds().Dx())
	}
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := [][]string{
		{"render", "--config", dir, "--id", "missing"},
		{"render", "--config", dir, "--format", "gif"},
		{"render", "--config", dir, "--radius=-1"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	if _, err := execute(t, "init", "--dir", dir); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Graphs) == 0 {
		t.Error("starter config should contain a graph")
	}

	if _, err := execute(t, "init", "--dir", dir); err == nil {
		t.Error("init should not overwrite without --force")
	}
	if _, err := execute(t, "init", "--dir", dir, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}
