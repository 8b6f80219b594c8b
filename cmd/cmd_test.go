package cmd

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/realjck/scorm-iframe-packager/internal/config"
	"github.com/realjck/scorm-iframe-packager/internal/history"
)

func TestExpandPackageArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yml", "b.yml", "nested/deep/c.yml", "notes.txt"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("title: x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := expandPackageArgs([]string{
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "**", "*.yml"),
	})
	if err != nil {
		t.Fatalf("expandPackageArgs: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 files, got %v", got)
	}
	if got[0] != filepath.Join(dir, "b.yml") {
		t.Errorf("explicit argument should come first, got %v", got)
	}
	for _, p := range got {
		if strings.HasSuffix(p, ".txt") {
			t.Errorf("unexpected match %s", p)
		}
	}

	if _, err := expandPackageArgs([]string{filepath.Join(dir, "*.json")}); err == nil {
		t.Error("expected error for a pattern matching nothing")
	}
}

func TestBuildCommand(t *testing.T) {
	t.Setenv("CI", "1")
	dir := t.TempDir()
	out := filepath.Join(dir, "dist")

	cfg := config.DefaultConfig()
	cfg.OutputDir = out
	cfg.DataDir = filepath.Join(dir, "data")
	cfgPath := filepath.Join(dir, "scormpack.yml")
	if err := cfg.Save(cfgPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"build", "--config", cfgPath, "../testdata/intro.yml", "../testdata/video.json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("build: %v", err)
	}

	zipPath := filepath.Join(out, "Introduction to the intranet.zip")
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("opening %s: %v", zipPath, err)
	}
	defer zr.Close()
	if zr.File[0].Name != "index.html" || zr.File[1].Name != "imsmanifest.xml" {
		t.Errorf("unexpected entry order: %s, %s", zr.File[0].Name, zr.File[1].Name)
	}

	if _, err := os.Stat(filepath.Join(out, "Product demo.zip")); err != nil {
		t.Errorf("2004 package missing: %v", err)
	}
	if !strings.Contains(stdout.String(), "Product demo.zip") {
		t.Errorf("stdout = %q", stdout.String())
	}

	stdout.Reset()
	rootCmd.SetArgs([]string{"history", "--config", cfgPath, "--json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("history: %v", err)
	}
	var records []history.Record
	if err := json.Unmarshal(stdout.Bytes(), &records); err != nil {
		t.Fatalf("decoding history output: %v\n%s", err, stdout.String())
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(records))
	}
	for _, r := range records {
		if r.Status != history.StatusSucceeded {
			t.Errorf("record %s status = %s", r.Name, r.Status)
		}
	}
}

func TestManifestCommand(t *testing.T) {
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"manifest", "../testdata/video.json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if !strings.Contains(stdout.String(), "2004 4th Edition") {
		t.Errorf("expected a 2004 manifest, got:\n%s", stdout.String())
	}
}

func TestBuildCommandSameTitleDoesNotOverwrite(t *testing.T) {
	t.Setenv("CI", "1")
	dir := t.TempDir()
	out := filepath.Join(dir, "dist")

	cfg := config.DefaultConfig()
	cfg.OutputDir = out
	cfg.History.Enabled = false
	cfgPath := filepath.Join(dir, "scormpack.yml")
	if err := cfg.Save(cfgPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	src, err := os.ReadFile("../testdata/intro.yml")
	if err != nil {
		t.Fatal(err)
	}
	var defs []string
	for _, name := range []string{"first.yml", "second.yml"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, src, 0o644); err != nil {
			t.Fatal(err)
		}
		defs = append(defs, p)
	}

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs(append([]string{"build", "--config", cfgPath}, defs...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, name := range []string{"Introduction to the intranet.zip", "Introduction to the intranet-2.zip"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}
