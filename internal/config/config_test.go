package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oscargus/objinv/internal/config"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func writeConfig(t *testing.T, dir string, f config.File) {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvDBPath, "")
}

// ─── Defaults ─────────────────────────────────────────────────────────────────

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	orig, _ := os.Getwd()
	_ = os.Chdir(dir)
	t.Cleanup(func() { _ = os.Chdir(orig) })

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Format != config.DefaultFormat {
		t.Errorf("Format: expected %q, got %q", config.DefaultFormat, cfg.Format)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("Timeout: expected %v, got %v", config.DefaultTimeout, cfg.Timeout)
	}
	if cfg.Concurrency != config.DefaultConcurrency {
		t.Errorf("Concurrency: expected %d, got %d", config.DefaultConcurrency, cfg.Concurrency)
	}
	if cfg.Rate != config.DefaultRate {
		t.Errorf("Rate: expected %g, got %g", config.DefaultRate, cfg.Rate)
	}
	if cfg.Threshold != config.DefaultThreshold {
		t.Errorf("Threshold: expected %d, got %d", config.DefaultThreshold, cfg.Threshold)
	}
	if cfg.DBPath == "" {
		t.Error("DBPath should have a default (home dir based) value")
	}
}

// ─── Config file loading ──────────────────────────────────────────────────────

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	writeConfig(t, dir, config.File{
		DefaultFormat: "json",
		Timeout:       "60s",
		Concurrency:   4,
		Rate:          2.5,
		Threshold:     70,
		DBPath:        "/tmp/test.db",
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Format != "json" {
		t.Errorf("Format: expected json, got %q", cfg.Format)
	}
	if cfg.Timeout.String() != "1m0s" {
		t.Errorf("Timeout: expected 1m0s, got %q", cfg.Timeout.String())
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency: expected 4, got %d", cfg.Concurrency)
	}
	if cfg.Rate != 2.5 {
		t.Errorf("Rate: expected 2.5, got %g", cfg.Rate)
	}
	if cfg.Threshold != 70 {
		t.Errorf("Threshold: expected 70, got %d", cfg.Threshold)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath: expected /tmp/test.db, got %q", cfg.DBPath)
	}
}

func TestLoadConfigPathRecorded(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	writeConfig(t, dir, config.File{DefaultFormat: "json"})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigPath == "" {
		t.Error("ConfigPath should be set when config.json is found")
	}
	if !strings.Contains(cfg.ConfigPath, "config.json") {
		t.Errorf("ConfigPath should contain config.json, got %q", cfg.ConfigPath)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	orig, _ := os.Getwd()
	_ = os.Chdir(dir)
	t.Cleanup(func() { _ = os.Chdir(orig) })

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load without config.json should not error: %v", err)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath should be empty when no file found, got %q", cfg.ConfigPath)
	}
}

func TestLoadInvalidTimeoutIgnored(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	writeConfig(t, dir, config.File{
		Timeout: "not-a-duration",
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("invalid timeout should use default %v, got %v", config.DefaultTimeout, cfg.Timeout)
	}
}

// ─── Environment variable priority ───────────────────────────────────────────

func TestLoadEnvDBPath(t *testing.T) {
	dir := t.TempDir()
	clearEnv(t)
	orig, _ := os.Getwd()
	_ = os.Chdir(dir)
	t.Cleanup(func() { _ = os.Chdir(orig) })
	t.Setenv(config.EnvDBPath, "/custom/path/objinv.db")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/custom/path/objinv.db" {
		t.Errorf("OBJINV_DB_PATH: expected /custom/path/objinv.db, got %q", cfg.DBPath)
	}
}

func TestLoadEnvDBPathOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.File{DBPath: "/from/file.db"})
	t.Setenv(config.EnvDBPath, "/from/env.db")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/from/env.db" {
		t.Errorf("env OBJINV_DB_PATH should override file: expected /from/env.db, got %q", cfg.DBPath)
	}
}

// ─── WriteFile / Template ─────────────────────────────────────────────────────

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	f := config.File{
		DefaultFormat: "csv",
		Timeout:       "45s",
		Concurrency:   6,
		Rate:          3.0,
		Threshold:     60,
		DBPath:        "/data/objinv.db",
	}

	if err := config.WriteFile(path, f); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got config.File
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}

	if got.DefaultFormat != f.DefaultFormat {
		t.Errorf("DefaultFormat: expected %q, got %q", f.DefaultFormat, got.DefaultFormat)
	}
	if got.Timeout != f.Timeout {
		t.Errorf("Timeout: expected %q, got %q", f.Timeout, got.Timeout)
	}
	if got.Concurrency != f.Concurrency {
		t.Errorf("Concurrency: expected %d, got %d", f.Concurrency, got.Concurrency)
	}
	if got.Rate != f.Rate {
		t.Errorf("Rate: expected %g, got %g", f.Rate, got.Rate)
	}
	if got.DBPath != f.DBPath {
		t.Errorf("DBPath: expected %q, got %q", f.DBPath, got.DBPath)
	}
}

func TestWriteFilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := config.WriteFile(path, config.File{DefaultFormat: "table"}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file permissions: expected 0600, got %04o", info.Mode().Perm())
	}
}

func TestWriteFileIsValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := config.WriteFile(path, config.Template()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, _ := os.ReadFile(path)

	var f config.File
	if err := json.Unmarshal(data, &f); err != nil {
		t.Errorf("WriteFile produced invalid JSON: %v", err)
	}
}

func TestTemplateDefaults(t *testing.T) {
	tmpl := config.Template()

	if tmpl.DefaultFormat != "table" {
		t.Errorf("Template.DefaultFormat: expected table, got %q", tmpl.DefaultFormat)
	}
	if tmpl.Timeout != "30s" {
		t.Errorf("Template.Timeout: expected 30s, got %q", tmpl.Timeout)
	}
	if tmpl.Concurrency != config.DefaultConcurrency {
		t.Errorf("Template.Concurrency: expected %d, got %d", config.DefaultConcurrency, tmpl.Concurrency)
	}
	if tmpl.Rate != config.DefaultRate {
		t.Errorf("Template.Rate: expected %g, got %g", config.DefaultRate, tmpl.Rate)
	}
	if tmpl.Threshold != config.DefaultThreshold {
		t.Errorf("Template.Threshold: expected %d, got %d", config.DefaultThreshold, tmpl.Threshold)
	}
}
