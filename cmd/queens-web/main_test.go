package main

import (
    "bytes"
    "os"
    "path/filepath"
    "testing"

    "github.com/jaminalder/codex-queens/internal/config"
    "github.com/jaminalder/codex-queens/internal/storage"
)

func TestFlagsOverrideConfigFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "queens.hcl")
    src := "server {\n  addr = \":7000\"\n  log_level = \"warn\"\n}\n"
    if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    o, err := parseFlags([]string{"-config", path, "-addr", ":9999", "-data", "/srv/q"}, &bytes.Buffer{})
    if err != nil {
        t.Fatalf("parseFlags: %v", err)
    }
    cfg, err := loadConfig(o)
    if err != nil {
        t.Fatalf("loadConfig: %v", err)
    }
    if cfg.Addr != ":9999" || cfg.DataDir != "/srv/q" || cfg.LogLevel != "warn" {
        t.Fatalf("unexpected config: %+v", cfg)
    }
}

func TestDefaultsWithoutConfig(t *testing.T) {
    o, err := parseFlags(nil, &bytes.Buffer{})
    if err != nil {
        t.Fatalf("parseFlags: %v", err)
    }
    cfg, err := loadConfig(o)
    if err != nil {
        t.Fatalf("loadConfig: %v", err)
    }
    if cfg.Addr != config.DefaultAddr || len(cfg.Avatars) != 4 {
        t.Fatalf("unexpected defaults: %+v", cfg)
    }
}

func TestNewStoreSelection(t *testing.T) {
    cfg := config.Default()
    if _, ok := newStore(options{memory: true}, cfg).(*storage.Memory); !ok {
        t.Fatalf("expected memory store")
    }
    if _, ok := newStore(options{}, cfg).(*storage.FS); !ok {
        t.Fatalf("expected file store")
    }
}

func TestRunRejectsBadConfig(t *testing.T) {
    if err := run([]string{"-config", filepath.Join(t.TempDir(), "missing.hcl")}, &bytes.Buffer{}); err == nil {
        t.Fatalf("expected error for missing config file")
    }
    if err := run([]string{"-h"}, &bytes.Buffer{}); err != nil {
        t.Fatalf("expected -h to exit cleanly, got %v", err)
    }
}
