// Package config loads server settings and the avatar catalog from an
// optional HCL file.
package config

import (
    "errors"
    "fmt"
    "log/slog"
    "strings"

    "github.com/hashicorp/hcl/v2"
    "github.com/hashicorp/hcl/v2/gohcl"
    "github.com/hashicorp/hcl/v2/hclparse"
    "github.com/jaminalder/codex-queens/internal/domain"
)

// Defaults used when a setting is absent.
const (
    DefaultAddr     = ":8080"
    DefaultDataDir  = "./data"
    DefaultLogLevel = "info"
    DefaultMinSize  = 4
    DefaultMaxSize  = 8
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the fully resolved application configuration.
type Config struct {
    Addr     string
    DataDir  string
    LogLevel string
    MinSize  int
    MaxSize  int
    Avatars  []domain.Avatar
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
    switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
    case "debug":
        return slog.LevelDebug
    case "warn":
        return slog.LevelWarn
    case "error":
        return slog.LevelError
    default:
        return slog.LevelInfo
    }
}

type hclFile struct {
    Server  *hclServer   `hcl:"server,block"`
    Board   *hclBoard    `hcl:"board,block"`
    Avatars []*hclAvatar `hcl:"avatar,block"`
}

type hclServer struct {
    Addr     string `hcl:"addr,optional"`
    DataDir  string `hcl:"data_dir,optional"`
    LogLevel string `hcl:"log_level,optional"`
}

type hclBoard struct {
    MinSize int `hcl:"min_size,optional"`
    MaxSize int `hcl:"max_size,optional"`
}

type hclAvatar struct {
    Name  string `hcl:"name,label"`
    ID    int    `hcl:"id"`
    Bio   string `hcl:"bio,optional"`
    Image string `hcl:"image,optional"`
}

// Default returns the built-in configuration.
func Default() *Config {
    return &Config{
        Addr:     DefaultAddr,
        DataDir:  DefaultDataDir,
        LogLevel: DefaultLogLevel,
        MinSize:  DefaultMinSize,
        MaxSize:  DefaultMaxSize,
        Avatars:  DefaultAvatars(),
    }
}

// Load reads the HCL file at path. An empty path yields Default().
func Load(path string) (*Config, error) {
    if path == "" {
        return Default(), nil
    }
    parser := hclparse.NewParser()
    f, diags := parser.ParseHCLFile(path)
    if diags.HasErrors() {
        return nil, fmt.Errorf("failed to parse config %s: %w", path, diags)
    }
    return decode(f, path)
}

// Parse decodes HCL source; filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
    parser := hclparse.NewParser()
    f, diags := parser.ParseHCL(src, filename)
    if diags.HasErrors() {
        return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
    }
    return decode(f, filename)
}

func decode(f *hcl.File, filename string) (*Config, error) {
    var raw hclFile
    if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
        return nil, fmt.Errorf("failed to decode config %s: %w", filename, diags)
    }

    cfg := Default()
    if s := raw.Server; s != nil {
        if s.Addr != "" {
            cfg.Addr = s.Addr
        }
        if s.DataDir != "" {
            cfg.DataDir = s.DataDir
        }
        if s.LogLevel != "" {
            cfg.LogLevel = s.LogLevel
        }
    }
    if b := raw.Board; b != nil {
        if b.MinSize != 0 {
            cfg.MinSize = b.MinSize
        }
        if b.MaxSize != 0 {
            cfg.MaxSize = b.MaxSize
        }
    }
    if len(raw.Avatars) > 0 {
        cfg.Avatars = make([]domain.Avatar, 0, len(raw.Avatars))
        for _, a := range raw.Avatars {
            cfg.Avatars = append(cfg.Avatars, domain.Avatar{ID: a.ID, Name: a.Name, Bio: a.Bio, Image: a.Image})
        }
    }
    if err := cfg.Validate(); err != nil {
        return nil, fmt.Errorf("%s: %w", filename, err)
    }
    return cfg, nil
}

// Validate checks board limits and avatar uniqueness.
func (c *Config) Validate() error {
    if c.MinSize < 1 {
        return fmt.Errorf("%w: board min_size %d must be positive", ErrInvalid, c.MinSize)
    }
    if c.MaxSize < c.MinSize {
        return fmt.Errorf("%w: board max_size %d below min_size %d", ErrInvalid, c.MaxSize, c.MinSize)
    }
    if len(c.Avatars) == 0 {
        return fmt.Errorf("%w: no avatars", ErrInvalid)
    }
    seen := make(map[int]string, len(c.Avatars))
    for _, a := range c.Avatars {
        if prev, ok := seen[a.ID]; ok {
            return fmt.Errorf("%w: avatar id %d used by %q and %q", ErrInvalid, a.ID, prev, a.Name)
        }
        seen[a.ID] = a.Name
    }
    return nil
}
