package storage

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "sync"
    "time"

    "github.com/jaminalder/codex-queens/internal/domain"
)

const highscoresFile = "highscores.json"

// record is the on-disk shape; StartTime is the primary key.
type record struct {
    StartTime int64 `json:"startTime"`
    AvatarID  int   `json:"avatarId"`
    BoardSize int   `json:"size"`
    GameTime  int64 `json:"gameTime"`
}

func toRecord(h domain.Highscore) record {
    return record{
        StartTime: h.StartTime.UnixMilli(),
        AvatarID:  h.Avatar.ID,
        BoardSize: h.BoardSize,
        GameTime:  int64(h.GameTime / time.Second),
    }
}

// toHighscore returns a highscore whose Avatar carries only the ID.
func (r record) toHighscore() domain.Highscore {
    return domain.Highscore{
        Avatar:    domain.Avatar{ID: r.AvatarID},
        BoardSize: r.BoardSize,
        StartTime: time.UnixMilli(r.StartTime),
        GameTime:  time.Duration(r.GameTime) * time.Second,
    }
}

// upsert replaces any record with the same start time.
func upsert(recs []record, r record) []record {
    for i := range recs {
        if recs[i].StartTime == r.StartTime {
            recs[i] = r
            return recs
        }
    }
    return append(recs, r)
}

// newestFirst orders by start time, descending.
func newestFirst(recs []record) []domain.Highscore {
    sort.SliceStable(recs, func(i, j int) bool { return recs[i].StartTime > recs[j].StartTime })
    out := make([]domain.Highscore, 0, len(recs))
    for _, r := range recs {
        out = append(out, r.toHighscore())
    }
    return out
}

// FS stores highscores as a single JSON document under dir.
type FS struct {
    mu  sync.Mutex
    dir string
}

// NewFS returns a store that keeps its file in dir. The directory is
// created on the first write.
func NewFS(dir string) *FS { return &FS{dir: dir} }

func (s *FS) path() string { return filepath.Join(s.dir, highscoresFile) }

// Upsert records h, replacing any entry with the same start time.
func (s *FS) Upsert(ctx context.Context, h domain.Highscore) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    recs, err := s.read()
    if err != nil {
        return err
    }
    recs = upsert(recs, toRecord(h))
    if err := os.MkdirAll(s.dir, 0o755); err != nil {
        return err
    }
    // replaced atomically via rename
    tmp, err := os.CreateTemp(s.dir, highscoresFile+".*")
    if err != nil {
        return err
    }
    enc := json.NewEncoder(tmp)
    enc.SetIndent("", "  ")
    if err := enc.Encode(recs); err != nil {
        tmp.Close()
        os.Remove(tmp.Name())
        return err
    }
    if err := tmp.Close(); err != nil {
        os.Remove(tmp.Name())
        return err
    }
    return os.Rename(tmp.Name(), s.path())
}

// List returns every stored highscore, newest first. A missing file is
// an empty list.
func (s *FS) List(ctx context.Context) ([]domain.Highscore, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    s.mu.Lock()
    recs, err := s.read()
    s.mu.Unlock()
    if err != nil {
        return nil, err
    }
    return newestFirst(recs), nil
}

func (s *FS) read() ([]record, error) {
    data, err := os.ReadFile(s.path())
    if errors.Is(err, os.ErrNotExist) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    var recs []record
    if err := json.Unmarshal(data, &recs); err != nil {
        return nil, fmt.Errorf("decode %s: %w", s.path(), err)
    }
    return recs, nil
}

// Memory keeps highscores in process; used when no data dir is configured
// and in tests.
type Memory struct {
    mu   sync.Mutex
    recs []record
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory { return &Memory{} }

// Upsert records h, replacing any entry with the same start time.
func (m *Memory) Upsert(ctx context.Context, h domain.Highscore) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    m.mu.Lock()
    defer m.mu.Unlock()
    m.recs = upsert(m.recs, toRecord(h))
    return nil
}

// List returns the recorded highscores, newest first.
func (m *Memory) List(ctx context.Context) ([]domain.Highscore, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    m.mu.Lock()
    recs := append([]record(nil), m.recs...)
    m.mu.Unlock()
    return newestFirst(recs), nil
}
