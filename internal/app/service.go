package app

import (
    "context"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "sync"
    "time"

    "github.com/jaminalder/codex-queens/internal/domain"
)

// Errors exposed by the service layer.
var (
    ErrNotFound      = errors.New("game not found")
    ErrUnknownAvatar = errors.New("unknown avatar")
    ErrInvalidSize   = errors.New("invalid board size")
    ErrOutOfBounds   = errors.New("out of bounds")
    ErrGameFinished  = errors.New("game finished")
    ErrNotAPlayer    = errors.New("not a player")
)

// Default board size limits.
const (
    MinBoardSize = 4
    MaxBoardSize = 8
)

// Status is the lifecycle of a game session.
type Status uint8

const (
    InProgress Status = iota
    Finished
)

func (s Status) String() string {
    if s == Finished {
        return "finished"
    }
    return "in progress"
}

// Outcome describes what a click did to the board.
type Outcome uint8

const (
    Placed Outcome = iota
    Removed
    Blocked
)

func (o Outcome) String() string {
    switch o {
    case Removed:
        return "removed"
    case Blocked:
        return "blocked"
    default:
        return "placed"
    }
}

// HighscoreStore persists finished games.
type HighscoreStore interface {
    Upsert(ctx context.Context, h domain.Highscore) error
    List(ctx context.Context) ([]domain.Highscore, error)
}

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID      string
    Owner   string
    Board   domain.Board
    Avatar  domain.Avatar
    Status  Status
    Started time.Time
    Ended   time.Time
    Created time.Time
    Updated time.Time
}

// GameTime is the finished game's duration in whole seconds.
func (gs GameState) GameTime() time.Duration {
    if gs.Status != Finished {
        return 0
    }
    return gs.Ended.Sub(gs.Started).Truncate(time.Second)
}

type subscriber struct {
    mu     sync.Mutex
    ch     chan []byte
    closed bool
}

// send delivers b without blocking; false means the subscriber is too slow.
func (s *subscriber) send(b []byte) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.closed {
        return true
    }
    select {
    case s.ch <- b:
        return true
    default:
        return false
    }
}

func (s *subscriber) close() {
    s.mu.Lock()
    defer s.mu.Unlock()
    if !s.closed {
        s.closed = true
        close(s.ch)
    }
}

// feed serializes broadcasts for one game. seq is bumped under Service.mu
// for every change; sent is the newest seq already delivered.
type feed struct {
    mu   sync.Mutex
    seq  uint64
    sent uint64
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
    Avatars  []domain.Avatar
    Store    HighscoreStore
    Clock    func() time.Time
    Logger   *slog.Logger
    MinSize  int
    MaxSize  int
    Renderer func(GameState) []byte
}

// Service manages game sessions, the avatar catalog and highscores.
type Service struct {
    mu      sync.Mutex
    games   map[string]*GameState
    subs    map[string]map[*subscriber]struct{}
    feeds   map[string]*feed
    render  func(GameState) []byte
    avatars []domain.Avatar
    store   HighscoreStore
    now     func() time.Time
    log     *slog.Logger
    minSize int
    maxSize int
}

func noRender(GameState) []byte { return nil }

// NewService creates a service from opts.
func NewService(opts Options) *Service {
    s := &Service{
        games:   make(map[string]*GameState),
        subs:    make(map[string]map[*subscriber]struct{}),
        feeds:   make(map[string]*feed),
        render:  opts.Renderer,
        avatars: append([]domain.Avatar(nil), opts.Avatars...),
        store:   opts.Store,
        now:     opts.Clock,
        log:     opts.Logger,
        minSize: opts.MinSize,
        maxSize: opts.MaxSize,
    }
    if s.render == nil {
        s.render = noRender
    }
    if s.now == nil {
        s.now = time.Now
    }
    if s.log == nil {
        s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
    }
    if s.minSize <= 0 {
        s.minSize = MinBoardSize
    }
    if s.maxSize < s.minSize {
        s.maxSize = max(MaxBoardSize, s.minSize)
    }
    return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = noRender
        return
    }
    s.render = renderer
}

// SizeRange returns the allowed board sizes, inclusive.
func (s *Service) SizeRange() (int, int) { return s.minSize, s.maxSize }

// Avatars lists the catalog in configured order.
func (s *Service) Avatars() []domain.Avatar {
    return append([]domain.Avatar(nil), s.avatars...)
}

// Avatar looks up one avatar by ID.
func (s *Service) Avatar(id int) (domain.Avatar, error) {
    for _, a := range s.avatars {
        if a.ID == id {
            return a, nil
        }
    }
    return domain.Avatar{}, fmt.Errorf("%w: %d", ErrUnknownAvatar, id)
}

// CreateGame starts a new game for the given avatar on a size x size board.
// Only owner may change the board; everyone else spectates.
func (s *Service) CreateGame(owner string, avatarID, size int) (*GameState, error) {
    avatar, err := s.Avatar(avatarID)
    if err != nil {
        return nil, err
    }
    if size < s.minSize || size > s.maxSize {
        return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidSize, size, s.minSize, s.maxSize)
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    id := newID()
    now := s.now()
    gs := &GameState{
        ID:      id,
        Owner:   owner,
        Board:   domain.NewBoard(size),
        Avatar:  avatar,
        Status:  InProgress,
        Started: now,
        Created: now,
        Updated: now,
    }
    s.games[id] = gs
    s.feeds[id] = &feed{}
    s.log.Info("game created", "game", id, "avatar", avatar.Name, "size", size)
    cp := *gs
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    if !validID(id) {
        return nil, false
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// Click applies a tile click. When the last queen is placed the game is
// finished and a highscore is recorded; a failed write is logged only.
func (s *Service) Click(ctx context.Context, id, playerID string, r, c int) (*GameState, Outcome, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, 0, ErrNotFound
    }
    if gs.Owner != playerID {
        cp := *gs
        s.mu.Unlock()
        return &cp, 0, ErrNotAPlayer
    }
    if gs.Status == Finished {
        cp := *gs
        s.mu.Unlock()
        return &cp, 0, ErrGameFinished
    }
    if !gs.Board.InBounds(r, c) {
        cp := *gs
        s.mu.Unlock()
        return &cp, 0, ErrOutOfBounds
    }

    var outcome Outcome
    switch gs.Board.At(r, c).Kind {
    case domain.Attacked:
        outcome = Blocked
    case domain.Occupied:
        outcome = Removed
    default:
        outcome = Placed
    }
    gs.Board = gs.Board.HandleClick(r, c)
    now := s.now()
    gs.Updated = now
    finished := gs.Board.Solved()
    if finished {
        gs.Status = Finished
        gs.Ended = now
    }
    f, seq := s.nextSeqLocked(id)
    cp := *gs
    s.mu.Unlock()

    s.log.Debug("click", "game", id, "row", r, "col", c, "outcome", outcome, "moves_left", cp.Board.MovesLeft())
    if finished {
        s.recordHighscore(ctx, cp)
    }
    s.publish(id, f, seq, cp)
    return &cp, outcome, nil
}

// AnimationFinished clears the shake of the queen at (r, c).
func (s *Service) AnimationFinished(id, playerID string, r, c int) (*GameState, error) {
    return s.update(id, playerID, func(gs *GameState) error {
        if !gs.Board.InBounds(r, c) {
            return ErrOutOfBounds
        }
        gs.Board = gs.Board.ClearShake(domain.Position{Row: r, Col: c})
        return nil
    })
}

// PlayAgain clears the board and restarts the clock.
func (s *Service) PlayAgain(id, playerID string) (*GameState, error) {
    return s.update(id, playerID, func(gs *GameState) error {
        gs.Board = gs.Board.Reset()
        gs.Status = InProgress
        gs.Started = s.now()
        gs.Ended = time.Time{}
        s.log.Info("game restarted", "game", gs.ID)
        return nil
    })
}

// Highscores returns recorded games newest first. Entries whose avatar is
// no longer in the catalog are skipped.
func (s *Service) Highscores(ctx context.Context) ([]domain.Highscore, error) {
    if s.store == nil {
        return nil, nil
    }
    list, err := s.store.List(ctx)
    if err != nil {
        return nil, fmt.Errorf("list highscores: %w", err)
    }
    out := make([]domain.Highscore, 0, len(list))
    for _, h := range list {
        a, err := s.Avatar(h.Avatar.ID)
        if err != nil {
            s.log.Warn("highscore with unknown avatar", "avatar", h.Avatar.ID)
            continue
        }
        h.Avatar = a
        out = append(out, h)
    }
    return out, nil
}

func (s *Service) recordHighscore(ctx context.Context, gs GameState) {
    h := domain.Highscore{
        Avatar:    gs.Avatar,
        BoardSize: gs.Board.Size(),
        StartTime: gs.Started,
        GameTime:  gs.GameTime(),
    }
    s.log.Info("game finished", "game", gs.ID, "avatar", gs.Avatar.Name, "time", domain.FormatDuration(h.GameTime))
    if s.store == nil {
        return
    }
    if err := s.store.Upsert(ctx, h); err != nil {
        s.log.Error("save highscore", "game", gs.ID, "err", err)
    }
}

// update mutates a game under the lock, then broadcasts the result.
func (s *Service) update(id, playerID string, fn func(gs *GameState) error) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if gs.Owner != playerID {
        cp := *gs
        s.mu.Unlock()
        return &cp, ErrNotAPlayer
    }
    if err := fn(gs); err != nil {
        cp := *gs
        s.mu.Unlock()
        return &cp, err
    }
    gs.Updated = s.now()
    f, seq := s.nextSeqLocked(id)
    cp := *gs
    s.mu.Unlock()

    s.publish(id, f, seq, cp)
    return &cp, nil
}

func (s *Service) nextSeqLocked(id string) (*feed, uint64) {
    f := s.feeds[id]
    f.seq++
    return f, f.seq
}

// publish renders the state and fans it out; slow subscribers are dropped.
// Broadcasts for one game never overlap, and a snapshot older than one
// already sent is discarded.
func (s *Service) publish(id string, f *feed, seq uint64, cp GameState) {
    var toDrop []*subscriber

    f.mu.Lock()
    defer f.mu.Unlock()
    if seq <= f.sent {
        return
    }
    f.sent = seq

    s.mu.Lock()
    subs := s.copySubsLocked(id)
    render := s.render
    s.mu.Unlock()
    if len(subs) == 0 {
        return
    }
    payload := render(cp)

    for sub := range subs {
        if !sub.send(payload) {
            sub.close()
            toDrop = append(toDrop, sub)
        }
    }
    if len(toDrop) > 0 {
        s.mu.Lock()
        for _, sub := range toDrop {
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
        }
        s.mu.Unlock()
        s.log.Debug("dropped slow subscribers", "game", id, "count", len(toDrop))
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, nil, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}
