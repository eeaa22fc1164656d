package web

import (
    "errors"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/codex-queens/internal/app"
)

type handlers struct {
    svc *app.Service
    tpl *templates
    log *slog.Logger
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
}

func writeHTML(w http.ResponseWriter, status int, b []byte) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(status)
    _, _ = w.Write(b)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.index, "", h.svc.Avatars()))
}

func (h *handlers) selectSize(w http.ResponseWriter, r *http.Request) {
    id, err := strconv.Atoi(chi.URLParam(r, "avatarID"))
    if err != nil {
        http.NotFound(w, r)
        return
    }
    avatar, err := h.svc.Avatar(id)
    if err != nil {
        http.Redirect(w, r, "/", http.StatusSeeOther)
        return
    }
    lo, hi := h.svc.SizeRange()
    data := struct {
        Avatar   any
        Min, Max int
    }{Avatar: avatar, Min: lo, Max: hi}
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.size, "", data))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    avatarID, err := strconv.Atoi(r.Form.Get("avatar"))
    if err != nil {
        http.Error(w, "missing avatar", http.StatusBadRequest)
        return
    }
    size, err := strconv.Atoi(r.Form.Get("size"))
    if err != nil {
        http.Error(w, "missing size", http.StatusBadRequest)
        return
    }
    gs, err := h.svc.CreateGame(pid, avatarID, size)
    switch {
    case errors.Is(err, app.ErrUnknownAvatar), errors.Is(err, app.ErrInvalidSize):
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    case err != nil:
        h.log.Error("create game", "err", err)
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    ensurePlayerCookie(w, r)
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    // Render page with embedded board container
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.game, "", newBoardView(*gs, "")))
}

// position reads the r and c form fields.
func position(r *http.Request) (int, int, error) {
    _ = r.ParseForm()
    ri, err := strconv.Atoi(r.Form.Get("r"))
    if err != nil {
        return 0, 0, app.ErrOutOfBounds
    }
    ci, err := strconv.Atoi(r.Form.Get("c"))
    if err != nil {
        return 0, 0, app.ErrOutOfBounds
    }
    return ri, ci, nil
}

func errorMessage(err error) string {
    switch {
    case err == nil:
        return ""
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, app.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, app.ErrGameFinished):
        return "Game is over"
    default:
        return "Invalid move"
    }
}

// respond writes the board fragment for gs, falling back to the stored
// state when the call failed before producing one.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    if errors.Is(err, app.ErrNotFound) {
        http.NotFound(w, r)
        return
    }
    if gs == nil {
        if g, ok := h.svc.Get(id); ok {
            gs = g
        }
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    writeHTML(w, http.StatusOK, h.renderBoard(*gs, errorMessage(err)))
}

func (h *handlers) click(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    ri, ci, err := position(r)
    if err != nil {
        h.respond(w, r, id, nil, err)
        return
    }
    gs, outcome, err := h.svc.Click(r.Context(), id, pid, ri, ci)
    if err == nil && outcome == app.Blocked {
        // client-side feedback for an illegal placement
        w.Header().Set("HX-Trigger", "vibrate")
    }
    h.respond(w, r, id, gs, err)
}

func (h *handlers) shakeDone(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    ri, ci, err := position(r)
    if err == nil {
        _, err = h.svc.AnimationFinished(id, pid, ri, ci)
    }
    switch {
    case errors.Is(err, app.ErrNotFound):
        http.NotFound(w, r)
    case err != nil:
        http.Error(w, errorMessage(err), http.StatusBadRequest)
    default:
        w.WriteHeader(http.StatusNoContent)
    }
}

func (h *handlers) playAgain(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.PlayAgain(id, pid)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) highscores(w http.ResponseWriter, r *http.Request) {
    scores, err := h.svc.Highscores(r.Context())
    data := struct {
        Scores any
        Error  string
    }{Scores: scores}
    if err != nil {
        h.log.Error("load highscores", "err", err)
        data.Error = "Highscores are unavailable"
        data.Scores = nil
    }
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.highscores, "", data))
}

var heartbeatInterval = 15 * time.Second

// writeEvent emits one SSE event; multi-line payloads become several data lines.
func writeEvent(w io.Writer, event string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", event)
    for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
        _, _ = fmt.Fprintf(w, "data: %s\n", line)
    }
    _, _ = io.WriteString(w, "\n")
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    defer unsub()
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            writeEvent(w, "board", b)
            flusher.Flush()
        }
    }
}
