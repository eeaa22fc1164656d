package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"
    "github.com/jaminalder/codex-queens/internal/app"
    "github.com/jaminalder/codex-queens/internal/domain"
)

type templates struct {
    base       *template.Template
    index      *template.Template
    size       *template.Template
    game       *template.Template
    board      *template.Template
    highscores *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(lo, hi int) []int {
            var a []int
            for i := lo; i <= hi; i++ {
                a = append(a, i)
            }
            return a
        },
        "duration": domain.FormatDuration,
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Queens</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.row{display:flex}
.tile{width:3em;height:3em}
.attacked{background:#f3d6d6}
.queen{background:#d6e8f3}
.shaking{animation:shake .4s}
@keyframes shake{25%{transform:translateX(-4px)}75%{transform:translateX(4px)}}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Parse(boardTemplate))

    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Queens</h1>
<p>Pick your avatar</p>
<ul id="avatars">
{{range .}}<li><a href="/avatars/{{.ID}}"><strong>{{.Name}}</strong></a><p>{{.Bio}}</p></li>
{{end}}</ul>
<a href="/highscores">Highscores</a>`))

    size := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>{{.Avatar.Name}}</h1>
<p>Select board size</p>
<form action="/game" method="post">
  <input type="hidden" name="avatar" value="{{.Avatar.ID}}">
  <select name="size">{{range iter .Min .Max}}<option value="{{.}}">{{.}} x {{.}}</option>{{end}}</select>
  <button>Start</button>
</form>`))

    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div id="board-stream" sse-swap="board" hx-swap="innerHTML">{{template "board" .}}</div>
</div>
<a href="/highscores">Highscores</a>`))

    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))

    highscores := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Highscores</h1>
{{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
{{if not .Scores}}<p>No highscores yet</p>{{else}}
<table id="highscores">
<tr><th>Avatar</th><th>Board</th><th>Started</th><th>Time</th></tr>
{{range .Scores}}<tr><td>{{.Avatar.Name}}</td><td>{{.BoardSize}}x{{.BoardSize}}</td><td>{{.StartTime.Format "15:04:05"}}</td><td>{{duration .GameTime}}</td></tr>
{{end}}</table>{{end}}
<a href="/">New game</a>`))

    return &templates{base: base, index: index, size: size, game: game, board: board, highscores: highscores}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `<div id="board">
  <p class="status">{{.Avatar.Name}} · queens left: {{.MovesLeft}}</p>
  {{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
  {{if .Finished}}<div class="finished">{{.Avatar.Name}} wins in {{.GameTime}}!
    <form hx-post="/game/{{.ID}}/again" hx-target="#board" hx-swap="outerHTML" method="post"><button>Play again</button></form>
  </div>{{end}}
  {{range .Rows}}
  <div class="row">
    {{range .}}
      <form hx-post="/game/{{$.ID}}/click" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{.Row}}">
        <input type="hidden" name="c" value="{{.Col}}">
        <button type="submit" class="tile {{.Class}}">{{if .Queen}}♛{{end}}</button>
      </form>
      {{if .Shaking}}<span hx-post="/game/{{$.ID}}/shake-done" hx-vals='{"r": "{{.Row}}", "c": "{{.Col}}"}' hx-trigger="load delay:400ms" hx-swap="none"></span>{{end}}
    {{end}}
  </div>
  {{end}}
</div>
`

// Data models for templates
type tileView struct {
    Row, Col int
    Queen    bool
    Shaking  bool
    Class    string
}

type boardView struct {
    ID        string
    Avatar    domain.Avatar
    MovesLeft int
    Finished  bool
    GameTime  string
    Error     string
    Rows      [][]tileView
}

func newBoardView(gs app.GameState, errMsg string) boardView {
    v := boardView{
        ID:        gs.ID,
        Avatar:    gs.Avatar,
        MovesLeft: gs.Board.MovesLeft(),
        Finished:  gs.Status == app.Finished,
        Error:     errMsg,
    }
    if v.Finished {
        v.GameTime = domain.FormatDuration(gs.GameTime())
    }
    for r, row := range gs.Board.Rows() {
        tiles := make([]tileView, len(row))
        for c, cell := range row {
            t := tileView{Row: r, Col: c}
            switch cell.Kind {
            case domain.Occupied:
                t.Queen = true
                t.Shaking = cell.Shaking
                t.Class = "queen"
                if cell.Shaking {
                    t.Class = "queen shaking"
                }
            case domain.Attacked:
                t.Class = "attacked"
            }
            tiles[c] = t
        }
        v.Rows = append(v.Rows, tiles)
    }
    return v
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
    return v
}
