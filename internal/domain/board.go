package domain

import (
    "fmt"
    "strings"
)

// Board is an immutable N x N queens board stored row-major. Every
// transition returns a new Board and leaves the receiver untouched.
type Board struct {
    size  int
    cells []Cell
}

// NewBoard returns an empty board of the given size. It panics if size is
// not positive.
func NewBoard(size int) Board {
    if size <= 0 {
        panic(fmt.Sprintf("domain: invalid board size %d", size))
    }
    return Board{size: size, cells: make([]Cell, size*size)}
}

// Reset returns an empty board of the same size.
func (b Board) Reset() Board { return NewBoard(b.size) }

// Size returns N.
func (b Board) Size() int { return b.size }

// InBounds reports whether (row, col) addresses a square of the board.
func (b Board) InBounds(row, col int) bool {
    return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// At returns the cell at (row, col).
func (b Board) At(row, col int) Cell {
    b.mustContain(row, col)
    return b.cells[row*b.size+col]
}

// Rows returns a copy of the grid as a slice of rows.
func (b Board) Rows() [][]Cell {
    rows := make([][]Cell, b.size)
    for r := range rows {
        rows[r] = append([]Cell(nil), b.cells[r*b.size:(r+1)*b.size]...)
    }
    return rows
}

// Queens lists the positions of placed queens in row-major order.
func (b Board) Queens() []Position {
    var out []Position
    for i, c := range b.cells {
        if c.Kind == Occupied {
            out = append(out, Position{Row: i / b.size, Col: i % b.size})
        }
    }
    return out
}

// MovesLeft is the number of queens still to place.
func (b Board) MovesLeft() int {
    n := b.size
    for _, c := range b.cells {
        if c.Kind == Occupied {
            n--
        }
    }
    return n
}

// Solved reports whether all N queens are on the board.
func (b Board) Solved() bool { return b.MovesLeft() == 0 }

// HandleClick applies a tile click at (row, col):
//   - on an attacked square every attacking queen starts shaking;
//   - on an empty square a queen is placed and its lines are marked;
//   - on a queen the queen is removed and its marks are cleared.
//
// It panics if (row, col) is out of range.
func (b Board) HandleClick(row, col int) Board {
    b.mustContain(row, col)
    pos := Position{Row: row, Col: col}
    switch cell := b.At(row, col); cell.Kind {
    case Attacked:
        return b.setShake(cell.Attackers, true)
    case Empty:
        next := b.clone()
        next.set(pos, Merge(cell, QueenCell(false)))
        next.sweep(pos, mergeAttack)
        return next
    default:
        next := b.clone()
        next.set(pos, Merge(cell, QueenCell(false)))
        next.sweep(pos, unmergeAttack)
        return next
    }
}

// ClearShake stops the shake of every queen found at positions. Positions
// that do not hold a queen are ignored.
func (b Board) ClearShake(positions ...Position) Board {
    return b.setShake(positions, false)
}

// Equal reports whether both boards have the same size and cells.
func (b Board) Equal(o Board) bool {
    if b.size != o.size || len(b.cells) != len(o.cells) {
        return false
    }
    for i := range b.cells {
        if !b.cells[i].Equal(o.cells[i]) {
            return false
        }
    }
    return true
}

// String renders the board one row per line: Q queen, q shaking queen,
// x attacked, . empty.
func (b Board) String() string {
    var sb strings.Builder
    for i, c := range b.cells {
        switch {
        case c.Kind == Occupied && c.Shaking:
            sb.WriteByte('q')
        case c.Kind == Occupied:
            sb.WriteByte('Q')
        case c.Kind == Attacked:
            sb.WriteByte('x')
        default:
            sb.WriteByte('.')
        }
        if i%b.size == b.size-1 {
            sb.WriteByte('\n')
        }
    }
    return sb.String()
}

func (b Board) setShake(positions []Position, shaking bool) Board {
    next := b.clone()
    for _, p := range positions {
        if !b.InBounds(p.Row, p.Col) {
            continue
        }
        if next.At(p.Row, p.Col).Kind == Occupied {
            next.set(p, QueenCell(shaking))
        }
    }
    return next
}

// sweep applies op with the queen position to every square sharing its row,
// column or either diagonal, skipping the queen's own square.
func (b Board) sweep(q Position, op func(Cell, Position) Cell) {
    n := b.size
    visit := func(r, c int) {
        if r == q.Row && c == q.Col {
            return
        }
        p := Position{Row: r, Col: c}
        b.set(p, op(b.At(r, c), q))
    }

    for i := 0; i < n; i++ {
        visit(q.Row, i)
        visit(i, q.Col)
    }

    d := min(q.Row, q.Col)
    for r, c := q.Row-d, q.Col-d; r < n && c < n; r, c = r+1, c+1 {
        visit(r, c)
    }

    d = min(q.Row, n-1-q.Col)
    for r, c := q.Row-d, q.Col+d; r < n && c >= 0; r, c = r+1, c-1 {
        visit(r, c)
    }
}

func (b Board) clone() Board {
    return Board{size: b.size, cells: append([]Cell(nil), b.cells...)}
}

// set writes into the receiver's backing array; only call on a clone.
func (b Board) set(p Position, c Cell) { b.cells[p.Row*b.size+p.Col] = c }

func (b Board) mustContain(row, col int) {
    if !b.InBounds(row, col) {
        panic(fmt.Sprintf("domain: position (%d,%d) outside %dx%d board", row, col, b.size, b.size))
    }
}
