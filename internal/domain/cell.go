package domain

import (
    "fmt"
    "sort"
)

// Position addresses a board square, row-major, zero based.
type Position struct {
    Row int
    Col int
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

func (p Position) less(o Position) bool {
    if p.Row != o.Row {
        return p.Row < o.Row
    }
    return p.Col < o.Col
}

// CellKind tags the variant held by a Cell.
type CellKind uint8

const (
    Empty CellKind = iota
    Occupied
    Attacked
)

func (k CellKind) String() string {
    switch k {
    case Occupied:
        return "occupied"
    case Attacked:
        return "attacked"
    default:
        return "empty"
    }
}

// Cell is one square of the board. Shaking is only meaningful for Occupied
// cells, Attackers only for Attacked cells. Attackers is kept sorted and
// free of duplicates so that equal cells compare equal.
type Cell struct {
    Kind      CellKind
    Shaking   bool
    Attackers []Position
}

// EmptyCell returns a square with no queen and no attackers.
func EmptyCell() Cell { return Cell{} }

// QueenCell returns a square holding a queen.
func QueenCell(shaking bool) Cell { return Cell{Kind: Occupied, Shaking: shaking} }

// AttackedBy returns a square attacked by the given queens. With no
// positions it collapses to an empty square.
func AttackedBy(positions ...Position) Cell {
    set := normalize(positions)
    if len(set) == 0 {
        return EmptyCell()
    }
    return Cell{Kind: Attacked, Attackers: set}
}

// IsAttackedBy reports whether p is one of the cell's attackers.
func (c Cell) IsAttackedBy(p Position) bool {
    if c.Kind != Attacked {
        return false
    }
    i := sort.Search(len(c.Attackers), func(i int) bool { return !c.Attackers[i].less(p) })
    return i < len(c.Attackers) && c.Attackers[i] == p
}

// Equal reports whether both cells hold the same variant and payload.
func (c Cell) Equal(o Cell) bool {
    if c.Kind != o.Kind {
        return false
    }
    switch c.Kind {
    case Occupied:
        return c.Shaking == o.Shaking
    case Attacked:
        if len(c.Attackers) != len(o.Attackers) {
            return false
        }
        for i := range c.Attackers {
            if c.Attackers[i] != o.Attackers[i] {
                return false
            }
        }
    }
    return true
}

// Merge combines two cell states:
//
//    Empty       + Occupied    = Occupied
//    Attacked(A) + Attacked(B) = Attacked(A ∪ B)
//    Occupied    + Occupied    = Empty
//    Occupied    + Attacked    = Occupied
//    x           + Empty       = x
//
// Any other pairing yields right.
func Merge(left, right Cell) Cell {
    switch {
    case left.Kind == Empty && right.Kind == Occupied:
        return right
    case left.Kind == Attacked && right.Kind == Attacked:
        return AttackedBy(append(append([]Position(nil), left.Attackers...), right.Attackers...)...)
    case left.Kind == Occupied && right.Kind == Occupied:
        return EmptyCell()
    case left.Kind == Occupied && right.Kind == Attacked:
        return left
    case right.Kind == Empty:
        return left
    default:
        return right
    }
}

// Unmerge removes right's attackers from left. Only Attacked minus Attacked
// changes anything; the result collapses to Empty once no attacker remains.
func Unmerge(left, right Cell) Cell {
    if left.Kind != Attacked || right.Kind != Attacked {
        return left
    }
    rest := make([]Position, 0, len(left.Attackers))
    for _, p := range left.Attackers {
        if !right.IsAttackedBy(p) {
            rest = append(rest, p)
        }
    }
    return AttackedBy(rest...)
}

func mergeAttack(c Cell, attacker Position) Cell { return Merge(c, AttackedBy(attacker)) }

func unmergeAttack(c Cell, attacker Position) Cell { return Unmerge(c, AttackedBy(attacker)) }

// normalize returns a sorted copy of positions without duplicates, or nil.
func normalize(positions []Position) []Position {
    if len(positions) == 0 {
        return nil
    }
    out := append([]Position(nil), positions...)
    sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
    n := 1
    for i := 1; i < len(out); i++ {
        if out[i] != out[n-1] {
            out[n] = out[i]
            n++
        }
    }
    return out[:n]
}
