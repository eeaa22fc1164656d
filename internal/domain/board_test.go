package domain

import (
    "testing"

    "github.com/google/go-cmp/cmp"
)

// helper to apply a sequence of clicks
func clickAll(b Board, clicks ...Position) Board {
    for _, p := range clicks {
        b = b.HandleClick(p.Row, p.Col)
    }
    return b
}

func pos(r, c int) Position { return Position{Row: r, Col: c} }

func TestNewBoardIsEmpty(t *testing.T) {
    for n := 1; n <= 8; n++ {
        b := NewBoard(n)
        if b.Size() != n {
            t.Fatalf("expected size %d, got %d", n, b.Size())
        }
        if b.MovesLeft() != n {
            t.Fatalf("expected %d moves left, got %d", n, b.MovesLeft())
        }
        for r, row := range b.Rows() {
            if len(row) != n {
                t.Fatalf("row %d has length %d, want %d", r, len(row), n)
            }
            for c, cell := range row {
                if cell.Kind != Empty {
                    t.Fatalf("expected empty cell at (%d,%d), got %v", r, c, cell.Kind)
                }
            }
        }
    }
}

func TestNewBoardPanicsOnInvalidSize(t *testing.T) {
    for _, n := range []int{0, -1} {
        func() {
            defer func() {
                if recover() == nil {
                    t.Fatalf("expected panic for size %d", n)
                }
            }()
            NewBoard(n)
        }()
    }
}

func TestHandleClickPanicsOutOfRange(t *testing.T) {
    b := NewBoard(4)
    cases := []Position{{-1, 0}, {0, -1}, {4, 0}, {0, 4}}
    for _, p := range cases {
        func() {
            defer func() {
                if recover() == nil {
                    t.Fatalf("expected panic for %v", p)
                }
            }()
            b.HandleClick(p.Row, p.Col)
        }()
    }
}

func TestMovesLeftAsQueensArePlaced(t *testing.T) {
    b := NewBoard(4)
    clicks := []Position{{1, 0}, {0, 2}, {3, 1}, {2, 3}}
    for i, p := range clicks {
        b = b.HandleClick(p.Row, p.Col)
        if want := 4 - (i + 1); b.MovesLeft() != want {
            t.Fatalf("after %d queens expected %d moves left, got %d", i+1, want, b.MovesLeft())
        }
    }
    if !b.Solved() {
        t.Fatalf("expected solved board:\n%s", b)
    }
    if diff := cmp.Diff([]Position{{0, 2}, {1, 0}, {2, 3}, {3, 1}}, b.Queens()); diff != "" {
        t.Fatalf("queens mismatch (-want +got):\n%s", diff)
    }
}

func TestToggleQueenRoundTrip(t *testing.T) {
    start := clickAll(NewBoard(6), pos(0, 1), pos(2, 0))
    for r := 0; r < 6; r++ {
        for c := 0; c < 6; c++ {
            if start.At(r, c).Kind != Empty {
                continue
            }
            placed := start.HandleClick(r, c)
            if placed.MovesLeft() != start.MovesLeft()-1 {
                t.Fatalf("placing at (%d,%d) should decrement moves left", r, c)
            }
            back := placed.HandleClick(r, c)
            if back.MovesLeft() != start.MovesLeft() {
                t.Fatalf("removing at (%d,%d) should increment moves left", r, c)
            }
            if diff := cmp.Diff(start.Rows(), back.Rows()); diff != "" {
                t.Fatalf("round trip at (%d,%d) mismatch (-want +got):\n%s", r, c, diff)
            }
            if !start.Equal(back) {
                t.Fatalf("expected boards equal after round trip at (%d,%d)", r, c)
            }
        }
    }
}

func TestHandleClickDoesNotMutateInput(t *testing.T) {
    b := NewBoard(4).HandleClick(1, 1)
    before := b.String()
    _ = b.HandleClick(3, 2)
    _ = b.HandleClick(1, 1)
    _ = b.HandleClick(0, 0)
    if b.String() != before {
        t.Fatalf("input board changed:\nbefore\n%s\nafter\n%s", before, b)
    }
}

func TestMarkAttackedSquares(t *testing.T) {
    b := NewBoard(4).HandleClick(1, 1)
    a := AttackedBy(pos(1, 1))
    e := EmptyCell()
    q := QueenCell(false)
    want := [][]Cell{
        {a, a, a, e},
        {a, q, a, a},
        {a, a, a, e},
        {e, a, e, a},
    }
    if diff := cmp.Diff(want, b.Rows()); diff != "" {
        t.Fatalf("grid mismatch (-want +got):\n%s", diff)
    }
}

func TestMarkAttackedSquaresFromEdge(t *testing.T) {
    b := NewBoard(5).HandleClick(0, 4)
    want := "" +
        "xxxxQ\n" +
        "...xx\n" +
        "..x.x\n" +
        ".x..x\n" +
        "x...x\n"
    if got := b.String(); got != want {
        t.Fatalf("unexpected board:\n%s\nwant\n%s", got, want)
    }
}

func TestDoubleAttackUnion(t *testing.T) {
    b := clickAll(NewBoard(4), pos(1, 1), pos(3, 2))
    if !b.At(2, 2).Equal(AttackedBy(pos(1, 1), pos(3, 2))) {
        t.Fatalf("expected (2,2) attacked by both queens, got %+v", b.At(2, 2))
    }
    b = b.HandleClick(1, 1)
    if !b.At(2, 2).Equal(AttackedBy(pos(3, 2))) {
        t.Fatalf("expected (2,2) attacked only by (3,2), got %+v", b.At(2, 2))
    }
    if b.At(0, 0).Kind != Empty {
        t.Fatalf("expected (0,0) empty after removing (1,1), got %+v", b.At(0, 0))
    }
}

func TestClickAttackedShakesAllAttackers(t *testing.T) {
    b := clickAll(NewBoard(4), pos(1, 1), pos(3, 2))
    shaken := b.HandleClick(2, 2)
    if shaken.MovesLeft() != b.MovesLeft() {
        t.Fatalf("illegal click changed moves left")
    }
    for _, p := range []Position{{1, 1}, {3, 2}} {
        if c := shaken.At(p.Row, p.Col); c.Kind != Occupied || !c.Shaking {
            t.Fatalf("expected queen at %v to shake, got %+v", p, c)
        }
    }
    // only shake flags may differ
    for r := 0; r < b.Size(); r++ {
        for c := 0; c < b.Size(); c++ {
            before, after := b.At(r, c), shaken.At(r, c)
            if before.Kind != after.Kind {
                t.Fatalf("cell (%d,%d) changed kind %v -> %v", r, c, before.Kind, after.Kind)
            }
            if diff := cmp.Diff(before.Attackers, after.Attackers); diff != "" {
                t.Fatalf("cell (%d,%d) attackers changed (-before +after):\n%s", r, c, diff)
            }
        }
    }

    again := shaken.HandleClick(2, 2)
    if !again.At(1, 1).Shaking || !again.At(3, 2).Shaking {
        t.Fatalf("second illegal click should keep queens shaking")
    }
}

func TestShakeOnlyAffectsAttackers(t *testing.T) {
    b := clickAll(NewBoard(4), pos(1, 0), pos(0, 2))
    b = b.HandleClick(2, 1)
    if c := b.At(1, 0); !c.Shaking {
        t.Fatalf("expected (1,0) to shake")
    }
    if c := b.At(0, 2); c.Shaking {
        t.Fatalf("expected (0,2) to stay still")
    }
    b = b.HandleClick(2, 2)
    if c := b.At(0, 2); !c.Shaking {
        t.Fatalf("expected (0,2) to shake")
    }
}

func TestClearShake(t *testing.T) {
    b := clickAll(NewBoard(4), pos(1, 1), pos(3, 2), pos(2, 2))
    b = b.ClearShake(pos(1, 1), pos(0, 0), pos(9, 9))
    if b.At(1, 1).Shaking {
        t.Fatalf("expected (1,1) shake cleared")
    }
    if !b.At(3, 2).Shaking {
        t.Fatalf("expected (3,2) still shaking")
    }
    if !b.At(0, 0).Equal(AttackedBy(pos(1, 1))) {
        t.Fatalf("clear shake must not touch non-queen squares, got %+v", b.At(0, 0))
    }
}

func TestRemovingShakingQueenClearsMarks(t *testing.T) {
    b := clickAll(NewBoard(4), pos(1, 1), pos(0, 0), pos(1, 1))
    if b.MovesLeft() != 4 {
        t.Fatalf("expected empty board, got\n%s", b)
    }
    if !b.Equal(NewBoard(4)) {
        t.Fatalf("expected board equal to a fresh one, got\n%s", b)
    }
}

func TestResetClearsEverything(t *testing.T) {
    b := clickAll(NewBoard(5), pos(0, 0), pos(1, 2), pos(1, 1), pos(4, 3))
    r := b.Reset()
    if !r.Equal(NewBoard(5)) {
        t.Fatalf("reset board differs from new board:\n%s", r)
    }
    if b.Equal(r) {
        t.Fatalf("reset should not modify the original board")
    }
}

func TestOccupiedNeverCarriesAttackers(t *testing.T) {
    b := clickAll(NewBoard(8), pos(0, 0), pos(1, 2), pos(2, 4), pos(3, 1), pos(4, 3))
    for _, q := range b.Queens() {
        c := b.At(q.Row, q.Col)
        if len(c.Attackers) != 0 {
            t.Fatalf("queen at %v carries attackers %v", q, c.Attackers)
        }
    }
}
