package domain

import (
    "testing"
    "time"

    "github.com/google/go-cmp/cmp"
)

func TestMergeTable(t *testing.T) {
    a := pos(0, 1)
    b := pos(2, 3)
    cases := []struct {
        name        string
        left, right Cell
        want        Cell
    }{
        {"empty+queen", EmptyCell(), QueenCell(false), QueenCell(false)},
        {"attacked union", AttackedBy(a), AttackedBy(b), AttackedBy(a, b)},
        {"attacked union dedup", AttackedBy(a, b), AttackedBy(b), AttackedBy(a, b)},
        {"queen+queen", QueenCell(false), QueenCell(false), EmptyCell()},
        {"queen absorbs attack", QueenCell(true), AttackedBy(a), QueenCell(true)},
        {"empty+attack", EmptyCell(), AttackedBy(a), AttackedBy(a)},
        {"attacked+empty", AttackedBy(a), EmptyCell(), AttackedBy(a)},
        {"queen+empty", QueenCell(true), EmptyCell(), QueenCell(true)},
    }
    for _, tc := range cases {
        if got := Merge(tc.left, tc.right); !got.Equal(tc.want) {
            t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
        }
    }
}

func TestUnmergeTable(t *testing.T) {
    a := pos(0, 1)
    b := pos(2, 3)
    cases := []struct {
        name        string
        left, right Cell
        want        Cell
    }{
        {"remove one", AttackedBy(a, b), AttackedBy(a), AttackedBy(b)},
        {"remove last", AttackedBy(a), AttackedBy(a), EmptyCell()},
        {"remove absent", AttackedBy(a), AttackedBy(b), AttackedBy(a)},
        {"queen inert", QueenCell(false), AttackedBy(a), QueenCell(false)},
        {"empty inert", EmptyCell(), AttackedBy(a), EmptyCell()},
        {"non-attack right", AttackedBy(a), QueenCell(false), AttackedBy(a)},
    }
    for _, tc := range cases {
        if got := Unmerge(tc.left, tc.right); !got.Equal(tc.want) {
            t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
        }
    }
}

func TestAttackedByNormalizes(t *testing.T) {
    c := AttackedBy(pos(3, 1), pos(0, 2), pos(3, 1))
    if diff := cmp.Diff([]Position{{0, 2}, {3, 1}}, c.Attackers); diff != "" {
        t.Fatalf("attackers mismatch (-want +got):\n%s", diff)
    }
    if AttackedBy().Kind != Empty {
        t.Fatalf("expected empty attacker set to collapse to Empty")
    }
    if !c.IsAttackedBy(pos(0, 2)) || c.IsAttackedBy(pos(1, 1)) {
        t.Fatalf("IsAttackedBy gave wrong answer for %+v", c)
    }
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
    left := AttackedBy(pos(0, 0))
    _ = Merge(left, AttackedBy(pos(1, 1)))
    if diff := cmp.Diff([]Position{{0, 0}}, left.Attackers); diff != "" {
        t.Fatalf("left changed (-want +got):\n%s", diff)
    }
}

func TestFormatDuration(t *testing.T) {
    cases := map[time.Duration]string{
        0:                       "00:00",
        90 * time.Second:        "01:30",
        120 * time.Second:       "02:00",
        3599 * time.Second:      "59:59",
        1500 * time.Millisecond: "00:01",
    }
    for d, want := range cases {
        if got := FormatDuration(d); got != want {
            t.Fatalf("FormatDuration(%v) = %q, want %q", d, got, want)
        }
    }
}
