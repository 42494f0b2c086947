package chess

import "github.com/park285/cheese-engine/internal/chess/position"

type bound uint8

const (
	boundNone bound = iota
	boundExact
	boundLower
	boundUpper
)

type ttEntry struct {
	key   uint64
	move  position.Move
	score int32
	depth int8
	bound bound
}

// approximate in-memory size of ttEntry, used only for sizing.
const ttEntryBytes = 24

// transTable is a single-owner, always-replace hash table. It is held by one
// search at a time, so it needs no locking.
type transTable struct {
	entries []ttEntry
	mask    uint64
}

func newTransTable(megabytes int) *transTable {
	if megabytes <= 0 {
		return nil
	}
	n := uint64(megabytes) << 20 / ttEntryBytes
	size := uint64(1)
	for size*2 <= n {
		size *= 2
	}
	return &transTable{entries: make([]ttEntry, size), mask: size - 1}
}

func (t *transTable) probe(key uint64) (ttEntry, bool) {
	if t == nil {
		return ttEntry{}, false
	}
	e := t.entries[key&t.mask]
	return e, e.bound != boundNone && e.key == key
}

func (t *transTable) store(key uint64, m position.Move, score, depth, ply int, b bound) {
	if t == nil {
		return
	}
	slot := &t.entries[key&t.mask]
	// Keep a deeper result for the same position.
	if slot.key == key && int(slot.depth) > depth && b != boundExact {
		return
	}
	*slot = ttEntry{key: key, move: m, score: int32(scoreToTT(score, ply)), depth: int8(depth), bound: b}
}

// Mate scores are stored relative to the node so they stay valid when the
// same position is reached at a different ply.
func scoreToTT(score, ply int) int {
	switch {
	case score >= mateBound:
		return score + ply
	case score <= -mateBound:
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	switch {
	case score >= mateBound:
		return score - ply
	case score <= -mateBound:
		return score + ply
	}
	return score
}
