package position

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit occupancy mask, bit i set iff square i is occupied.
type Bitboard uint64

const (
	EmptyBB Bitboard = 0

	FileABB Bitboard = 0x0101010101010101
	FileHBB Bitboard = FileABB << 7
	Rank1BB Bitboard = 0xFF
	Rank2BB Bitboard = Rank1BB << 8
	Rank4BB Bitboard = Rank1BB << 24
	Rank5BB Bitboard = Rank1BB << 32
	Rank7BB Bitboard = Rank1BB << 48
	Rank8BB Bitboard = Rank1BB << 56

	notAFile  Bitboard = ^FileABB
	notHFile  Bitboard = ^FileHBB
	notABFile Bitboard = ^(FileABB | FileABB<<1)
	notGHFile Bitboard = ^(FileHBB | FileHBB>>1)
)

// Ray directions. Positive directions walk towards higher square indices.
const (
	North = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	numDirections
)

var (
	pawnAttacks   [2][64]Bitboard
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	rays          [64][numDirections]Bitboard
)

var (
	rookDirections   = [4]int{North, East, South, West}
	bishopDirections = [4]int{NorthEast, SouthEast, SouthWest, NorthWest}
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		b := SquareBB(sq)

		pawnAttacks[White][sq] = (b<<7)&notHFile | (b<<9)&notAFile
		pawnAttacks[Black][sq] = (b>>9)&notHFile | (b>>7)&notAFile

		knightAttacks[sq] = (b<<17)&notAFile | (b<<15)&notHFile |
			(b<<10)&notABFile | (b<<6)&notGHFile |
			(b>>6)&notABFile | (b>>10)&notGHFile |
			(b>>15)&notAFile | (b>>17)&notHFile

		kingAttacks[sq] = (b<<9)&notAFile | b<<8 | (b<<7)&notHFile |
			(b<<1)&notAFile | (b>>1)&notHFile |
			(b>>7)&notAFile | b>>8 | (b>>9)&notHFile
	}
	initRays()
}

func initRays() {
	df := [numDirections]int{0, 1, 1, 1, 0, -1, -1, -1}
	dr := [numDirections]int{1, 1, 0, -1, -1, -1, 0, 1}
	for sq := A1; sq <= H8; sq++ {
		for dir := 0; dir < numDirections; dir++ {
			var ray Bitboard
			f, r := sq.File()+df[dir], sq.Rank()+dr[dir]
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				ray |= SquareBB(NewSquare(f, r))
				f += df[dir]
				r += dr[dir]
			}
			rays[sq][dir] = ray
		}
	}
}

func SquareBB(sq Square) Bitboard { return Bitboard(1) << uint(sq) }

// PopCount returns the number of set bits.
func PopCount(b Bitboard) int { return bits.OnesCount64(uint64(b)) }

func (b Bitboard) PopCount() int { return PopCount(b) }

func (b Bitboard) Occupied(sq Square) bool { return b&SquareBB(sq) != 0 }

// LSB returns the lowest set square. The result is undefined for an empty board.
func (b Bitboard) LSB() Square { return Square(bits.TrailingZeros64(uint64(b))) }

func (b Bitboard) MSB() Square { return Square(63 - bits.LeadingZeros64(uint64(b))) }

// PopLSB returns the lowest set square and the board without it.
func (b Bitboard) PopLSB() (Square, Bitboard) {
	return b.LSB(), b & (b - 1)
}

func (b Bitboard) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			if b.Occupied(NewSquare(f, r)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func isPositiveDirection(dir int) bool {
	return dir == North || dir == NorthEast || dir == East || dir == NorthWest
}

// slidingAttacks scans each ray up to and including its first blocker.
func slidingAttacks(sq Square, occupied Bitboard, dirs [4]int) Bitboard {
	var attacks Bitboard
	for _, dir := range dirs {
		ray := rays[sq][dir]
		blocked := ray & occupied
		if blocked != 0 {
			var blocker Square
			if isPositiveDirection(dir) {
				blocker = blocked.LSB()
			} else {
				blocker = blocked.MSB()
			}
			ray &^= rays[blocker][dir]
		}
		attacks |= ray
	}
	return attacks
}

func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return slidingAttacks(sq, occupied, rookDirections)
}

func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return slidingAttacks(sq, occupied, bishopDirections)
}

func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}

func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of color c on sq captures on.
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttacks[c][sq] }
