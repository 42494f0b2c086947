package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidFEN      = errors.New("invalid fen")
	ErrIllegalPosition = errors.New("illegal position: each side needs exactly one king")
)

// ParseFEN parses a Forsyth-Edwards board-state string. The half-move clock
// and full-move number may be omitted and default to 0 and 1.
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 || len(fields) > 6 {
		return Position{}, fmt.Errorf("%w: expected 4-6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	var p Position
	if err := p.parsePlacement(fields[0]); err != nil {
		return Position{}, err
	}

	switch fields[1] {
	case "w":
		p.turn = White
	case "b":
		p.turn = Black
	default:
		return Position{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.castling |= WhiteKingside
			case 'Q':
				p.castling |= WhiteQueenside
			case 'k':
				p.castling |= BlackKingside
			case 'q':
				p.castling |= BlackQueenside
			default:
				return Position{}, fmt.Errorf("%w: castling %q", ErrInvalidFEN, fields[2])
			}
		}
	}
	p.castling &= p.castlingConsistentWithBoard()

	p.epSquare = NoSquare
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return Position{}, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
		}
		p.epSquare = sq
	}

	p.fullMove = 1
	if len(fields) >= 5 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return Position{}, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, fields[4])
		}
		p.halfMove = n
	}
	if len(fields) == 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return Position{}, fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, fields[5])
		}
		p.fullMove = n
	}

	if !p.IsLegal() {
		return Position{}, ErrIllegalPosition
	}
	if p.epSquare != NoSquare && !p.validEnPassant() {
		return Position{}, fmt.Errorf("%w: en passant square %s", ErrInvalidFEN, p.epSquare)
	}
	return p, nil
}

// validEnPassant reports whether the en passant target could have been left
// by the opponent's double push: target on the mover's sixth rank, empty,
// with the pushed pawn in front of it and its start square vacated.
func (p Position) validEnPassant() bool {
	sq := p.epSquare
	wantRank := 5
	if p.turn == Black {
		wantRank = 2
	}
	if sq.Rank() != wantRank {
		return false
	}
	occupied := p.Occupied()
	origin := epVictim(sq, p.turn.Other())
	if occupied.Occupied(sq) || occupied.Occupied(origin) {
		return false
	}
	return p.Pieces(p.turn.Other(), Pawn).Occupied(epVictim(sq, p.turn))
}

func (p *Position) parsePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			color := White
			lower := ch
			if ch >= 'a' && ch <= 'z' {
				color = Black
			} else {
				lower = ch + ('a' - 'A')
			}
			kind, ok := pieceKindFromLetter(lower)
			if !ok {
				return fmt.Errorf("%w: piece %q", ErrInvalidFEN, ch)
			}
			if file > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			b := SquareBB(NewSquare(file, rank))
			p.pieces[kind] |= b
			p.colors[color] |= b
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}
	return nil
}

// castlingConsistentWithBoard drops rights whose king or rook is not on its
// home square, so Apply never has to move a rook that is not there.
func (p Position) castlingConsistentWithBoard() CastlingRights {
	allowed := NoCastling
	wk, bk := p.Pieces(White, King), p.Pieces(Black, King)
	wr, br := p.Pieces(White, Rook), p.Pieces(Black, Rook)
	if wk.Occupied(E1) {
		if wr.Occupied(H1) {
			allowed |= WhiteKingside
		}
		if wr.Occupied(A1) {
			allowed |= WhiteQueenside
		}
	}
	if bk.Occupied(E8) {
		if br.Occupied(H8) {
			allowed |= BlackKingside
		}
		if br.Occupied(A8) {
			allowed |= BlackQueenside
		}
	}
	return allowed
}

// FEN serialises the position.
func (p Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			c, k, ok := p.PieceAt(NewSquare(file, rank))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			l := k.Letter()
			if c == White {
				l -= 'a' - 'A'
			}
			sb.WriteByte(l)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.turn == Black {
		side = "b"
	}
	ep := "-"
	if p.epSquare != NoSquare {
		ep = p.epSquare.String()
	}
	return fmt.Sprintf("%s %s %s %s %d %d", sb.String(), side, p.castling, ep, p.halfMove, p.fullMove)
}
