package position

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceKind is the colourless piece type. Values index Position bitboards.
type PieceKind uint8

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPiece
)

const numPieceKinds = 6

var pieceLetters = [...]byte{'p', 'n', 'b', 'r', 'q', 'k'}

// Letter returns the lowercase FEN letter of the piece kind.
func (k PieceKind) Letter() byte {
	if k >= NoPiece {
		return '-'
	}
	return pieceLetters[k]
}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

func pieceKindFromLetter(b byte) (PieceKind, bool) {
	for i, l := range pieceLetters {
		if l == b {
			return PieceKind(i), true
		}
	}
	return NoPiece, false
}

// CastlingRights is a 4-bit set of remaining castling options.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

func (cr CastlingRights) Has(r CastlingRights) bool { return cr&r != 0 }

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	out := make([]byte, 0, 4)
	if cr.Has(WhiteKingside) {
		out = append(out, 'K')
	}
	if cr.Has(WhiteQueenside) {
		out = append(out, 'Q')
	}
	if cr.Has(BlackKingside) {
		out = append(out, 'k')
	}
	if cr.Has(BlackQueenside) {
		out = append(out, 'q')
	}
	return string(out)
}
