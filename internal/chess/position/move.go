package position

// MoveFlag is the set of special properties of a move. A normal quiet move
// carries no flags.
type MoveFlag uint8

const (
	FlagCapture MoveFlag = 1 << iota
	FlagEnPassant
	FlagKingsideCastle
	FlagQueensideCastle

	FlagNormal MoveFlag = 0
)

func (f MoveFlag) Has(o MoveFlag) bool { return f&o != 0 }

// Move is a compact, comparable move record. Two moves are equal iff all
// fields match.
type Move struct {
	Piece     PieceKind
	From      Square
	To        Square
	Promotion PieceKind
	Flags     MoveFlag
}

// NoMove is the zero Move; it never matches a generated move because
// generated moves always carry a promotion kind (NoPiece when absent).
var NoMove = Move{}

func (m Move) IsZero() bool { return m == NoMove }

func (m Move) IsCapture() bool { return m.Flags.Has(FlagCapture) }

func (m Move) IsCastle() bool {
	return m.Flags.Has(FlagKingsideCastle) || m.Flags.Has(FlagQueensideCastle)
}

func (m Move) IsPromotion() bool { return m.Promotion >= Knight && m.Promotion <= Queen }

// String renders the move in UCI long algebraic notation.
func (m Move) String() string {
	if m.IsZero() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Letter())
	}
	return s
}
