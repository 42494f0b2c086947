package position

import (
	"errors"
	"testing"
)

func mustFEN(t *testing.T, fen string) Position {
	t.Helper()
	p, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return p
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
	}
	for _, fen := range fens {
		if got := mustFEN(t, fen).FEN(); got != fen {
			t.Errorf("round trip: got %q want %q", got, fen)
		}
	}
}

func TestParseFENRejects(t *testing.T) {
	cases := map[string]error{
		"":                                      ErrInvalidFEN,
		"8/8/8/8/8/8/8/8 w - - 0 1":             ErrIllegalPosition,
		"k7/8/8/8/8/8/8/KK6 w - - 0 1":          ErrIllegalPosition,
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w":  ErrInvalidFEN,
		"rnbqkbnr/ppppXppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1": ErrInvalidFEN,
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1": ErrInvalidFEN,
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1": ErrInvalidFEN,
		// en passant target without a pawn that just double-pushed
		"4k3/8/8/3nP3/8/8/8/4K3 w - d6 0 1":                         ErrInvalidFEN,
		"4k3/8/8/8/8/8/3PP3/4K3 w - e3 0 1":                         ErrInvalidFEN,
		"4k3/8/8/8/4Pp2/8/8/4K3 w - e3 0 1":                         ErrInvalidFEN,
		"4k3/3p4/8/3pP3/8/8/8/4K3 w - d6 0 1":                       ErrInvalidFEN,
		"4k3/8/3n4/3pP3/8/8/8/4K3 w - d6 0 1":                       ErrInvalidFEN,
		"4k3/8/8/8/4Pp2/8/8/4K3 b - e4 0 1":                         ErrInvalidFEN,
	}
	for fen, want := range cases {
		if _, err := ParseFEN(fen); !errors.Is(err, want) {
			t.Errorf("ParseFEN(%q) error = %v, want %v", fen, err, want)
		}
	}
}

func TestParseFENAcceptsEnPassantAfterDoublePush(t *testing.T) {
	for _, fen := range []string{
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3",
		"4k3/8/8/8/4Pp2/8/8/4K3 b - e3 0 1",
	} {
		p := mustFEN(t, fen)
		if p.EnPassant() == NoSquare {
			t.Errorf("%q: en passant square dropped", fen)
		}
	}
}

func TestIsLegalCountsKings(t *testing.T) {
	p := StartPosition()
	if !p.IsLegal() {
		t.Fatalf("start position should be legal")
	}
	if PopCount(p.Pieces(White, King)) != 1 || PopCount(p.Occupied()) != 32 {
		t.Fatalf("unexpected popcounts: kings=%d occupied=%d", PopCount(p.Pieces(White, King)), PopCount(p.Occupied()))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	p1 := StartPosition()
	before := p1
	p2 := p1.Apply(Move{Piece: Pawn, From: E2, To: E4, Promotion: NoPiece})
	if p1 != before {
		t.Fatalf("Apply mutated its input")
	}
	if p2 == p1 {
		t.Fatalf("Apply returned an unchanged position")
	}
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := p2.FEN(); got != want {
		t.Fatalf("after e2e4: got %q want %q", got, want)
	}
}

func TestApplyEnPassantOnlyNextMove(t *testing.T) {
	p := mustFEN(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	captured := p.Apply(Move{Piece: Pawn, From: E5, To: D6, Promotion: NoPiece, Flags: FlagCapture | FlagEnPassant})
	if captured.Pieces(Black, Pawn).Occupied(D5) {
		t.Fatalf("en passant victim still on d5")
	}
	if !captured.Pieces(White, Pawn).Occupied(D6) {
		t.Fatalf("capturing pawn not on d6")
	}
	if captured.HalfMoveClock() != 0 || captured.EnPassant() != NoSquare {
		t.Fatalf("half-move clock %d, ep %s", captured.HalfMoveClock(), captured.EnPassant())
	}

	quiet := p.Apply(Move{Piece: Knight, From: G1, To: F3, Promotion: NoPiece})
	if quiet.EnPassant() != NoSquare {
		t.Fatalf("en passant target survived a quiet move: %s", quiet.EnPassant())
	}
	if quiet.HalfMoveClock() != 1 {
		t.Fatalf("half-move clock = %d, want 1", quiet.HalfMoveClock())
	}
}

func TestApplyCastlingRights(t *testing.T) {
	p := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	castled := p.Apply(Move{Piece: King, From: E1, To: G1, Promotion: NoPiece, Flags: FlagKingsideCastle})
	if !castled.Pieces(White, Rook).Occupied(F1) || castled.Pieces(White, Rook).Occupied(H1) {
		t.Fatalf("kingside rook not moved: %s", castled.FEN())
	}
	if castled.Castling() != BlackKingside|BlackQueenside {
		t.Fatalf("castling rights after O-O: %s", castled.Castling())
	}

	long := p.Apply(Move{Piece: King, From: E1, To: C1, Promotion: NoPiece, Flags: FlagQueensideCastle})
	if !long.Pieces(White, Rook).Occupied(D1) || long.Pieces(White, Rook).Occupied(A1) {
		t.Fatalf("queenside rook not moved: %s", long.FEN())
	}

	rookMove := p.Apply(Move{Piece: Rook, From: H1, To: H5, Promotion: NoPiece})
	if rookMove.Castling().Has(WhiteKingside) || !rookMove.Castling().Has(WhiteQueenside) {
		t.Fatalf("rook move rights: %s", rookMove.Castling())
	}

	rookTaken := p.Apply(Move{Piece: Rook, From: A1, To: A8, Promotion: NoPiece, Flags: FlagCapture})
	if rookTaken.Castling() != WhiteKingside|BlackKingside {
		t.Fatalf("rights after Rxa8: %s", rookTaken.Castling())
	}
	if rookTaken.HalfMoveClock() != 0 {
		t.Fatalf("capture should reset the half-move clock")
	}
}

func TestApplyPromotion(t *testing.T) {
	p := mustFEN(t, "1r5k/P7/8/8/8/8/8/K7 w - - 3 40")
	q := p.Apply(Move{Piece: Pawn, From: A7, To: B8, Promotion: Queen, Flags: FlagCapture})
	if !q.Pieces(White, Queen).Occupied(B8) || q.Pieces(White, Pawn) != 0 || q.Pieces(Black, Rook) != 0 {
		t.Fatalf("promotion capture: %s", q.FEN())
	}
	if q.Turn() != Black || q.FullMoveNumber() != 40 {
		t.Fatalf("turn %s move %d", q.Turn(), q.FullMoveNumber())
	}
	r := q.Apply(Move{Piece: King, From: H8, To: H7, Promotion: NoPiece})
	if r.FullMoveNumber() != 41 {
		t.Fatalf("full-move number = %d, want 41", r.FullMoveNumber())
	}
}

func TestIsCheck(t *testing.T) {
	cases := []struct {
		fen   string
		color Color
		want  bool
	}{
		{StartFEN, White, false},
		{"rnb1kbnr/pppp1ppp/4p3/8/5PPq/8/PPPPP2P/RNBQKBNR w KQkq - 1 3", White, true},
		{"4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", White, true},
		{"4k3/8/8/8/8/5n2/8/4K3 w - - 0 1", White, true},
		{"4k3/8/8/8/8/8/8/r3K3 w - - 0 1", White, true},
		{"4k3/8/8/8/8/8/8/r1B1K3 w - - 0 1", White, false},
		{"4k3/8/8/1B6/8/8/8/4K3 b - - 0 1", Black, true},
	}
	for _, tc := range cases {
		if got := mustFEN(t, tc.fen).IsCheck(tc.color); got != tc.want {
			t.Errorf("IsCheck(%s, %s) = %v, want %v", tc.fen, tc.color, got, tc.want)
		}
	}
}

func TestMirrorSwapsSides(t *testing.T) {
	p := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K1R1 w Qkq - 0 1")
	m := p.Mirror()
	want := "r3k1r1/pppbbppp/2n2q1P/1P2p3/3pn3/BN2PNP1/P1PPQPB1/R3K2R b KQq - 0 1"
	if got := m.FEN(); got != want {
		t.Fatalf("mirror: got %q want %q", got, want)
	}
	if m.Mirror() != p {
		t.Fatalf("mirror is not an involution")
	}
}

func TestHashTransposition(t *testing.T) {
	start := StartPosition()
	a := start.
		Apply(Move{Piece: Knight, From: G1, To: F3, Promotion: NoPiece}).
		Apply(Move{Piece: Knight, From: G8, To: F6, Promotion: NoPiece}).
		Apply(Move{Piece: Knight, From: B1, To: C3, Promotion: NoPiece})
	b := start.
		Apply(Move{Piece: Knight, From: B1, To: C3, Promotion: NoPiece}).
		Apply(Move{Piece: Knight, From: G8, To: F6, Promotion: NoPiece}).
		Apply(Move{Piece: Knight, From: G1, To: F3, Promotion: NoPiece})
	if a.Hash() != b.Hash() {
		t.Fatalf("transposed positions hash differently")
	}
	if a.Hash() == start.Hash() {
		t.Fatalf("different positions share a hash")
	}

	// A double push with no enemy pawn able to capture hashes like the FEN
	// written without an en passant square.
	pushed := start.Apply(Move{Piece: Pawn, From: E2, To: E4, Promotion: NoPiece})
	plain := mustFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if pushed.Hash() != plain.Hash() {
		t.Fatalf("irrelevant en passant square changed the hash")
	}
}

func TestMoveString(t *testing.T) {
	cases := map[Move]string{
		{Piece: Pawn, From: E2, To: E4, Promotion: NoPiece}:                      "e2e4",
		{Piece: Pawn, From: E7, To: E8, Promotion: Queen}:                        "e7e8q",
		{Piece: King, From: E1, To: G1, Promotion: NoPiece, Flags: FlagKingsideCastle}: "e1g1",
		NoMove: "0000",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
