// Package core holds the value types shared by every layer of the rules engine:
// colors, piece kinds, game states and the status messages returned per command.
package core

type State int

const (
	StateOngoing State = iota
	StateCheckmateWhiteWins
	StateCheckmateBlackWins
	StateResignWhiteWins
	StateResignBlackWins
	StateDraw
)

func (s State) String() string {
	switch s {
	case StateCheckmateWhiteWins:
		return "checkmate white wins"
	case StateCheckmateBlackWins:
		return "checkmate black wins"
	case StateResignWhiteWins:
		return "resign white wins"
	case StateResignBlackWins:
		return "resign black wins"
	case StateDraw:
		return "draw"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// Over reports whether s is terminal.
func (s State) Over() bool {
	return s != StateOngoing
}

// Status returns the message reported on the turn that entered s.
func (s State) Status() Status {
	switch s {
	case StateCheckmateWhiteWins:
		return StatusCheckmateWhiteWins
	case StateCheckmateBlackWins:
		return StatusCheckmateBlackWins
	case StateResignWhiteWins:
		return StatusResignWhiteWins
	case StateResignBlackWins:
		return StatusResignBlackWins
	case StateDraw:
		return StatusDraw
	default:
		return StatusOK
	}
}

// Status is the message produced for every applied command
type Status int

const (
	StatusOK Status = iota
	StatusCheck
	StatusIllegalMove
	StatusCheckmateWhiteWins
	StatusCheckmateBlackWins
	StatusResignWhiteWins
	StatusResignBlackWins
	StatusDraw
)

var statusNames = [...]string{
	StatusOK:                 "ok",
	StatusCheck:              "check",
	StatusIllegalMove:        "illegal_move",
	StatusCheckmateWhiteWins: "checkmate_white_wins",
	StatusCheckmateBlackWins: "checkmate_black_wins",
	StatusResignWhiteWins:    "resign_white_wins",
	StatusResignBlackWins:    "resign_black_wins",
	StatusDraw:               "draw",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Color byte

const (
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the capitalized color name used in prompts and logs
func (c Color) Name() string {
	if c == ColorWhite {
		return "White"
	}
	return "Black"
}

func (c Color) Opposite() Color {
	return OppositeColor(c)
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ParseColor accepts "w"/"white" and "b"/"black"
func ParseColor(s string) (Color, bool) {
	switch s {
	case "w", "white", "W", "White":
		return ColorWhite, true
	case "b", "black", "B", "Black":
		return ColorBlack, true
	}
	return 0, false
}

// Kind is the closed set of chess piece kinds. NoKind marks an absent piece or promotion.
type Kind byte

const (
	NoKind Kind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

// Letter returns the uppercase algebraic letter of the kind
func (k Kind) Letter() byte {
	switch k {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	default:
		return '?'
	}
}

// Promotable reports whether a pawn may promote to k
func (k Kind) Promotable() bool {
	return k == Queen || k == Rook || k == Bishop || k == Knight
}

func (k Kind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return "none"
	}
}

// KindFromLetter maps K,Q,R,B,N,P in either case to a kind
func KindFromLetter(ch byte) (Kind, bool) {
	switch ch {
	case 'K', 'k':
		return King, true
	case 'Q', 'q':
		return Queen, true
	case 'R', 'r':
		return Rook, true
	case 'B', 'b':
		return Bishop, true
	case 'N', 'n':
		return Knight, true
	case 'P', 'p':
		return Pawn, true
	}
	return NoKind, false
}

// Piece is a colored piece. The zero value is an empty square.
type Piece struct {
	Color Color
	Kind  Kind
}

func (p Piece) IsZero() bool {
	return p.Kind == NoKind
}

// Tag encodes the piece as color letter plus kind letter, e.g. "WK", "BP"
func (p Piece) Tag() string {
	if p.IsZero() {
		return ""
	}
	c := byte('W')
	if p.Color == ColorBlack {
		c = 'B'
	}
	return string([]byte{c, p.Kind.Letter()})
}

// FENByte returns the FEN letter, uppercase for white
func (p Piece) FENByte() byte {
	l := p.Kind.Letter()
	if p.Color == ColorBlack {
		return l + ('a' - 'A')
	}
	return l
}

func (p Piece) MarshalText() ([]byte, error) {
	return []byte(p.Tag()), nil
}
