package core

// Request types

type CreateGameRequest struct {
	Placement string `json:"placement,omitempty" validate:"omitempty,max=100"`
	Turn      string `json:"turn,omitempty" validate:"omitempty,oneof=w b"`
}

type MoveRequest struct {
	Command string `json:"command" validate:"required,min=1,max=32"` // "e2 e4", "a7 a8 N", "g1 f3 draw?", "resign"
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

// Response types

type GameResponse struct {
	GameID    string     `json:"gameId"`
	Placement string     `json:"placement"`
	Turn      string     `json:"turn"`  // "w" or "b"
	State     string     `json:"state"` // "ongoing", "checkmate white wins", ...
	Status    Status     `json:"status"`
	Board     []Occupant `json:"board"`
	Moves     []string   `json:"moves"`
	Seats     *Seats     `json:"seats,omitempty"`
}

// Occupant is the wire form of one occupied square
type Occupant struct {
	Square string `json:"square"`
	Piece  string `json:"piece"` // color letter + kind letter, e.g. "WK"
}

// Seats carries the per-color move tokens issued with a new game
type Seats struct {
	White string `json:"white"`
	Black string `json:"black"`
}

type MoveResponse struct {
	GameID string     `json:"gameId"`
	Status Status     `json:"status"`
	Board  []Occupant `json:"board"`
	Turn   string     `json:"turn"`
	State  string     `json:"state"`
}

type BoardResponse struct {
	Placement string `json:"placement"`
	Board     string `json:"board"` // ASCII representation
}

type MovesResponse struct {
	GameID string   `json:"gameId"`
	Moves  []string `json:"moves"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
