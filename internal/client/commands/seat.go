package commands

import (
	"fmt"
	"strings"

	"chessrules/internal/client/display"
)

func (r *Registry) registerSeatCommands() {
	r.Register(&Command{
		Name:        "seat",
		ShortName:   "t",
		Description: "Move with a seat token (prompts without echo when omitted)",
		Usage:       "seat [token]",
		Handler:     seatHandler,
	})

	r.Register(&Command{
		Name:        "unseat",
		ShortName:   "o",
		Description: "Drop the seat token",
		Usage:       "unseat",
		Handler:     unseatHandler,
	})
}

func seatHandler(s *Session, args []string) error {
	var token string
	switch {
	case len(args) > 0:
		token = args[0]
	case s.ReadSecret != nil:
		var err error
		if token, err = s.ReadSecret(display.Notice + "Seat token: " + display.Reset); err != nil {
			return err
		}
	default:
		return fmt.Errorf("usage: seat <token>")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("empty token")
	}
	s.Client.SetToken(token)
	s.printf("%sSeat token set%s\n", display.OK, display.Reset)
	return nil
}

func unseatHandler(s *Session, args []string) error {
	s.Client.SetToken("")
	s.printf("%sSeat token cleared%s\n", display.OK, display.Reset)
	return nil
}
