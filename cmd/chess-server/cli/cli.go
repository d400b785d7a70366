package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/service"
	"chessrules/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/term"
)

// Run is the entry point for the CLI mini-app
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, moves, replay, seat")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "query":
		return runQuery(args[1:])
	case "moves":
		return runMoves(args[1:])
	case "replay":
		return runReplay(args[1:])
	case "seat":
		return runSeat(args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// openStore parses the shared -path flag after fs has been set up
func openStore(fs *flag.FlagSet, args []string) (*storage.Store, error) {
	path := fs.String("path", "", "Database file path (required)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return nil, fmt.Errorf("database path required")
	}
	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	store, err := openStore(flag.NewFlagSet("init", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Println("Database initialized")
	return nil
}

func runDelete(args []string) error {
	store, err := openStore(flag.NewFlagSet("delete", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Println("Database deleted")
	return nil
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	state := fs.String("state", "", "Game state to filter, e.g. ongoing (optional, * for all)")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *state)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Println("No games found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tTurn\tState\tStart Time\tInitial Placement")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			g.GameID,
			g.InitialTurn,
			g.State,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
			g.InitialPlacement,
		)
	}
	w.Flush()

	fmt.Printf("\nFound %d game(s)\n", len(games))
	return nil
}

func runMoves(args []string) error {
	fs := flag.NewFlagSet("moves", flag.ContinueOnError)
	gameID := fs.String("gameId", "", "Game ID (required)")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	moves, err := store.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(moves) == 0 {
		fmt.Println("No moves found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSide\tCommand\tStatus\tTime\tPlacement After")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, m := range moves {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			m.MoveNumber,
			m.PlayerColor,
			m.Command,
			m.Status,
			m.MoveTimeUTC.Format("15:04:05"),
			m.PlacementAfter,
		)
	}
	w.Flush()

	fmt.Printf("\n%d move(s)\n", len(moves))
	return nil
}

// runReplay re-applies a stored game's commands and reports the first one whose
// recorded status no longer matches
func runReplay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	gameID := fs.String("gameId", "", "Game ID (required)")

	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	games, err := store.QueryGames(*gameID, "")
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(games) == 0 {
		return fmt.Errorf("game not found: %s", *gameID)
	}
	rec := games[0]

	turn, ok := core.ParseColor(rec.InitialTurn)
	if !ok {
		return fmt.Errorf("stored turn %q is invalid", rec.InitialTurn)
	}
	g, err := game.NewFromPlacement(rec.InitialPlacement, turn)
	if err != nil {
		return fmt.Errorf("stored placement: %w", err)
	}

	moves, err := store.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	for _, m := range moves {
		res := g.Play(m.Command)
		if res.Status.String() != m.Status {
			return fmt.Errorf("move %d %q: replayed status %s, recorded %s", m.MoveNumber, m.Command, res.Status, m.Status)
		}
	}

	fmt.Println(g.Board().ToASCII())
	fmt.Printf("\nReplayed %d move(s), state: %s\n", len(moves), g.State())
	if g.State().String() != rec.State {
		fmt.Printf("Warning: recorded state is %q\n", rec.State)
	}
	return nil
}

// runSeat signs a move token offline for servers started with a fixed seat secret
func runSeat(args []string) error {
	fs := flag.NewFlagSet("seat", flag.ContinueOnError)
	gameID := fs.String("gameId", "", "Game ID (required)")
	color := fs.String("color", "", "Seat color, w or b (required)")
	interactive := fs.Bool("interactive", false, "Prompt for the secret instead of reading "+service.SeatSecretEnv)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := uuid.Parse(*gameID); err != nil {
		return fmt.Errorf("valid game ID required")
	}
	c, ok := core.ParseColor(*color)
	if !ok {
		return fmt.Errorf("color must be w or b")
	}

	var secret []byte
	if *interactive {
		fmt.Print("Enter seat secret: ")
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read secret: %w", err)
		}
		secret = b
	} else {
		secret = []byte(os.Getenv(service.SeatSecretEnv))
	}
	if len(secret) < 32 {
		return fmt.Errorf("seat secret must be at least 32 characters")
	}

	token, err := service.SignSeatToken(secret, *gameID, c)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
