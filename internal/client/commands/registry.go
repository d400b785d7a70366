// Package commands implements the remote client's REPL commands.
package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"chessrules/internal/client/api"
	"chessrules/internal/client/display"
)

// Session is the client-side state shared by all commands
type Session struct {
	Client        *api.Client
	Out           io.Writer
	CurrentGame   string
	LastMoveCount int
	Verbose       bool
	// ReadSecret reads a line without echo; nil disables hidden prompts
	ReadSecret func(prompt string) (string, error)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *Session
	commands map[string]*Command
	names    []string
}

func NewRegistry(session *Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerSeatCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	r.names = append(r.names, cmd.Name)
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line. A line that names no command is sent to the
// current game as a move, so "e2 e4" works without the "move" prefix.
func (r *Registry) Execute(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	r.session.Client.Verbose = r.session.Verbose

	cmd, exists := r.commands[parts[0]]
	if !exists {
		if r.session.CurrentGame == "" {
			r.session.printf("%sUnknown command: %s%s\n", display.Fail, parts[0], display.Reset)
			r.session.printf("Type 'help' for available commands\n")
			return
		}
		cmd, parts = r.commands["move"], append([]string{"move"}, parts...)
	}

	if err := cmd.Handler(r.session, parts[1:]); err != nil {
		r.session.printf("%sError: %s%s\n", display.Fail, err.Error(), display.Reset)
	}
}

func (r *Registry) helpHandler(s *Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		s.printf("\n%s%s%s - %s\n", display.Heading, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			s.printf("Short form: %s%s%s\n", display.Heading, cmd.ShortName, display.Reset)
		}
		s.printf("Usage: %s\n", cmd.Usage)
		return nil
	}

	s.printf("\n%sAvailable Commands:%s\n\n", display.Heading, display.Reset)

	names := append([]string(nil), r.names...)
	sort.Strings(names)
	for _, name := range names {
		cmd := r.commands[name]
		short := "   "
		if cmd.ShortName != "" {
			short = fmt.Sprintf("[%s]", cmd.ShortName)
		}
		s.printf("  %s %-8s %s\n", short, cmd.Name, cmd.Description)
	}

	s.printf("\nType 'help <command>' for detailed usage\n")
	s.printf("Any other input is sent to the current game as a move, e.g. 'e2 e4'\n")
	return nil
}

func requireGame(s *Session) (string, error) {
	if s.CurrentGame == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}
	return s.CurrentGame, nil
}
