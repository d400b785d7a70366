// Package main implements an interactive client for the rules server API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"chessrules/internal/client/api"
	"chessrules/internal/client/commands"
	"chessrules/internal/client/display"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API server base URL")
	trace := flag.Bool("trace", false, "Print every API request and response status")
	flag.Parse()

	client := api.New(*baseURL)
	if *trace {
		client.Trace = os.Stdout
	}

	s := &commands.Session{
		Client:     client,
		Out:        os.Stdout,
		ReadSecret: readSecret,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     ".chess_client_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Fail, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sChess Rules Client%s\n", display.Heading, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Heading, client.BaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" || line == "x" {
			break
		}
		registry.Execute(line)
	}
}

func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func buildPrompt(s *commands.Session) string {
	prompt := "chess"
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		prompt += display.Notice + " [" + display.Reset + display.Ident + id + display.Reset + display.Notice + "]"
	}
	if s.Client.AuthToken != "" {
		prompt += display.Accent + " seated" + display.Reset + display.Notice
	}
	return display.Prompt(prompt)
}
