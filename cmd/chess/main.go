// Package main runs the interactive two-player console game.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/service"
	"chessrules/internal/stats"
	clitransport "chessrules/internal/transport/cli"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		profile  = flag.String("profile", "default", "Profile name for statistics and preferences")
		statsDir = flag.String("stats-dir", "", "Directory of the statistics store (default: user config dir)")
		noStats  = flag.Bool("no-stats", false, "Do not record statistics or preferences")
		theme    = flag.String("color", "", "Board color theme (off|brown|green|gray), overrides the saved one")
	)
	flag.Parse()

	var st *stats.Store
	if !*noStats {
		dir := *statsDir
		if dir == "" {
			var err error
			if dir, err = stats.DefaultDir(); err != nil {
				log.Fatalf("Failed to locate stats directory: %v", err)
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create stats directory: %v", err)
		}
		var err error
		if st, err = stats.Open(dir); err != nil {
			log.Printf("Statistics disabled: %v", err)
			st = nil
		} else {
			defer st.Close()
		}
	}

	svc := service.New(service.Config{})
	defer svc.Shutdown(time.Second)

	view := cli.New(os.Stdout)
	if err := view.SetTheme(cli.DefaultTheme(term.IsTerminal(int(os.Stdout.Fd())))); err != nil {
		log.Fatal(err)
	}

	handler := clitransport.New(svc, view, st, *profile)
	if *theme != "" {
		if err := view.SetTheme(*theme); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".chessrules_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("Failed to start line editor: %v", err)
	}
	defer rl.Close()

	view.ShowWelcome()
	handler.Run(rl)
}
