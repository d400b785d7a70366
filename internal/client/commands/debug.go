package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"chessrules/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Description: "Check server health",
		Usage:       "health",
		Handler:     healthHandler,
	})

	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Description: "Set API base URL",
		Usage:       "url [apiUrl]",
		Handler:     urlHandler,
	})

	r.Register(&Command{
		Name:        "verbose",
		ShortName:   "v",
		Description: "Toggle request and response bodies",
		Usage:       "verbose",
		Handler:     verboseHandler,
	})
}

func healthHandler(s *Session, args []string) error {
	resp, err := s.Client.Health()
	if err != nil {
		return err
	}

	s.printf("%sServer Health:%s\n", display.Heading, display.Reset)
	s.printf("  Status:  %s\n", resp.Status)
	s.printf("  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	if resp.Storage != "" {
		s.printf("  Storage: %s\n", resp.Storage)
	}
	return nil
}

func urlHandler(s *Session, args []string) error {
	if len(args) == 0 {
		s.printf("Current API URL: %s\n", s.Client.BaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	s.Client.SetBaseURL(url)

	s.printf("%sAPI URL set to: %s%s\n", display.Heading, s.Client.BaseURL, display.Reset)
	return nil
}

func verboseHandler(s *Session, args []string) error {
	s.Verbose = !s.Verbose
	s.printf("Verbose: %t\n", s.Verbose)
	return nil
}

func printJSON(s *Session, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("format JSON: %w", err)
	}
	s.printf("%s\n", display.PrettyJSON(data))
	return nil
}
