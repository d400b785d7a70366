// Package api is a thin JSON client for the rules server's HTTP API.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

// HealthResponse mirrors the /health payload
type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
}

// APIError is returned for any 4xx/5xx response
type APIError struct {
	StatusCode int
	core.ErrorResponse
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s", e.StatusCode, e.ErrorResponse.Error)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

type Client struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
	// Trace receives a line per request and response when non-nil
	Trace   io.Writer
	Verbose bool
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// Above the server's long-poll ceiling
			Timeout: 35 * time.Second,
		},
	}
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) SetToken(token string) {
	c.AuthToken = token
}

func (c *Client) tracef(format string, args ...any) {
	if c.Trace != nil {
		fmt.Fprintf(c.Trace, format, args...)
	}
}

func (c *Client) doRequest(method, path string, body any, result any) error {
	var bodyReader io.Reader
	var jsonData []byte
	if body != nil {
		var err error
		if jsonData, err = json.Marshal(body); err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	c.tracef("%s[API] %s %s%s\n", display.Trace, method, path, display.Reset)
	if c.Verbose && len(jsonData) > 0 {
		c.tracef("%s%s%s\n", display.Trace, jsonData, display.Reset)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.OK
	if resp.StatusCode >= 400 {
		statusColor = display.Fail
	}
	c.tracef("%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)
	if c.Verbose && len(respBody) > 0 {
		c.tracef("%s\n", display.PrettyJSON(respBody))
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.ErrorResponse); err != nil || apiErr.ErrorResponse.Error == "" {
			apiErr.ErrorResponse.Error = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func gamePath(gameID string) string {
	return "/api/v1/games/" + url.PathEscape(gameID)
}

// API Methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req *core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID), nil, &resp)
	return &resp, err
}

// GetGameWithPoll blocks server-side until the game's command count differs
// from moveCount or the server's wait times out
func (c *Client) GetGameWithPoll(gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("%s?wait=true&moveCount=%d", gamePath(gameID), moveCount)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, gamePath(gameID), nil, nil)
}

func (c *Client) MakeMove(gameID, command string) (*core.MoveResponse, error) {
	var resp core.MoveResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID)+"/moves", &core.MoveRequest{Command: command}, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID)+"/undo", &core.UndoRequest{Count: count}, &resp)
	return &resp, err
}

func (c *Client) ResetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID)+"/reset", nil, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID)+"/board", nil, &resp)
	return &resp, err
}

func (c *Client) GetMoves(gameID string) (*core.MovesResponse, error) {
	var resp core.MovesResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID)+"/moves", nil, &resp)
	return &resp, err
}
