package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"missiondeck/internal/config"
	"missiondeck/internal/logging"
	"missiondeck/internal/mission"
)

// HTTPDoer describes the HTTP client used by the backend client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the content-production backend.
type Client struct {
	baseURL string
	client  HTTPDoer
	logger  *slog.Logger
}

// NewClient constructs a backend client with a plain http.Client and the
// given per-request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return NewClientWithDoer(baseURL, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithDoer constructs a backend client around a caller-supplied
// transport, primarily for tests.
func NewClientWithDoer(baseURL string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  doer,
		logger:  logging.NewComponentLogger(logger, "api"),
	}
}

// NewConfiguredClient builds a client from application config.
func NewConfiguredClient(cfg *config.Config, logger *slog.Logger) *Client {
	return NewClient(cfg.Backend.URL, time.Duration(cfg.Backend.RequestTimeout)*time.Second, logger)
}

// Missions fetches the full mission snapshot. There is no pagination; the
// backend always returns the complete list.
func (c *Client) Missions(ctx context.Context) ([]mission.Mission, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/posts", nil)
	if err != nil {
		return nil, &FetchError{Op: "missions", Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "missions", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{Op: "missions", Err: fmt.Errorf("backend returned %d", resp.StatusCode)}
	}

	var missions []mission.Mission
	if err := json.NewDecoder(resp.Body).Decode(&missions); err != nil {
		return nil, &FetchError{Op: "missions", Err: fmt.Errorf("decode snapshot: %w", err)}
	}
	return missions, nil
}

// RunWorkflow starts a new mission. The backend resumes an existing failed
// mission for the same topic on its own.
func (c *Client) RunWorkflow(ctx context.Context, request WorkflowRequest) (*WorkflowResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/run-workflow", request)
	if err != nil {
		return nil, &ActionError{Action: "run-workflow", Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ActionError{Action: "run-workflow", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &ActionError{Action: "run-workflow", Err: fmt.Errorf("backend returned %d", resp.StatusCode)}
	}

	var ack WorkflowResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil && err != io.EOF {
		// Acknowledgement body is informational; a missing one is fine.
		c.logger.Debug("run-workflow ack not decodable", logging.Error(err))
	}
	return &ack, nil
}

// Approve posts an APPROVE or REJECT verdict for a mission.
func (c *Client) Approve(ctx context.Context, missionID string, action ApprovalAction) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/approve/"+missionID, approvalRequest{Action: action})
	if err != nil {
		return &ActionError{Action: string(action), MissionID: missionID, Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &ActionError{Action: string(action), MissionID: missionID, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &ActionError{Action: string(action), MissionID: missionID, Err: fmt.Errorf("backend returned %d", resp.StatusCode)}
	}
	return nil
}

// Delete permanently removes a mission.
func (c *Client) Delete(ctx context.Context, missionID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/posts/"+missionID, nil)
	if err != nil {
		return &ActionError{Action: "delete", MissionID: missionID, Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &ActionError{Action: "delete", MissionID: missionID, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &ActionError{Action: "delete", MissionID: missionID, Err: fmt.Errorf("backend returned %d", resp.StatusCode)}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}
