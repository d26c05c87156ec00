package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client talks to the eCourts case-management backend. All business logic
// (database updates, calendar integration, file cleanup) lives server-side;
// the client only moves JSON back and forth and surfaces errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for the given base URL, e.g. "http://localhost:5000".
func NewClient(baseURL string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[api] ", log.LstdFlags)
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("invalid server URL %q: %v", baseURL, err)
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}, nil
}

// Cases fetches the full case list snapshot.
func (c *Client) Cases(ctx context.Context) ([]Case, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cases", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch cases: server returned %s", resp.Status)
	}

	var cases []Case
	if err := json.NewDecoder(resp.Body).Decode(&cases); err != nil {
		return nil, fmt.Errorf("decode cases: %w", err)
	}
	return cases, nil
}

// UpdateNotes saves the notes text for a single case.
func (c *Client) UpdateNotes(ctx context.Context, cino, notes string) error {
	return c.UpdateCase(ctx, cino, notes, nil)
}

// UpdateCase saves notes plus any additional field updates (hearing date,
// decision date) for a single case.
func (c *Client) UpdateCase(ctx context.Context, cino, notes string, fields map[string]string) error {
	body := map[string]any{"notes": notes}
	if len(fields) > 0 {
		body["updates"] = fields
	}
	var out struct {
		Message string `json:"message,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	if err := c.postJSON(ctx, "/case/"+url.PathEscape(cino)+"/update", body, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return fmt.Errorf("update case %s: %s", cino, out.Error)
	}
	return nil
}

// UpdateUserSide records which party the firm represents in a case.
func (c *Client) UpdateUserSide(ctx context.Context, cino, side string) error {
	body := map[string]any{"user_side": side}
	var out struct {
		Message string `json:"message,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	if err := c.postJSON(ctx, "/case/"+url.PathEscape(cino)+"/update_user_side", body, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return fmt.Errorf("update user side for %s: %s", cino, out.Error)
	}
	return nil
}

// ToggleSelection marks or unmarks cases as reviewed in bulk. action is one
// of ActionMarkReviewed / ActionRemoveFromReviewed.
func (c *Client) ToggleSelection(ctx context.Context, cinos []string, action string) (ToggleSelectionResult, error) {
	body := map[string]any{"cinos": cinos, "action": action}
	var out ToggleSelectionResult
	if err := c.postJSON(ctx, "/toggle_case_selection", body, &out); err != nil {
		return ToggleSelectionResult{}, err
	}
	if out.Error != "" {
		return ToggleSelectionResult{}, fmt.Errorf("toggle selection: %s", out.Error)
	}
	return out, nil
}

// RemoveFromReviewedAndRevert removes cases from the reviewed set, optionally
// clearing notes instead of reverting fields to their prior snapshot.
func (c *Client) RemoveFromReviewedAndRevert(ctx context.Context, cinos []string, clearNotes bool) (RevertResult, error) {
	body := map[string]any{"cinos": cinos, "clear_notes": clearNotes}
	var out RevertResult
	if err := c.postJSON(ctx, "/remove_from_reviewed_and_revert", body, &out); err != nil {
		return RevertResult{}, err
	}
	if out.Error != "" {
		return RevertResult{}, fmt.Errorf("remove from reviewed: %s", out.Error)
	}
	return out, nil
}

// RemoveFromReviewedComprehensive removes cases from the reviewed set with an
// explicit action type ("clear_fields" or "revert_fields").
func (c *Client) RemoveFromReviewedComprehensive(ctx context.Context, cinos []string, actionType string) (ComprehensiveResult, error) {
	body := map[string]any{"cinos": cinos, "action_type": actionType}
	var out ComprehensiveResult
	if err := c.postJSON(ctx, "/remove_from_reviewed_comprehensive", body, &out); err != nil {
		return ComprehensiveResult{}, err
	}
	if out.Error != "" {
		return ComprehensiveResult{}, fmt.Errorf("remove from reviewed: %s", out.Error)
	}
	return out, nil
}

// CreateCalendarEvents submits cases for calendar event creation.
func (c *Client) CreateCalendarEvents(ctx context.Context, filter string, cases []Case, scope string) (CalendarCreateResult, error) {
	body := map[string]any{"filter": filter, "cases": cases, "scope": scope}
	var out CalendarCreateResult
	if err := c.postJSON(ctx, "/create_calendar_events", body, &out); err != nil {
		return CalendarCreateResult{}, err
	}
	if out.Error != "" {
		return CalendarCreateResult{}, fmt.Errorf("create calendar events: %s", out.Error)
	}
	return out, nil
}

// DeleteSelectedCalendarEvents deletes the calendar events backing the given cases.
func (c *Client) DeleteSelectedCalendarEvents(ctx context.Context, cases []Case, scope string) (CalendarDeleteResult, error) {
	body := map[string]any{"cases": cases, "scope": scope}
	var out CalendarDeleteResult
	if err := c.postJSON(ctx, "/delete_selected_calendar_events", body, &out); err != nil {
		return CalendarDeleteResult{}, err
	}
	if out.Error != "" {
		return CalendarDeleteResult{}, fmt.Errorf("delete calendar events: %s", out.Error)
	}
	return out, nil
}

// DeleteAllCasesAndCalendar wipes the server-side case database and every
// court calendar event. The confirmation string must match what the server
// expects; anything else is rejected server-side.
func (c *Client) DeleteAllCasesAndCalendar(ctx context.Context, confirmation string) error {
	body := map[string]any{"confirmation": confirmation}
	var out struct {
		Message string `json:"message,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	if err := c.postJSON(ctx, "/delete_all_cases_and_calendar", body, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return fmt.Errorf("delete all: %s", out.Error)
	}
	return nil
}

// postJSON sends a JSON body and decodes the JSON response into out. Non-2xx
// responses are reported as errors; when the error body itself is JSON with
// an "error" field, that message is used instead of the raw status.
func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies are usually {"error": "..."}; fall back to the status line.
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			return fmt.Errorf("POST %s: %s", path, errBody.Error)
		}
		return fmt.Errorf("POST %s: server returned %s", path, resp.Status)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return nil
}
