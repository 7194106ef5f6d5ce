// pattern: Imperative Shell
package instance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"notebench/internal/canvas"
)

// Client is a thin HTTP client for the observer API of a running notebench
// instance. External tools pair it with Discover to drive the layout of the
// workspace a user has open.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client targeting the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Workspaces fetches the workspace list and the active workspace id.
func (c *Client) Workspaces() (active string, ids []string, err error) {
	body, err := c.get("/api/workspaces")
	if err != nil {
		return "", nil, err
	}
	var resp struct {
		Active     string   `json:"active"`
		Workspaces []string `json:"workspaces"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, fmt.Errorf("failed to decode workspace list: %w", err)
	}
	return resp.Active, resp.Workspaces, nil
}

// Layout fetches and decodes the layout tree of the given workspace.
func (c *Client) Layout(workspaceID string) (canvas.Node, error) {
	body, err := c.get("/api/workspaces/" + workspaceID + "/layout")
	if err != nil {
		return nil, err
	}
	return canvas.UnmarshalTree(body)
}

// SendCommand submits a layout command against the active workspace. The
// server validates the command and applies it on the UI loop; acceptance
// does not mean the mutation has landed yet.
func (c *Client) SendCommand(workspaceID string, cmd canvas.Command) error {
	_, err := c.postJSON("/api/workspaces/"+workspaceID+"/commands", cmd)
	return err
}

// get performs a GET request and returns the response body.
func (c *Client) get(path string) ([]byte, error) {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to notebench: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("notebench returned status %d: %s", resp.StatusCode, string(bytes.TrimSpace(body)))
	}

	return body, nil
}

// postJSON performs a POST request with a JSON body and returns the response
// body.
func (c *Client) postJSON(path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to notebench: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("notebench returned status %d: %s", resp.StatusCode, string(bytes.TrimSpace(respBody)))
	}

	return respBody, nil
}
