package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/veriflowhq/veriflow/internal/model"
)

// DefaultTimeout bounds each remote call. Timeout policy lives here,
// in the collaborator, not in the state store.
const DefaultTimeout = 10 * time.Second

// Client is a JSON-over-HTTP Remote backed by a hosted row store.
//
// Layout:
//
//	PUT    {base}/orgs/{org}/responses/{controlID}
//	PUT    {base}/orgs/{org}/custom-controls/{id}
//	DELETE {base}/orgs/{org}/custom-controls/{id}
//	POST   {base}/orgs/{org}/notifications
//	GET    {base}/orgs/{org}/snapshot
type Client struct {
	base   string
	org    string
	token  string
	client *http.Client
}

var _ Syncer = (*Client)(nil)

// NewClient creates a Client for the given base URL and organization.
// An empty token disables the Authorization header.
func NewClient(baseURL, orgID, token string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("sync: invalid remote url %q", baseURL)
	}
	return &Client{
		base:   u.String(),
		org:    orgID,
		token:  token,
		client: &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// DigestHeader carries the response fingerprint on save calls. The
// remote store uses it to discard replayed writes without parsing the
// body.
const DigestHeader = "Veriflow-Response-Digest"

// SaveResponse upserts a control response.
func (c *Client) SaveResponse(ctx context.Context, r model.ControlResponse) error {
	path := fmt.Sprintf("/orgs/%s/responses/%s", url.PathEscape(c.org), url.PathEscape(r.ControlID))
	digest, err := model.ResponseFingerprint(r)
	if err != nil {
		return fmt.Errorf("sync: fingerprint response %s: %w", r.ControlID, err)
	}
	return c.do(ctx, http.MethodPut, path, r, nil, digest)
}

// SaveCustomControl upserts a custom control definition.
func (c *Client) SaveCustomControl(ctx context.Context, cc model.CustomControl) error {
	path := fmt.Sprintf("/orgs/%s/custom-controls/%s", url.PathEscape(c.org), url.PathEscape(cc.ID))
	return c.do(ctx, http.MethodPut, path, cc, nil, "")
}

// DeleteCustomControl records a soft delete remotely.
func (c *Client) DeleteCustomControl(ctx context.Context, id string) error {
	path := fmt.Sprintf("/orgs/%s/custom-controls/%s", url.PathEscape(c.org), url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, path, nil, nil, "")
}

// CreateNotification appends a notification.
func (c *Client) CreateNotification(ctx context.Context, n model.SyncNotification) error {
	path := fmt.Sprintf("/orgs/%s/notifications", url.PathEscape(c.org))
	return c.do(ctx, http.MethodPost, path, n, nil, "")
}

// FetchSnapshot retrieves the full remote state.
func (c *Client) FetchSnapshot(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	path := fmt.Sprintf("/orgs/%s/snapshot", url.PathEscape(c.org))
	if err := c.do(ctx, http.MethodGet, path, nil, &snap, ""); err != nil {
		return model.Snapshot{}, err
	}
	if snap.Responses == nil {
		snap.Responses = make(map[string]model.ControlResponse)
	}
	if snap.Evidence == nil {
		snap.Evidence = make(map[string]model.EvidenceRecord)
	}
	return snap, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, digest string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sync: marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("sync: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if digest != "" {
		req.Header.Set(DigestHeader, digest)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sync: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Bounded read keeps a misbehaving remote from bloating logs.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sync: %s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("sync: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}
