package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflowhq/veriflow/internal/model"
)

// recordedRequest captures what the server saw for assertions.
type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Digest string
	Body   []byte
}

func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = append(seen, recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Auth:   r.Header.Get("Authorization"),
			Digest: r.Header.Get(DigestHeader),
			Body:   body,
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestNewClient_RejectsInvalidURL(t *testing.T) {
	for _, bad := range []string{"", "not a url", "/relative/path", "host-only"} {
		_, err := NewClient(bad, "acme", "")
		assert.Error(t, err, "url %q", bad)
	}
}

func TestNewClient_AcceptsValidURL(t *testing.T) {
	c, err := NewClient("https://sync.example.com", "acme", "tok")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestSaveResponse_RequestShape(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusOK, "{}")
	c, err := NewClient(srv.URL, "acme", "secret-token")
	require.NoError(t, err)

	r := model.ControlResponse{ID: "resp-1", ControlID: "AC-1", Answer: model.AnswerYes}
	require.NoError(t, c.SaveResponse(context.Background(), r))

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/orgs/acme/responses/AC-1", got.Path)
	assert.Equal(t, "Bearer secret-token", got.Auth)

	var sent model.ControlResponse
	require.NoError(t, json.Unmarshal(got.Body, &sent))
	assert.Equal(t, "AC-1", sent.ControlID)
	assert.Equal(t, model.AnswerYes, sent.Answer)
}

func TestSaveResponse_CarriesResponseDigest(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusOK, "{}")
	c, err := NewClient(srv.URL, "acme", "")
	require.NoError(t, err)

	r := model.ControlResponse{ID: "resp-1", ControlID: "AC-1", Answer: model.AnswerYes}
	require.NoError(t, c.SaveResponse(context.Background(), r))

	want, err := model.ResponseFingerprint(r)
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	assert.Equal(t, want, (*seen)[0].Digest)

	// Saving the identical record again carries the identical digest,
	// which is what lets the remote deduplicate replays.
	require.NoError(t, c.SaveResponse(context.Background(), r))
	require.Len(t, *seen, 2)
	assert.Equal(t, want, (*seen)[1].Digest)
}

func TestSaveCustomControl_RequestShape(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusOK, "{}")
	c, err := NewClient(srv.URL, "acme", "")
	require.NoError(t, err)

	cc := model.CustomControl{ID: "cc-1", Title: "Tabletop exercises", Domain: "Incident Response"}
	require.NoError(t, c.SaveCustomControl(context.Background(), cc))

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/orgs/acme/custom-controls/cc-1", got.Path)
	assert.Empty(t, got.Auth, "empty token disables the Authorization header")
}

func TestDeleteCustomControl_RequestShape(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusNoContent, "")
	c, err := NewClient(srv.URL, "acme", "")
	require.NoError(t, err)

	require.NoError(t, c.DeleteCustomControl(context.Background(), "cc-1"))

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/orgs/acme/custom-controls/cc-1", got.Path)
}

func TestCreateNotification_RequestShape(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusCreated, "{}")
	c, err := NewClient(srv.URL, "acme", "")
	require.NoError(t, err)

	n := model.SyncNotification{ID: "n-1", ControlID: "AC-1", FrameworkID: "SOC2"}
	require.NoError(t, c.CreateNotification(context.Background(), n))

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/orgs/acme/notifications", got.Path)
}

func TestFetchSnapshot_DecodesAndNormalizes(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusOK,
		`{"responses":{"AC-1":{"id":"resp-1","control_id":"AC-1","answer":"yes"}}}`)
	c, err := NewClient(srv.URL, "acme", "")
	require.NoError(t, err)

	snap, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	assert.Equal(t, "/orgs/acme/snapshot", (*seen)[0].Path)

	require.Contains(t, snap.Responses, "AC-1")
	assert.Equal(t, model.AnswerYes, snap.Responses["AC-1"].Answer)
	assert.NotNil(t, snap.Evidence, "absent maps are normalized to empty")
}

func TestClient_ErrorStatusSurfacesBody(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusForbidden, "token expired")
	c, err := NewClient(srv.URL, "acme", "stale")
	require.NoError(t, err)

	err = c.SaveResponse(context.Background(), model.ControlResponse{ControlID: "AC-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "token expired")
}

func TestClient_OrgIDIsPathEscaped(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusOK, "{}")
	c, err := NewClient(srv.URL, "acme/../other", "")
	require.NoError(t, err)

	require.NoError(t, c.CreateNotification(context.Background(), model.SyncNotification{ID: "n-1"}))

	require.Len(t, *seen, 1)
	assert.NotContains(t, (*seen)[0].Path, "/../")
	assert.Contains(t, (*seen)[0].Path, "%2F")
}

func TestClient_ContextCancellation(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, "{}")
	c, err := NewClient(srv.URL, "acme", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = c.SaveResponse(ctx, model.ControlResponse{ControlID: "AC-1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDisabled_WritesAreNoops(t *testing.T) {
	d := Disabled{}
	ctx := context.Background()

	assert.NoError(t, d.SaveResponse(ctx, model.ControlResponse{}))
	assert.NoError(t, d.SaveCustomControl(ctx, model.CustomControl{}))
	assert.NoError(t, d.DeleteCustomControl(ctx, "cc-1"))
	assert.NoError(t, d.CreateNotification(ctx, model.SyncNotification{}))
}

func TestDisabled_FetchReportsDisabled(t *testing.T) {
	_, err := Disabled{}.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
}
