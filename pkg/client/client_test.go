package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formhost/pkg/client"
	"github.com/goliatone/go-formhost/pkg/formio"
)

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *client.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, client.New(server.URL)
}

func TestLoginReadsTokenFromHeader(t *testing.T) {
	var gotBody map[string]any
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/user/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set(client.TokenHeader, "jwt-from-header")
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "user-1", "data": map[string]any{"email": "a@b.c"}})
	})

	result, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-from-header", result.Token)
	assert.True(t, c.IsAuthenticated())

	wantBody := map[string]any{"data": map[string]any{"email": "a@b.c", "password": "secret"}}
	if diff := cmp.Diff(wantBody, gotBody); diff != "" {
		t.Fatalf("login body mismatch (-want +got):\n%s", diff)
	}
}

func TestLoginFallsBackToBodyToken(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "jwt-from-body"})
	})

	result, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-from-body", result.Token)
}

func TestReLoginReplacesHeldTokenFromBody(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "jwt-new"})
	})

	c.SetToken("jwt-stale")
	result, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-new", result.Token)
	assert.Equal(t, "jwt-new", c.Token())
}

func TestLoginWithoutAnyTokenFails(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "user-1"})
	})

	c.SetToken("jwt-stale")
	_, err := c.Login(context.Background(), "a@b.c", "secret")
	var authErr *client.AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestLoginFailureIsAuthError(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Invalid credentials"})
	})

	_, err := c.Login(context.Background(), "a@b.c", "wrong")
	var authErr *client.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid credentials", authErr.Message)
}

func TestTokenAttachedAndClearedOn401(t *testing.T) {
	var seenTokens []string
	calls := 0
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		seenTokens = append(seenTokens, r.Header.Get(client.TokenHeader))
		calls++
		if calls == 1 {
			_ = json.NewEncoder(w).Encode([]formio.Form{})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	c.SetToken("jwt-1")

	_, err := c.ListForms(context.Background())
	require.NoError(t, err)

	_, err = c.ListForms(context.Background())
	require.True(t, client.IsAuth(err), "expected AuthError, got %v", err)
	assert.False(t, c.IsAuthenticated(), "401 must clear the stored token")

	assert.Equal(t, []string{"jwt-1", "jwt-1"}, seenTokens)
}

func TestLogoutOmitsTokenEntirely(t *testing.T) {
	var header string
	var present bool
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get(client.TokenHeader)
		_, present = r.Header[http.CanonicalHeaderKey(client.TokenHeader)]
		_ = json.NewEncoder(w).Encode([]formio.Form{})
	})
	c.SetToken("jwt-1")
	c.Logout()

	_, err := c.ListForms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, header)
	assert.False(t, present, "token header must be absent after logout")
}

func TestRequestErrorCarriesServiceBody(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":    "ValidationError",
			"message": "component key is required",
			"details": []map[string]any{{"message": "key missing", "path": []string{"components", "0"}}},
		})
	})

	_, err := c.GetForm(context.Background(), "f1")
	var reqErr *client.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
	assert.Equal(t, "ValidationError", reqErr.Name)
	assert.Equal(t, "component key is required", reqErr.Message)
	require.Len(t, reqErr.Details, 1)
	assert.Equal(t, "key missing", reqErr.Details[0].Message)
}

func TestRequestErrorWithoutBodyUsesStatusText(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetForm(context.Background(), "missing")
	var reqErr *client.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.Equal(t, http.StatusText(http.StatusNotFound), reqErr.Message)
}

func TestTimeoutProducesNetworkError(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked // never resolves within the client timeout
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(blocked) })

	c := client.New(server.URL, client.WithTimeout(50*time.Millisecond))
	_, err := c.ListForms(context.Background())

	var netErr *client.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout)
}

func TestConnectionFailureProducesNetworkError(t *testing.T) {
	c := client.New("http://127.0.0.1:1") // nothing listens there
	_, err := c.HealthCheck(context.Background())
	require.True(t, client.IsNetwork(err), "expected NetworkError, got %v", err)
}

func TestCreateSubmissionEchoesData(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/form/f1/submission", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"_id":   "sub-1",
			"form":  "f1",
			"state": "submitted",
			"data":  body["data"],
		})
	})

	data := formio.Data{"a": float64(1), "name": "Ada"}
	submission, err := c.CreateSubmission(context.Background(), "f1", data)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", submission.ID)
	assert.Equal(t, formio.StateSubmitted, submission.State)
	if diff := cmp.Diff(data, submission.Data); diff != "" {
		t.Fatalf("submission data mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveDraftSetsDraftState(t *testing.T) {
	var body map[string]any
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "d-1", "state": "draft", "data": body["data"]})
	})

	submission, err := c.SaveDraft(context.Background(), "f1", formio.Data{"a": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, "draft", body["state"])
	assert.Equal(t, formio.StateDraft, submission.State)
}

func TestListDraftsFiltersServerSide(t *testing.T) {
	var query url.Values
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_ = json.NewEncoder(w).Encode([]formio.Submission{{ID: "d-1", State: formio.StateDraft}})
	})

	drafts, err := c.ListDrafts(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "draft", query.Get("state"))
	require.Len(t, drafts, 1)
}

func TestGetFormByPath(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health-survey", r.URL.Path)
		_ = json.NewEncoder(w).Encode(formio.Form{ID: "f1", Path: "health-survey"})
	})

	form, err := c.GetFormByPath(context.Background(), "/health-survey/")
	require.NoError(t, err)
	assert.Equal(t, "f1", form.ID)
}

func TestHealthCheck(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(client.Health{Status: "ok", Version: "3.2.1"})
	})

	health, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "3.2.1", health.Version)
}

func TestTokenRefreshedFromResponseHeader(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(client.TokenHeader, "jwt-rotated")
		_ = json.NewEncoder(w).Encode([]formio.Form{})
	})
	c.SetToken("jwt-old")

	_, err := c.ListForms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jwt-rotated", c.Token())
}
