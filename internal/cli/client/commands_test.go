package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloo-solutions/feedback/internal/apiclient"
	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/cloo-solutions/feedback/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

// fakeAPI is an in-memory stand-in for the feedback REST API.
type fakeAPI struct {
	items    []domain.Feedback
	requests atomic.Int32
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /feedback", func(w http.ResponseWriter, r *http.Request) {
		var req domain.FeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		created := domain.NewFeedback("11111111-2222-3333-4444-555555555555", req, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
		f.items = append([]domain.Feedback{*created}, f.items...)
		writeJSON(w, http.StatusCreated, created)
	})
	mux.HandleFunc("GET /feedback/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, item := range f.items {
			if item.ID == r.PathValue("id") {
				writeJSON(w, http.StatusOK, item)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "feedback not found"})
	})
	mux.HandleFunc("GET /feedback", func(w http.ResponseWriter, r *http.Request) {
		out := []domain.Feedback{}
		for _, item := range f.items {
			if item.MemberID == r.URL.Query().Get("memberId") {
				out = append(out, item)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// runCLI executes the root command with args and isolates it from the
// caller's environment and config file.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(envAPIURL, "")
	useConfigPath(t, filepath.Join(t.TempDir(), "config.json"))

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSubmit_SuccessListsMemberFeedback(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	stdout, _, err := runCLI(t, "submit", "--api-url", srv.URL,
		"--member", "m-101", "--provider", "Acme", "--rating", "5", "--comment", "")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Feedback submitted.")
	assert.Contains(t, stdout, "Feedback for member m-101:")
	assert.Contains(t, stdout, "Found 1 feedback item(s)")
	assert.Contains(t, stdout, "No comment provided.")
	assert.Equal(t, int32(2), api.requests.Load())
}

func TestSubmit_LocalValidationSendsNothing(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	_, stderr, err := runCLI(t, "submit", "--api-url", srv.URL, "--member", "  ", "--provider", "Acme", "--rating", "4.5")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "2 invalid field(s)")
	assert.Contains(t, stderr, "memberId: Member ID is required")
	assert.Contains(t, stderr, "rating: Rating must be between 1 and 5")
	assert.Equal(t, int32(0), api.requests.Load())
}

func TestSubmit_ServerFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": []domain.FieldError{{Field: "rating", Message: "Rating must be between 1 and 5"}},
		})
	}))
	defer srv.Close()

	_, stderr, err := runCLI(t, "submit", "--api-url", srv.URL, "-m", "m-101", "-p", "Acme", "-r", "3")
	require.Error(t, err)
	assert.Contains(t, stderr, "rating: Rating must be between 1 and 5")
}

func TestSubmit_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, _, err := runCLI(t, "submit", "--api-url", url, "-m", "m-101", "-p", "Acme", "-r", "3")
	require.Error(t, err)
	assert.Equal(t, apiclient.NetworkErrorMessage, err.Error())
}

func TestSubmit_ServerErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"db down"}`))
	}))
	defer srv.Close()

	_, _, err := runCLI(t, "submit", "--api-url", srv.URL, "-m", "m-101", "-p", "Acme", "-r", "3")
	require.Error(t, err)
	assert.Equal(t, "Error: 503", err.Error())
}

func TestSubmit_ServerErrorBanner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, _, err := runCLI(t, "submit", "--api-url", srv.URL, "-m", "m-101", "-p", "Acme", "-r", "3")
	require.Error(t, err)
	assert.Equal(t, "Service Unavailable", err.Error())
}

func TestLookup_MemberWithoutFeedback(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{}).handler())
	defer srv.Close()

	stdout, _, err := runCLI(t, "lookup", "--api-url", srv.URL, "--member", "m-404")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No feedback found.")
}

func TestLookup_NoQuery(t *testing.T) {
	_, _, err := runCLI(t, "lookup")
	require.Error(t, err)
	assert.Equal(t, view.EmptyQueryMessage, err.Error())
}

func TestLookup_MemberAndIDExclusive(t *testing.T) {
	_, _, err := runCLI(t, "lookup", "--member", "m-101", "--id", "abc")
	assert.Error(t, err)
}

func TestGet_UnknownIDShowsLoadFailure(t *testing.T) {
	srv := httptest.NewServer((&fakeAPI{}).handler())
	defer srv.Close()

	_, _, err := runCLI(t, "get", "--api-url", srv.URL, "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, view.LoadFailedMessage, err.Error())
}

func TestList_JSONOutput(t *testing.T) {
	comment := "Friendly staff"
	api := &fakeAPI{items: []domain.Feedback{
		{ID: "a", MemberID: "m-101", ProviderName: "Acme", Rating: 4, Comment: &comment, SubmittedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "b", MemberID: "m-101", ProviderName: "Globex", Rating: 2, SubmittedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c", MemberID: "m-202", ProviderName: "Initech", Rating: 5, SubmittedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	stdout, _, err := runCLI(t, "list", "--api-url", srv.URL, "--output", "m-101")
	require.NoError(t, err)

	var items []domain.Feedback
	require.NoError(t, json.Unmarshal([]byte(stdout), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "Friendly staff", items[0].CommentText())
	assert.Nil(t, items[1].Comment)
}

func TestList_UsesEnvURL(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	t.Setenv(envAPIURL, srv.URL)
	useConfigPath(t, filepath.Join(t.TempDir(), "config.json"))

	var stdout bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"list", "m-101"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, int32(1), api.requests.Load())
}

func TestInit_SavesURL(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "feedback", "config.json")
	t.Setenv(envAPIURL, "")
	useConfigPath(t, configPath)

	var stdout bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"init", "https://feedback.example.com/api/v1/"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "Saved API URL https://feedback.example.com/api/v1")

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, "https://feedback.example.com/api/v1", config.APIURL)
}

func TestInit_RejectsBadURL(t *testing.T) {
	_, _, err := runCLI(t, "init", "ftp://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
}

func TestTimeoutMustBePositive(t *testing.T) {
	_, _, err := runCLI(t, "list", "--timeout", "0s", "m-101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--timeout must be positive")
}
