//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloo-solutions/feedback/internal/api/handlers"
	"github.com/cloo-solutions/feedback/internal/apiclient"
	"github.com/cloo-solutions/feedback/internal/repository"
	"github.com/cloo-solutions/feedback/internal/server"
	"github.com/cloo-solutions/feedback/internal/service"
	"github.com/cloo-solutions/feedback/internal/testutil"
	"github.com/cloo-solutions/feedback/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	BinaryDir    string
	HTTPClient   *http.Client
}

// SetupE2EEnv starts Postgres, migrates it and serves the API plus the HTML views.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// APIBaseURL is the REST root the client packages expect.
func (e *E2ETestEnv) APIBaseURL() string {
	return e.ServerURL + server.APIPrefix
}

// FeedbackClient returns the typed client pointed at the test server.
func (e *E2ETestEnv) FeedbackClient() *apiclient.FeedbackService {
	return apiclient.NewFeedbackService(apiclient.NewClient(apiclient.Config{BaseURL: e.APIBaseURL()}))
}

// BuildBinaries builds the feedback and feedbackd binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "feedback-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	for _, name := range []string{"feedbackd", "feedback"} {
		cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, name), "./cmd/"+name)
		cmd.Dir = "../.."
		if out, err := cmd.CombinedOutput(); err != nil {
			e.T.Fatalf("failed to build %s: %v\n%s", name, err, out)
		}
	}
}

// RunFeedback runs the feedback CLI against the test server.
func (e *E2ETestEnv) RunFeedback(args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "feedback"), args...)
	cmd.Dir = e.T.TempDir()
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("FEEDBACK_API_URL=%s", e.APIBaseURL()),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", e.T.TempDir()),
		fmt.Sprintf("HOME=%s", e.T.TempDir()),
		"FEEDBACK_LOG_LEVEL=error",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Response is a raw HTTP response with its body read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

func (e *E2ETestEnv) Get(path string) (*Response, error) {
	return e.doRequest(http.MethodGet, path, "application/json", nil)
}

func (e *E2ETestEnv) PostJSON(path string, body interface{}) (*Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}
	return e.doRequest(http.MethodPost, path, "application/json", bytes.NewReader(jsonData))
}

func (e *E2ETestEnv) PostRaw(path, contentType string, body []byte) (*Response, error) {
	return e.doRequest(http.MethodPost, path, contentType, bytes.NewReader(body))
}

func (e *E2ETestEnv) doRequest(method, path, contentType string, body io.Reader) (*Response, error) {
	req, err := http.NewRequest(method, e.ServerURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: respBody}, nil
}

// startServer wires the API and the views the same way feedbackd serve does.
func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	serverURL := fmt.Sprintf("http://localhost:%d", port)

	feedbackSvc := service.NewFeedbackService(repository.NewFeedbackRepository(pool))

	viewClient := apiclient.NewFeedbackService(apiclient.NewClient(apiclient.Config{
		BaseURL: serverURL + server.APIPrefix,
		Timeout: 10 * time.Second,
	}))
	webHandler, err := web.NewHandler(viewClient)
	if err != nil {
		t.Fatalf("failed to build web handler: %v", err)
	}

	router := server.NewRouter(server.RouterConfig{
		FeedbackHandler: handlers.NewFeedbackHandler(feedbackSvc),
		Web:             webHandler,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
