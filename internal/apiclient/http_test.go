package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloo-solutions/feedback/internal/domain"
	"github.com/cloo-solutions/feedback/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/v1"})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	c = NewClient(Config{BaseURL: "http://example.test/api/v1/", Timeout: time.Second})
	assert.Equal(t, "http://example.test/api/v1", c.BaseURL())
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}

func TestClient_Get_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/feedback/abc", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	})

	data, err := c.Get(context.Background(), "/feedback/abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc"}`, string(data))
}

func TestClient_Post_SendsJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"memberId":"m-101","providerName":"Acme","rating":5}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new"}`))
	})

	data, err := c.Post(context.Background(), "/feedback", domain.FeedbackRequest{MemberID: "m-101", ProviderName: "Acme", Rating: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"new"}`, string(data))
}

func TestClient_NoContentResolvesToEmptyObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	data, err := c.Get(context.Background(), "/anything")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestClient_ValidationErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"field":"rating","message":"Rating must be between 1 and 5"}]}`))
	})

	_, err := c.Post(context.Background(), "/feedback", map[string]int{"rating": 9})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, KindValidation, apiErr.Kind())
	require.Len(t, apiErr.FieldErrors, 1)
	assert.Equal(t, domain.FieldError{Field: "rating", Message: "Rating must be between 1 and 5"}, apiErr.FieldErrors[0])
}

func TestClient_HTTPErrorBodies(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"json message", http.StatusNotFound, `{"message":"feedback not found"}`, "feedback not found"},
		{"json error field", http.StatusConflict, `{"error":"duplicate"}`, "duplicate"},
		{"plain text", http.StatusBadGateway, "upstream unavailable\n", "upstream unavailable"},
		{"empty body", http.StatusInternalServerError, "", "Internal Server Error"},
		{"unrelated json", http.StatusServiceUnavailable, `{"detail":"db down"}`, ""},
		{"empty errors list", http.StatusBadRequest, `{"errors":[]}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Get(context.Background(), "/feedback/x")
			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, KindHTTP, apiErr.Kind())
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Empty(t, apiErr.FieldErrors)
		})
	}
}

func TestClient_JSONWithoutMessageDisplaysStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"db down"}`))
	})

	_, err := c.Get(context.Background(), "/feedback/x")
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Error: 503", apiErr.DisplayMessage())
}

// truncatedBodyHandler promises a longer body than it sends, then drops the connection.
func truncatedBodyHandler(t *testing.T, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "500")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"par`))
		w.(http.Flusher).Flush()

		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		_ = conn.Close()
	}
}

func TestClient_BodyReadFailureKeepsStatus(t *testing.T) {
	c := newTestClient(t, truncatedBodyHandler(t, http.StatusBadGateway))

	_, err := c.Get(context.Background(), "/feedback/x")
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, KindHTTP, apiErr.Kind())
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.NotEqual(t, NetworkErrorMessage, apiErr.DisplayMessage())
	assert.NotNil(t, errors.Unwrap(apiErr))
}

func TestClient_BodyReadFailureOnSuccessIsNotAPIError(t *testing.T) {
	c := newTestClient(t, truncatedBodyHandler(t, http.StatusOK))

	_, err := c.Get(context.Background(), "/feedback/x")
	require.Error(t, err)

	_, ok := AsAPIError(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "failed to read response body")
}

func TestClient_TransportFailureHasStatusZero(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: baseURL})
	_, err := c.Get(context.Background(), "/feedback/x")
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, StatusNoResponse, apiErr.Status)
	assert.Equal(t, KindTransport, apiErr.Kind())
	assert.Equal(t, NetworkErrorMessage, apiErr.Message)
	assert.Equal(t, NetworkErrorMessage, apiErr.DisplayMessage())
	assert.NotNil(t, errors.Unwrap(apiErr))
}

func TestClient_TimeoutIsTransportFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Get(context.Background(), "/slow")

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, NetworkErrorMessage, apiErr.Message)
}

func TestAPIError_DisplayMessage(t *testing.T) {
	assert.Equal(t, "feedback not found", (&APIError{Status: 404, Message: "feedback not found"}).DisplayMessage())
	assert.Equal(t, "Error: 502", (&APIError{Status: 502}).DisplayMessage())
}

func TestAPIError_ErrorString(t *testing.T) {
	err := &APIError{Status: 400, FieldErrors: []domain.FieldError{{Field: "rating", Message: "bad"}}}
	assert.Equal(t, "API error (400): validation failed: rating: bad", err.Error())

	err = &APIError{Status: 404, Message: "feedback not found"}
	assert.Equal(t, "API error (404): feedback not found", err.Error())
}

func TestAsAPIError_NonAPIError(t *testing.T) {
	_, ok := AsAPIError(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "http", KindHTTP.String())
}
