package treestatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(nil, nil)
	require.NoError(t, err)
	return c
}

func TestFetch_Open(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"username":"sheriff","can_commit_freely":true,"general_state":"open","message":"Tree is open"}`)

	status, err := newTestClient(t).Fetch(context.Background(), srv.URL+"/current?format=json")
	require.NoError(t, err)
	assert.True(t, status.CanCommitFreely)
	assert.Equal(t, "open", status.GeneralState)
	assert.Equal(t, "Tree is open", status.Message)
}

func TestFetch_Closed(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"can_commit_freely":false,"general_state":"closed","message":"Tree is closed (compile failure)"}`)

	status, err := newTestClient(t).Fetch(context.Background(), srv.URL+"/current?format=json")
	require.NoError(t, err)
	assert.False(t, status.CanCommitFreely)
	assert.Equal(t, "closed", status.GeneralState)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `oops`, "unexpected HTTP status"},
		{"not json", http.StatusOK, `<html>`, "failed to decode tree status"},
		{"missing field", http.StatusOK, `{"general_state":"open","message":""}`, "can_commit_freely"},
		{"wrong type", http.StatusOK, `{"can_commit_freely":"yes","general_state":"open","message":""}`, "invalid tree status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)
			_, err := newTestClient(t).Fetch(context.Background(), srv.URL+"/current?format=json")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t).Fetch(context.Background(), url+"/current?format=json")
	require.Error(t, err)
}
