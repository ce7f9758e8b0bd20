package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aliceEnvelope = `{
  "status": "OK",
  "message": "User found.",
  "data": {
    "idUser": 7,
    "email": "alice@example.com",
    "isEmailVerified": true,
    "firstName": "Alice",
    "lastName": "Liddell",
    "userName": "alice",
    "password": "$2a$04$hash",
    "active": true,
    "failCount": 0,
    "userHasAuthorizeParties": [
      {"authorizePartyId": 1, "party": "app1", "active": true,
       "authorizePartyRoles": [{"authorizePartyRoleId": 10, "role": "admin", "active": true}]}
    ],
    "appScopeWithRole": {"app1": "admin"}
  }
}`

func newGateway(t *testing.T, h http.HandlerFunc) (*Gateway, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	gw, err := NewGateway(Config{BaseURL: srv.URL + "/", Timeout: 200 * time.Millisecond}, nil)
	require.NoError(t, err)
	return gw, &calls
}

func TestFetch_OK(t *testing.T) {
	gw, calls := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, LookupPath+"alice", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(aliceEnvelope))
	})

	p, err := gw.Fetch(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "alice", p.Username)
	assert.True(t, p.IsEmailVerified())
	require.Len(t, p.AuthorizeParties, 1)
	assert.Equal(t, "app1", p.AuthorizeParties[0].Party)
	require.Len(t, p.AuthorizeParties[0].Roles, 1)
	assert.Equal(t, "admin", p.AuthorizeParties[0].Roles[0].Role)
	assert.Equal(t, map[string]string{"app1": "admin"}, p.ScopeRoles)
}

func TestFetch_EscapesUsername(t *testing.T) {
	gw, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, LookupPath+"a%2Fb", r.URL.EscapedPath())
		_, _ = w.Write([]byte(aliceEnvelope))
	})
	_, err := gw.Fetch(context.Background(), "a/b")
	require.NoError(t, err)
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "http 404", status: http.StatusNotFound, body: `{"status":"NOT_FOUND"}`, wantErr: ErrNotFound},
		{name: "envelope not found", status: http.StatusOK, body: `{"status":"NOT_FOUND","message":"no user"}`, wantErr: ErrNotFound},
		{name: "http 500", status: http.StatusInternalServerError, body: `oops`, wantErr: ErrUpstream},
		{name: "status not ok", status: http.StatusOK, body: `{"status":"BAD_REQUEST","message":"x","data":{}}`, wantErr: ErrUpstream},
		{name: "missing data", status: http.StatusOK, body: `{"status":"OK","message":"x"}`, wantErr: ErrUpstream},
		{name: "null data", status: http.StatusOK, body: `{"status":"OK","data":null}`, wantErr: ErrUpstream},
		{name: "garbage", status: http.StatusOK, body: `<html>`, wantErr: ErrUpstream},
		{name: "bad user shape", status: http.StatusOK, body: `{"status":"OK","data":{"idUser":"seven"}}`, wantErr: ErrUpstream},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw, calls := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			p, err := gw.Fetch(context.Background(), "ghost")
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retries")
		})
	}
}

func TestFetch_TimeoutIsUpstream(t *testing.T) {
	gw, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})
	_, err := gw.Fetch(context.Background(), "slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFetch_EmptyUsername(t *testing.T) {
	gw, calls := newGateway(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := gw.Fetch(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyUsername)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestNewGateway_RequiresBaseURL(t *testing.T) {
	_, err := NewGateway(Config{}, nil)
	require.Error(t, err)
	_, err = NewGateway(Config{BaseURL: "not a url"}, nil)
	require.Error(t, err)
}
