package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jrsteele09/traveline-backoffice/api"
	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

type item struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func newClient(t *testing.T, handler http.HandlerFunc, tokens api.TokenSource) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL, tokens)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := api.New("localhost:3000", nil)
	require.Error(t, err)

	_, err = api.New("/api", nil)
	require.Error(t, err)
}

func TestDo_BearerHeader(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		anonymous bool
		want      string
	}{
		{"token present", "abc.def.ghi", false, "Bearer abc.def.ghi"},
		{"no token", "", false, ""},
		{"anonymous request", "abc.def.ghi", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var hasHeader bool
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, hasHeader = r.Header["Authorization"]
				got = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusNoContent)
			}, staticTokens(tt.token))

			err := c.Do(context.Background(), api.Request{Path: "/destinations", Anonymous: tt.anonymous}, nil)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.want != "", hasHeader)
		})
	}
}

func TestDo_NilTokenSource(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}, nil)
	require.NoError(t, c.Get(context.Background(), "provinces", nil, nil))
}

func TestDo_RequestShape(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/rental-contracts/7/reject", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get(api.HeaderRequestID))
		require.NoError(t, err)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"rejectedReason":"missing papers"}`, string(body))
		w.WriteHeader(http.StatusOK)
	}, staticTokens("t"))

	err := c.Patch(context.Background(), "rental-contracts/7/reject", map[string]string{"rejectedReason": "missing papers"}, nil)
	require.NoError(t, err)
}

func TestDo_ReusesRequestIDFromContext(t *testing.T) {
	var got string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(api.HeaderRequestID)
		w.WriteHeader(http.StatusOK)
	}, nil)

	ctx := api.WithRequestID(context.Background(), "req-42")
	require.NoError(t, c.Get(ctx, "provinces", nil, nil))
	require.Equal(t, "req-42", got)
	require.Equal(t, "req-42", api.RequestIDFrom(ctx))
	require.Empty(t, api.RequestIDFrom(context.Background()))
}

func TestDo_BaseURLPathAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/destinations", r.URL.Path)
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		require.Equal(t, "hue", r.URL.Query().Get("q"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := api.New(srv.URL+"/v1/", nil)
	require.NoError(t, err)
	require.NoError(t, c.Get(context.Background(), "/destinations", url.Values{"limit": {"10"}, "q": {"hue"}}, nil))
}

func TestDo_DecodesAndValidates(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode([]item{{ID: 1, Name: "Ha Long"}, {ID: 2, Name: "Hoi An"}})
		}, nil)

		var out []item
		require.NoError(t, c.Get(context.Background(), "destinations", nil, &out))
		require.Len(t, out, 2)
		require.Equal(t, "Hoi An", out[1].Name)
	})

	t.Run("item missing required field", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":1,"name":"Ha Long"},{"id":2}]`))
		}, nil)

		var out []item
		err := c.Get(context.Background(), "destinations", nil, &out)
		var parseErr *api.ParseError
		require.ErrorAs(t, err, &parseErr)
		require.ErrorIs(t, err, errors.ErrInvalidResponse)
		require.Contains(t, err.Error(), "[1].name is required")
	})

	t.Run("wrong type", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"one","name":"x"}`))
		}, nil)

		var out item
		err := c.Get(context.Background(), "destinations/1", nil, &out)
		require.ErrorIs(t, err, errors.ErrInvalidResponse)
	})

	t.Run("empty body when a value is expected", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}, nil)

		var out item
		err := c.Get(context.Background(), "destinations/1", nil, &out)
		require.ErrorIs(t, err, errors.ErrInvalidResponse)
	})
}

func TestDo_ErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantIs      error
	}{
		{"string message", http.StatusBadRequest, `{"message":"Invalid credentials"}`, "Invalid credentials", errors.ErrBackend},
		{"array message", http.StatusBadRequest, `{"message":["username must be a string","password is required"]}`, "username must be a string; password is required", errors.ErrBackend},
		{"no message", http.StatusInternalServerError, `{"error":"boom"}`, "request failed with status 500", errors.ErrBackend},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "request failed with status 502", errors.ErrBackend},
		{"empty message", http.StatusConflict, `{"message":""}`, "request failed with status 409", errors.ErrBackend},
		{"unauthorized", http.StatusUnauthorized, `{"message":"Unauthorized"}`, "Unauthorized", errors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ``, "request failed with status 403", errors.ErrForbidden},
		{"not found", http.StatusNotFound, `{"message":"Destination not found"}`, "Destination not found", errors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			err := c.Delete(context.Background(), "destinations/1")
			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.Status)
			require.Equal(t, tt.wantMessage, apiErr.Message)
			require.Equal(t, tt.body, string(apiErr.Body))
			require.ErrorIs(t, err, tt.wantIs)
			require.Equal(t, tt.status, api.StatusOf(err))
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c, err := api.New(srv.URL, nil)
	require.NoError(t, err)
	srv.Close()

	err = c.Get(context.Background(), "destinations", nil, nil)
	var transportErr *api.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 0, api.StatusOf(err))

	var apiErr *api.Error
	require.False(t, errors.As(err, &apiErr))
}

func TestDo_ContextCancelled(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "destinations", nil, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDo_ResponseSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/big" {
			_, _ = w.Write([]byte(`{"id":1,"name":"` + strings.Repeat("x", 128) + `"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"name":"Ha Long"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := api.New(srv.URL, nil, api.WithMaxResponseBytes(64))
	require.NoError(t, err)

	var out item
	require.NoError(t, c.Get(context.Background(), "small", nil, &out))
	require.Equal(t, "Ha Long", out.Name)

	err = c.Get(context.Background(), "big", nil, &out)
	var parseErr *api.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.ErrorIs(t, err, errors.ErrResponseTooLarge)
	require.ErrorIs(t, err, errors.ErrInvalidResponse)

	err = c.Delete(context.Background(), "big")
	require.ErrorIs(t, err, errors.ErrResponseTooLarge)
}
