package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorityValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts when upstream mints a token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Contains(t, r.Header.Get("Content-Type"), "application/json")

			var req struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "user@example.com", req.Email)
			require.Equal(t, "hunter2", req.Password)

			json.NewEncoder(w).Encode(map[string]string{
				"transaccion": "ok",
				"accessToken": "upstream-token",
			})
		}))
		defer srv.Close()

		a := NewAuthority(srv.URL)
		require.NoError(t, a.Validate(context.Background(), "user@example.com", "hunter2"))
	})

	t.Run("denies on 4xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		a := NewAuthority(srv.URL)
		require.ErrorIs(t, a.Validate(context.Background(), "user@example.com", "wrong"), ErrDenied)
	})

	t.Run("denies on empty access token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"transaccion": "rechazada"})
		}))
		defer srv.Close()

		a := NewAuthority(srv.URL)
		require.ErrorIs(t, a.Validate(context.Background(), "user@example.com", "wrong"), ErrDenied)
	})

	t.Run("unavailable on 5xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		a := NewAuthority(srv.URL)
		require.ErrorIs(t, a.Validate(context.Background(), "user@example.com", "hunter2"), ErrUnavailable)
	})

	t.Run("unavailable on garbage body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		a := NewAuthority(srv.URL)
		require.ErrorIs(t, a.Validate(context.Background(), "user@example.com", "hunter2"), ErrUnavailable)
	})

	t.Run("unavailable when unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // Closed before use

		a := NewAuthority(srv.URL)
		require.ErrorIs(t, a.Validate(context.Background(), "user@example.com", "hunter2"), ErrUnavailable)
	})
}
