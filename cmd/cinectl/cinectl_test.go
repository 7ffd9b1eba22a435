package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLayoutCmd(t *testing.T) {
	out, err := run(t, "layout", "--capacity", "40")
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "capacity 40, 5 per row")
	assert.Contains(t, out, "H5")
	assert.NotContains(t, out, "H6")

	_, err = run(t, "layout", "--capacity", "0")
	assert.Error(t, err)
}

func TestSeatsCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/sessions/3/seats", r.URL.Path)
		_, _ = w.Write([]byte(`{"session_id":3,"seat_map":{"rows":[{"label":"A","cells":[
			{"code":"A1","state":"occupied"},{"code":"A2","state":"free"}]}],"free":1,"occupied":1,"selected":0}}`))
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "seats", "--session", "3")
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "session 3")
	assert.Contains(t, out, "XX")
	assert.Contains(t, out, "A2")
	assert.NotContains(t, out, "A1 ")

	_, err = run(t, "--api", srv.URL, "seats", "--session", "abc")
	assert.Error(t, err)
}

func TestSalesCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/tickets":
			_, _ = w.Write([]byte(`[{"id":1,"session_id":1,"seat_code":"C4","kind":"full","price":34.00,
				"sold_at":"2025-03-01T19:00:00Z","session_date":"2025-03-01","session_time":"20:00",
				"movie_title":"Cidade de Deus","room_number":1}]`))
		case "/v1/tickets/stats":
			_, _ = w.Write([]byte(`{"total":1,"revenue":34.00,"full":1,"half":0}`))
		}
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "sales")
	require.NoError(t, err)
	assert.Contains(t, out, "Cidade de Deus")
	assert.Contains(t, out, "C4")
	assert.Contains(t, out, "34.00")
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "cinectl dev\n", out)
}
