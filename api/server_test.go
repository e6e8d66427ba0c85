package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/weldtrack/api"
	dbfs "github.com/garnizeh/weldtrack/db"
	"github.com/garnizeh/weldtrack/internal/config"
	"github.com/garnizeh/weldtrack/internal/db"
)

// setupServer stands up the full route table over a fresh in-memory sqlite
// database with migrations applied. Rate limiting is off so tests can hammer
// the server freely.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	d, err := db.New(ctx, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := d.Migrate(ctx, dbfs.Migrations); err != nil {
		d.Close()
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Addr:       ":0",
		APITimeout: 5 * time.Second,
	}

	srv := httptest.NewServer(api.SetupRoutes(cfg, "test", "unknown", d))
	t.Cleanup(func() { srv.Close(); d.Close() })

	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func decodeList(t *testing.T, res *http.Response) []any {
	t.Helper()
	defer res.Body.Close()

	var out []any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response list: %v", err)
	}
	return out
}

func welderBody(identifier string) map[string]any {
	return map[string]any{
		"first_name": "Ion",
		"last_name":  "Popescu",
		"identifier": identifier,
	}
}
