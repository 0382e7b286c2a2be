package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/barpack/pkg/cache"
	"github.com/matzehuels/barpack/pkg/errors"
	"github.com/matzehuels/barpack/pkg/grid"
	"github.com/matzehuels/barpack/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, nil)
	ts := httptest.NewServer(New(runner, nil).Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestPackingSVG(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/v1/packing?density=70&size_variation=30&seed=3")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, "<circle") {
		t.Error("body should contain circles")
	}
	if resp.Header.Get("X-Barpack-Run-Id") == "" {
		t.Error("run ID header missing")
	}
	if got := resp.Header.Get("X-Barpack-Layout-Cache"); got != "miss" {
		t.Errorf("first request layout cache = %q, want miss", got)
	}

	resp, _ = get(t, ts, "/v1/packing?density=70&size_variation=30&seed=3")
	if got := resp.Header.Get("X-Barpack-Layout-Cache"); got != "hit" {
		t.Errorf("second request layout cache = %q, want hit", got)
	}
}

func TestGridJSON(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/v1/grid?format=json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var out struct {
		Mode    string `json:"mode"`
		Circles []struct {
			X, Y, R float64
		} `json:"circles"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Mode != pipeline.ModeGrid || len(out.Circles) != 50 {
		t.Errorf("mode %q with %d circles", out.Mode, len(out.Circles))
	}
}

func TestFormats(t *testing.T) {
	ts := newTestServer(t)
	for _, format := range []string{"png", "pdf", "dxf"} {
		resp, body := get(t, ts, "/v1/grid?rows=3&layout=stagger&format="+format)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d: %s", format, resp.StatusCode, body)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); ct != pipeline.ContentType(format) {
			t.Errorf("%s: Content-Type = %q", format, ct)
		}
		if len(body) == 0 {
			t.Errorf("%s: empty body", format)
		}
	}
}

func TestInvalidQueries(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path string
		code errors.Code
	}{
		{"/v1/packing?density=abc", errors.ErrCodeInvalidInput},
		{"/v1/packing?seed=-1", errors.ErrCodeInvalidInput},
		{"/v1/packing?width=-5", errors.ErrCodeInvalidInput},
		{"/v1/packing?height=20000", errors.ErrCodeInvalidInput},
		{"/v1/packing?format=gif", errors.ErrCodeInvalidFormat},
		{"/v1/packing?color=red", errors.ErrCodeInvalidColor},
		{"/v1/grid?layout=zigzag", errors.ErrCodeInvalidLayout},
		{"/v1/grid?rows=0", errors.ErrCodeInvalidInput},
		{"/v1/grid?fill=maybe", errors.ErrCodeInvalidInput},
		{"/v1/packing?format=png&width=10000&height=10000&scale=1000000", errors.ErrCodeInvalidInput},
		{"/v1/packing?format=png&width=10000&height=10000", errors.ErrCodeInvalidInput},
		{"/v1/packing?scale=17", errors.ErrCodeInvalidInput},
		{"/v1/grid?format=png&offset_x=1e9", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", resp.StatusCode, body)
			}
			var e errorBody
			if err := json.Unmarshal([]byte(body), &e); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", e.Code, tt.code, e.Error)
			}
		})
	}
}

func TestLargeSVGNeedsNoRaster(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/v1/grid?width=10000&height=10000&rows=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
}

func TestThinGridIsBounded(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/v1/grid?height=0.001&width=10000&rows=20&overlap=100&format=json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	n, err := strconv.Atoi(resp.Header.Get("X-Barpack-Circles"))
	if err != nil {
		t.Fatalf("circles header: %v", err)
	}
	if n == 0 || n > grid.MaxCircles {
		t.Errorf("circles = %d, want 1..%d", n, grid.MaxCircles)
	}
}

func TestZeroDensityPacksAtMinimum(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/v1/packing?density=0&seed=2&format=json", "/v1/grid?density=0&format=json"} {
		resp, body := get(t, ts, path)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status = %d: %s", path, resp.StatusCode, body)
		}
		var out struct {
			Params struct {
				Density int `json:"density"`
			} `json:"params"`
		}
		if err := json.Unmarshal([]byte(body), &out); err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if out.Params.Density != 10 {
			t.Errorf("%s: density = %d, want 10", path, out.Params.Density)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/v1/ruler")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
