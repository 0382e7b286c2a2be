package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/barpack/pkg/errors"
	"github.com/matzehuels/barpack/pkg/packing"
)

func testLayout() Layout {
	return Layout{
		Width:  250,
		Height: 18,
		Circles: []packing.Circle{
			{X: 10, Y: 9, R: 4},
			{X: 40, Y: 6, R: 2.5},
			{X: 200, Y: 12, R: 3},
		},
		Mode:   "packing",
		Params: packing.Params{Density: 50, Width: 250, Height: 18},
		RunID:  "run-1",
	}
}

func renderSVG(t *testing.T, opts ...Option) string {
	t.Helper()
	data, err := RenderSVG(testLayout(), opts...)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	return string(data)
}

func TestRenderSVG(t *testing.T) {
	out := renderSVG(t)

	if got := strings.Count(out, "<circle"); got != 3 {
		t.Errorf("circle count = %d, want 3", got)
	}
	if !strings.Contains(out, `fill="none"`) || !strings.Contains(out, `stroke="#000000"`) {
		t.Errorf("stroke style missing:\n%s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 250 18"`) {
		t.Errorf("viewBox missing:\n%s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("document not closed")
	}
}

func TestRenderSVGFillAndBackground(t *testing.T) {
	out := renderSVG(t, WithFill(true), WithColor("#ff0000"), WithBackground("#ffffff"), WithOffset(5, 2))

	if strings.Contains(out, `fill="none"`) {
		t.Error("filled output has unfilled circles")
	}
	if got := strings.Count(out, `fill="#ff0000"`); got != 3 {
		t.Errorf("filled circles = %d, want 3", got)
	}
	if !strings.Contains(out, "<rect") {
		t.Error("background rect missing")
	}
	if !strings.Contains(out, `viewBox="0 0 260 22"`) {
		t.Errorf("padded viewBox missing:\n%s", out)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testLayout(), WithFill(true), WithBackground("#ffffff"))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 500 || b.Dy() != 36 {
		t.Errorf("size = %dx%d, want 500x36", b.Dx(), b.Dy())
	}

	// Center of the first circle is painted black.
	r, g, b, _ := img.At(20, 18).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("pixel at circle center = (%d,%d,%d), want black", r, g, b)
	}
}

func TestRenderPNGScale(t *testing.T) {
	data, err := RenderPNG(testLayout(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 250 || b.Dy() != 18 {
		t.Errorf("size = %dx%d, want 250x18", b.Dx(), b.Dy())
	}
}

func TestRenderInvalidColor(t *testing.T) {
	if _, err := RenderPNG(testLayout(), WithColor("red")); err == nil {
		t.Error("RenderPNG() with invalid color: want error")
	}
	if _, err := RenderPDF(testLayout(), WithBackground("#12")); err == nil {
		t.Error("RenderPDF() with invalid background: want error")
	}
}

func TestRenderSVGRejectsUnsafeColor(t *testing.T) {
	for _, opt := range []Option{
		WithColor(`#000" onload="alert(1)`),
		WithColor("#12345 "),
		WithColor("black"),
		WithBackground(`#fff"/><script>`),
	} {
		data, err := RenderSVG(testLayout(), opt)
		if !errors.Is(err, errors.ErrCodeInvalidColor) {
			t.Errorf("RenderSVG() error = %v, want INVALID_COLOR", err)
		}
		if data != nil {
			t.Errorf("RenderSVG() returned output for an invalid color: %q", data)
		}
	}
	if _, err := RenderSVG(testLayout(), WithColor("#AbC")); err != nil {
		t.Errorf("RenderSVG() with #AbC: %v", err)
	}
}

func TestPNGSizeLimits(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		opts          []Option
		wantW, wantH  int
		wantErr       bool
	}{
		{"default scale", 250, 18, nil, 500, 36, false},
		{"padded", 250, 18, []Option{WithScale(1), WithOffset(5, 1)}, 260, 20, false},
		{"max scale", 250, 18, []Option{WithScale(MaxScale)}, 4000, 288, false},
		{"scale too large", 250, 18, []Option{WithScale(1e6)}, 0, 0, true},
		{"too many pixels", 10000, 10000, nil, 0, 0, true},
		{"huge offset", 250, 18, []Option{WithOffset(1e9, 0)}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := PNGSize(tt.width, tt.height, tt.opts...)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Fatalf("PNGSize() error = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PNGSize() error: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("PNGSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderPNGRejectsOversizedImage(t *testing.T) {
	_, err := RenderPNG(Layout{Width: 10000, Height: 10000}, WithScale(1000))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("RenderPNG() error = %v, want INVALID_INPUT", err)
	}
}

func TestRenderEmptyCanvas(t *testing.T) {
	if _, err := RenderPNG(Layout{}); err == nil {
		t.Error("RenderPNG() on empty canvas: want error")
	}
	if _, err := RenderPDF(Layout{}); err == nil {
		t.Error("RenderPDF() on empty canvas: want error")
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(testLayout(), WithFill(true))
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("missing PDF header: %q", data[:min(len(data), 8)])
	}
}

func TestRenderDXF(t *testing.T) {
	data, err := RenderDXF(testLayout())
	if err != nil {
		t.Fatalf("RenderDXF() error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "CIRCLE") {
		t.Error("no CIRCLE entities")
	}
	if !strings.Contains(out, dxfLayer) {
		t.Errorf("layer %s missing", dxfLayer)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testLayout(), WithFill(true))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.ID != "run-1" {
		t.Errorf("ID = %q, want run-1", out.ID)
	}
	if out.Width != 250 || out.Height != 18 {
		t.Errorf("size = %vx%v, want 250x18", out.Width, out.Height)
	}
	if out.Mode != "packing" {
		t.Errorf("Mode = %q, want packing", out.Mode)
	}
	if !out.Fill {
		t.Error("Fill = false, want true")
	}
	if len(out.Circles) != 3 || out.Circles[1] != (packing.Circle{X: 40, Y: 6, R: 2.5}) {
		t.Errorf("Circles = %+v", out.Circles)
	}
	if out.Coverage <= 0 {
		t.Errorf("Coverage = %v, want > 0", out.Coverage)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(Layout{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !strings.Contains(string(data), `"circles": []`) {
		t.Errorf("empty circles not encoded as []:\n%s", data)
	}
}
