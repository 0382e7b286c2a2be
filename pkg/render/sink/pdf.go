package sink

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// RenderPDF renders the layout as a single-page vector PDF. One layout unit
// maps to one point.
func RenderPDF(l Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	w, h := o.canvas(l)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("pdf: empty canvas %gx%g", w, h)
	}
	r, g, b, err := rgb(o.color)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()

	if o.background != "" {
		br, bg, bb, err := rgb(o.background)
		if err != nil {
			return nil, err
		}
		pdf.SetFillColor(br, bg, bb)
		pdf.Rect(0, 0, w, h, "F")
	}

	style := "D"
	if o.fill {
		style = "F"
	}
	pdf.SetDrawColor(r, g, b)
	pdf.SetFillColor(r, g, b)
	pdf.SetLineWidth(strokeWidth)
	for _, c := range l.Circles {
		pdf.Circle(o.offsetX+c.X, o.offsetY+c.Y, c.R, style)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}
