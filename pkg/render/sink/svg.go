package sink

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo/float"
)

// RenderSVG renders the layout as a standalone SVG document with one
// <circle> element per circle. Colors must be #rgb or #rrggbb.
func RenderSVG(l Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	w, h := o.canvas(l)
	if _, _, _, err := rgb(o.color); err != nil {
		return nil, err
	}
	if o.background != "" {
		if _, _, _, err := rgb(o.background); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %g %g"`, w, h))
	if o.background != "" {
		canvas.Rect(0, 0, w, h, fmt.Sprintf(`fill="%s"`, o.background))
	}

	style := circleStyle(o)
	for _, c := range l.Circles {
		canvas.Circle(o.offsetX+c.X, o.offsetY+c.Y, c.R, style)
	}
	canvas.End()
	return buf.Bytes(), nil
}

func circleStyle(o options) string {
	if o.fill {
		return fmt.Sprintf(`fill="%s"`, o.color)
	}
	return fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%g"`, o.color, strokeWidth)
}
