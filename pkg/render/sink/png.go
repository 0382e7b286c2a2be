package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/barpack/pkg/errors"
)

// PNGSize returns the pixel dimensions RenderPNG would produce for a bar of
// width×height. Images above MaxPixels or scales above MaxScale are
// rejected as invalid input.
func PNGSize(width, height float64, opts ...Option) (int, int, error) {
	return newOptions(opts...).pixelSize(width, height)
}

func (o options) pixelSize(width, height float64) (int, int, error) {
	if o.scale > MaxScale {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "scale %g too large (max %g)", o.scale, MaxScale)
	}
	w, h := width+2*o.offsetX, height+2*o.offsetY
	fw, fh := math.Ceil(w*o.scale), math.Ceil(h*o.scale)
	if !(fw > 0 && fh > 0) {
		return 0, 0, fmt.Errorf("png: empty canvas %gx%g", w, h)
	}
	if fw*fh > MaxPixels {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput,
			"png of %gx%g px exceeds %d pixels; lower the scale or the bar size", fw, fh, MaxPixels)
	}
	return int(fw), int(fh), nil
}

// RenderPNG rasterizes the layout. The image is the padded canvas times the
// scale factor, rounded up to whole pixels.
func RenderPNG(l Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	w, h := o.canvas(l)
	pw, ph, err := o.pixelSize(l.Width, l.Height)
	if err != nil {
		return nil, err
	}
	if _, _, _, err := rgb(o.color); err != nil {
		return nil, err
	}

	dc := gg.NewContext(pw, ph)
	dc.Scale(o.scale, o.scale)
	if o.background != "" {
		if _, _, _, err := rgb(o.background); err != nil {
			return nil, err
		}
		dc.SetHexColor(o.background)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
	}

	dc.SetHexColor(o.color)
	dc.SetLineWidth(strokeWidth)
	for _, c := range l.Circles {
		dc.DrawCircle(o.offsetX+c.X, o.offsetY+c.Y, c.R)
		if o.fill {
			dc.Fill()
		} else {
			dc.Stroke()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("png: encode: %w", err)
	}
	return buf.Bytes(), nil
}
