package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
)

// dxfLayer holds every circle entity.
const dxfLayer = "CIRCLES"

// RenderDXF exports the circles as CAD CIRCLE entities. DXF's y axis points
// up, so y is mirrored against the canvas height. Color and fill are not
// carried over.
func RenderDXF(l Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	_, h := o.canvas(l)

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(dxfLayer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return nil, fmt.Errorf("dxf: add layer: %w", err)
	}
	for _, c := range l.Circles {
		if _, err := d.Circle(o.offsetX+c.X, h-(o.offsetY+c.Y), 0, c.R); err != nil {
			return nil, fmt.Errorf("dxf: circle: %w", err)
		}
	}

	// The drawing only knows how to write to a named file.
	dir, err := os.MkdirTemp("", "barpack-dxf-")
	if err != nil {
		return nil, fmt.Errorf("dxf: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "bar.dxf")
	if err := d.SaveAs(path); err != nil {
		return nil, fmt.Errorf("dxf: save: %w", err)
	}
	return os.ReadFile(path)
}
