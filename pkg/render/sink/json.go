package sink

import (
	"encoding/json"

	"github.com/matzehuels/barpack/pkg/packing"
)

type jsonOutput struct {
	ID       string           `json:"id,omitempty"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Mode     string           `json:"mode,omitempty"`
	Params   any              `json:"params,omitempty"`
	Fill     bool             `json:"fill"`
	Color    string           `json:"color"`
	Coverage float64          `json:"coverage"`
	Circles  []packing.Circle `json:"circles"`
}

// RenderJSON exports the layout as indented JSON. Circles are emitted in
// layout order with bar-local coordinates; offsets are not applied.
func RenderJSON(l Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	out := jsonOutput{
		ID:       l.RunID,
		Width:    l.Width,
		Height:   l.Height,
		Mode:     l.Mode,
		Params:   l.Params,
		Fill:     o.fill,
		Color:    o.color,
		Coverage: packing.Coverage(l.Circles, l.Width*l.Height),
		Circles:  l.Circles,
	}
	if out.Circles == nil {
		out.Circles = []packing.Circle{}
	}
	return json.MarshalIndent(out, "", "  ")
}
