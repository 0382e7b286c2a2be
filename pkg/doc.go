// Package pkg holds the barpack libraries.
//
// # Overview
//
// barpack fills thin decorative bars with circles. The pkg directory is
// organized into three areas:
//
//  1. Geometry: [packing] (multi-phase stochastic circle packer) and
//     [grid] (deterministic rows).
//  2. Output: [render/sink] encoders for SVG, PNG, PDF, DXF and JSON.
//  3. Infrastructure: [pipeline] (validate → generate → render),
//     [cache] (file, memory, redis), [errors], [observability] and
//     [buildinfo].
//
// # Data flow
//
//	options (CLI flags, TOML preset, HTTP query)
//	         ↓
//	    [pipeline] validation and defaults
//	         ↓
//	    [packing] or [grid] → []Circle   (cached by parameters)
//	         ↓
//	    [render/sink] → svg/png/pdf/dxf/json  (cached per style)
//
// # Quick Start
//
//	res := packing.Generate(packing.Params{
//	    Density:       70,
//	    SizeVariation: 40,
//	    Width:         250,
//	    Height:        18,
//	}, packing.WithSeed(7))
//
//	svg, err := sink.RenderSVG(sink.Layout{Width: 250, Height: 18, Circles: res.Circles})
//
// The engine packages render nothing and never fail: degenerate boxes yield
// an empty layout.
package pkg
