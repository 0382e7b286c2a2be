// Package sink encodes circle layouts into output formats.
//
// # Overview
//
// A "sink" turns a [Layout] (bar size plus circles) into bytes:
//
//   - SVG: one <circle> per circle, via svgo
//   - PNG: raster output via gg, scaled for high-DPI displays
//   - PDF: single-page vector output via fpdf, one unit per point
//   - DXF: CIRCLE entities for CAD and laser-cutting tools
//   - JSON: the raw layout for external tools and caching
//
// All sinks take the same [Option] values:
//
//	svg, err := sink.RenderSVG(l, sink.WithFill(true), sink.WithColor("#1d3557"))
//	png, err := sink.RenderPNG(l, sink.WithScale(4))
//
// # Fill
//
// By default circles are drawn as 1-unit outlines. [WithFill] switches to
// solid circles. DXF output carries geometry only.
//
// # Canvas
//
// The canvas is the bar, padded by [WithOffset] on every side. Circle
// coordinates are bar-local, so an offset moves every circle by the same
// amount.
package sink
