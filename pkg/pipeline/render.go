package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/barpack/pkg/errors"
	"github.com/matzehuels/barpack/pkg/observability"
	"github.com/matzehuels/barpack/pkg/render/sink"
)

// Render encodes l in every format of opts.Formats. runID is recorded in
// JSON output.
func Render(ctx context.Context, l Layout, runID string, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	sl := l.Sink(runID)
	sinkOpts := opts.SinkOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		observability.Pipeline().OnRenderStart(ctx, format)
		start := time.Now()

		data, err := renderFormat(format, sl, sinkOpts)
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if errors.IsInvalid(err) {
			return nil, err
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(format string, l sink.Layout, opts []sink.Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, opts...)
	case FormatPNG:
		return sink.RenderPNG(l, opts...)
	case FormatPDF:
		return sink.RenderPDF(l, opts...)
	case FormatDXF:
		return sink.RenderDXF(l, opts...)
	case FormatJSON:
		return sink.RenderJSON(l, opts...)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
}
