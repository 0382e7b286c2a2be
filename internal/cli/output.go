package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/barpack/pkg/pipeline"
)

// stdoutPath selects standard output for a single artifact.
const stdoutPath = "-"

// basePath derives the base output path. An empty output falls back to
// name; a known format extension on output is stripped.
func basePath(output, name string) string {
	if output == "" {
		return name
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single
// format keeps output verbatim when it already carries an extension.
func outputPaths(formats []string, output, name string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, name)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	output    string
	name      string
	stdout    io.Writer
}

// writeArtifacts writes rendered outputs to disk, or to stdout when output
// is "-", and returns the written paths in format order.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if p.output == stdoutPath {
		if len(p.formats) != 1 {
			return nil, fmt.Errorf("writing to stdout needs exactly one format, got %d", len(p.formats))
		}
		_, err := p.stdout.Write(p.artifacts[p.formats[0]])
		return nil, err
	}

	paths := outputPaths(p.formats, p.output, p.name)
	written := make([]string, 0, len(p.formats))
	for _, f := range p.formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, p.artifacts[f], 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
