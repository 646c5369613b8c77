// Package convert runs the OBJ to vertex-buffer pipeline end to end.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/objbuf/internal/buffer"
	"github.com/Faultbox/objbuf/internal/model"
	"github.com/Faultbox/objbuf/pkg/encoding"
	"github.com/Faultbox/objbuf/pkg/formats"
)

// Fatal pipeline errors. Everything else is reported as a diagnostic.
var (
	ErrReadInput   = errors.New("failed to open input for reading")
	ErrWriteOutput = errors.New("failed to open output for writing")
)

// Options holds everything one conversion needs.
type Options struct {
	InputPath     string
	OutputPath    string
	Encoding      string
	TangentPolicy model.TangentPolicy

	// Logger receives diagnostics. Nil discards them.
	Logger *zap.Logger
	// Passthrough receives object and group lines. Nil discards them.
	Passthrough io.Writer
}

// Result summarizes a finished conversion.
type Result struct {
	Floats   int
	Vertices int
	Stats    model.Stats
	Bounds   model.Bounds
	Elapsed  time.Duration
}

// Run reads, converts and writes one mesh.
func Run(opts Options) (Result, error) {
	start := time.Now()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	raw, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: '%s': %w", ErrReadInput, opts.InputPath, err)
	}
	text, err := encoding.Decode(raw, opts.Encoding)
	if err != nil {
		return Result{}, fmt.Errorf("%w: '%s': %w", ErrReadInput, opts.InputPath, err)
	}

	obj, err := formats.ParseOBJ(bytes.NewReader(text), formats.OBJOptions{
		Logger:      log.Named("parse"),
		Passthrough: opts.Passthrough,
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: '%s': %w", ErrReadInput, opts.InputPath, err)
	}
	log.Debug("parsed mesh",
		zap.String("path", opts.InputPath),
		zap.Int("positions", len(obj.Positions)),
		zap.Int("normals", len(obj.Normals)),
		zap.Int("uvs", len(obj.UVs)),
		zap.Int("faces", len(obj.Faces)))

	mesh := model.Build(obj, model.BuildOptions{
		Logger:        log.Named("build"),
		TangentPolicy: opts.TangentPolicy,
	})
	floats := buffer.Flatten(mesh.Vertices)

	if err := buffer.WriteFile(opts.OutputPath, floats); err != nil {
		return Result{}, fmt.Errorf("%w: '%s': %w", ErrWriteOutput, opts.OutputPath, err)
	}

	res := Result{
		Floats:   len(floats),
		Vertices: len(floats) / buffer.FloatsPerVertex,
		Stats:    mesh.Stats,
		Bounds:   mesh.Bounds,
		Elapsed:  time.Since(start),
	}
	log.Info("conversion finished",
		zap.String("output", opts.OutputPath),
		zap.Int("faces", res.Stats.Faces),
		zap.Int("triangles", res.Stats.Triangles),
		zap.Int("vertices", res.Vertices),
		zap.Int("fallback_normals", res.Stats.FallbackNormals),
		zap.Int("fallback_tangents", res.Stats.FallbackTangents),
		zap.Int("invalid_tangents", res.Stats.InvalidTangents),
		zap.Stringer("bounds_min", res.Bounds.Min),
		zap.Stringer("bounds_max", res.Bounds.Max),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// PrintSummary writes the human-readable run summary.
func PrintSummary(w io.Writer, res Result) {
	fmt.Fprintf(w, "  Floats: %d\n", res.Floats)
	fmt.Fprintf(w, "Vertices: %d\n", res.Vertices)
	fmt.Fprintln(w, "All done")
}
