// Package buffer flattens vertex streams and writes them as JSON arrays.
package buffer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Faultbox/objbuf/internal/model"
	"github.com/Faultbox/objbuf/pkg/math"
)

// FloatsPerVertex is the interleaved width of one vertex:
// position(3) normal(3) tangent(3) uv(2).
const FloatsPerVertex = 11

// Flatten interleaves vertices into one float slice in emission order.
func Flatten(vertices []model.Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*FloatsPerVertex)
	for _, v := range vertices {
		out = append(out,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.Tangent.X, v.Tangent.Y, v.Tangent.Z,
			v.UV.X, v.UV.Y,
		)
	}
	return out
}

// WriteJSON writes values to w as a single JSON array with no whitespace.
// Non-finite values have no JSON form and are written as null.
func WriteJSON(w io.Writer, values []float32) error {
	bw := bufio.NewWriter(w)
	scratch := make([]byte, 0, 32)
	scratch = append(scratch, '[')
	for i, f := range values {
		if i > 0 {
			scratch = append(scratch, ',')
		}
		scratch = appendFloat(scratch, f)
		if _, err := bw.Write(scratch); err != nil {
			return err
		}
		scratch = scratch[:0]
	}
	scratch = append(scratch, ']')
	if _, err := bw.Write(scratch); err != nil {
		return err
	}
	return bw.Flush()
}

// appendFloat appends the shortest decimal form that round-trips as float32.
func appendFloat(dst []byte, f float32) []byte {
	if !math.IsFinite(f) {
		return append(dst, "null"...)
	}
	return strconv.AppendFloat(dst, float64(f), 'g', -1, 32)
}

// WriteFile creates path and writes values to it as a JSON array.
func WriteFile(path string, values []float32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening %s for writing: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := WriteJSON(f, values); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
