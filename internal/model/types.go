// Package model builds expanded tangent-space vertex streams from parsed meshes.
package model

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/objbuf/pkg/math"
)

// Vertex is one fully expanded output vertex.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Tangent  math.Vec3
	UV       math.Vec2
}

// Mesh holds the triangle-list vertex stream produced by Build.
// Every three consecutive vertices form one triangle.
type Mesh struct {
	Vertices []Vertex
	Bounds   Bounds
	Stats    Stats
}

// Bounds holds the axis-aligned bounding box of the emitted positions.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Stats counts what Build did, for the run summary.
type Stats struct {
	Faces            int
	Triangles        int
	FallbackNormals  int // corners that used the face normal
	FallbackTangents int // triangles with degenerate UVs
	InvalidTangents  int // triangles whose tangent came out non-finite
}

// TangentPolicy decides what happens to a non-finite tangent.
type TangentPolicy string

// Tangent policies.
const (
	// TangentFallback replaces a non-finite tangent with a vector
	// orthogonal to the triangle normal.
	TangentFallback TangentPolicy = "fallback"
	// TangentPassthrough emits the non-finite tangent unchanged.
	TangentPassthrough TangentPolicy = "passthrough"
)

// ParseTangentPolicy parses a policy name. Empty means TangentFallback.
func ParseTangentPolicy(s string) (TangentPolicy, error) {
	switch p := TangentPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", TangentFallback:
		return TangentFallback, nil
	case TangentPassthrough:
		return p, nil
	default:
		return "", fmt.Errorf("unknown tangent policy %q (want %s or %s)", s, TangentFallback, TangentPassthrough)
	}
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// Logger receives per-face diagnostics. Nil discards them.
	Logger *zap.Logger
	// TangentPolicy handles non-finite tangents. Empty means TangentFallback.
	TangentPolicy TangentPolicy
}
