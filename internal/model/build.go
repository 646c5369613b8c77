package model

import (
	"go.uber.org/zap"

	"github.com/Faultbox/objbuf/pkg/formats"
	"github.com/Faultbox/objbuf/pkg/math"
)

// fallbackFaceNormal is used when a face's first three corners are colinear.
var fallbackFaceNormal = math.UnitZ

// Build triangulates every face of obj with a fan from its first corner and
// returns one vertex per triangle corner, with resolved normals and a shared
// per-triangle tangent. obj is not modified.
func Build(obj *formats.OBJ, opts BuildOptions) *Mesh {
	b := builder{
		obj:    obj,
		log:    opts.Logger,
		policy: opts.TangentPolicy,
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	if b.policy == "" {
		b.policy = TangentFallback
	}

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, 3*obj.TriangleCount()),
	}
	for n := range obj.Faces {
		b.buildFace(mesh, n, &obj.Faces[n])
	}
	mesh.Bounds = computeBounds(mesh.Vertices)
	return mesh
}

type builder struct {
	obj    *formats.OBJ
	log    *zap.Logger
	policy TangentPolicy
}

// faceCorner is a corner with all of its attributes resolved.
type faceCorner struct {
	pos    math.Vec3
	normal math.Vec3
	uv     math.Vec2
}

func (b *builder) buildFace(mesh *Mesh, n int, face *formats.Face) {
	log := b.log.With(zap.Int("face", n), zap.Int("line", face.Line))

	positions := make([]math.Vec3, len(face.Corners))
	for i, c := range face.Corners {
		positions[i] = b.position(log, i, c.Position)
	}

	faceNormal := positions[1].Sub(positions[0]).Cross(positions[2].Sub(positions[0]))
	if math.ApproxZero(faceNormal.Length()) {
		log.Warn("zero surface normal, using (0,0,1)")
		faceNormal = fallbackFaceNormal
	} else {
		faceNormal = faceNormal.Normalize()
	}

	corners := make([]faceCorner, len(face.Corners))
	for i, c := range face.Corners {
		corners[i] = faceCorner{
			pos:    positions[i],
			normal: b.normal(log, &mesh.Stats, i, c.Normal, faceNormal),
			uv:     b.uv(log, i, c.UV),
		}
	}

	c0 := corners[0]
	for i := 2; i < len(corners); i++ {
		c1, c2 := corners[i-1], corners[i]
		t := b.tangent(log, &mesh.Stats, i, c0, c1, c2, faceNormal)
		mesh.Vertices = append(mesh.Vertices,
			Vertex{Position: c0.pos, Normal: c0.normal, Tangent: t, UV: c0.uv},
			Vertex{Position: c1.pos, Normal: c1.normal, Tangent: t, UV: c1.uv},
			Vertex{Position: c2.pos, Normal: c2.normal, Tangent: t, UV: c2.uv},
		)
		mesh.Stats.Triangles++
	}
	mesh.Stats.Faces++
}

func (b *builder) position(log *zap.Logger, corner int, idx formats.Index) math.Vec3 {
	slot, ok := idx.Lookup(len(b.obj.Positions))
	if !ok {
		log.Warn("position index out of range, using origin",
			zap.Int("corner", corner),
			zap.Stringer("index", idx),
			zap.Int("positions", len(b.obj.Positions)))
		return math.Vec3{}
	}
	return b.obj.Positions[slot]
}

// uv resolves a texture coordinate. An absent index means (0,0).
func (b *builder) uv(log *zap.Logger, corner int, idx formats.Index) math.Vec2 {
	if !idx.IsSet() {
		log.Debug("no uv specified, using (0,0)", zap.Int("corner", corner))
		return math.Vec2{}
	}
	slot, ok := idx.Lookup(len(b.obj.UVs))
	if !ok {
		log.Warn("uv index out of range, using (0,0)",
			zap.Int("corner", corner),
			zap.Stringer("index", idx),
			zap.Int("uvs", len(b.obj.UVs)))
		return math.Vec2{}
	}
	return b.obj.UVs[slot]
}

// normal resolves a corner normal, falling back to the face normal when the
// corner has none or a zero one, and normalizing it when needed.
func (b *builder) normal(log *zap.Logger, stats *Stats, corner int, idx formats.Index, faceNormal math.Vec3) math.Vec3 {
	if !idx.IsSet() {
		log.Warn("no normal specified, using surface normal", zap.Int("corner", corner))
		stats.FallbackNormals++
		return faceNormal
	}
	slot, ok := idx.Lookup(len(b.obj.Normals))
	if !ok {
		log.Warn("normal index out of range, using surface normal",
			zap.Int("corner", corner),
			zap.Stringer("index", idx),
			zap.Int("normals", len(b.obj.Normals)))
		stats.FallbackNormals++
		return faceNormal
	}

	n := b.obj.Normals[slot]
	l := n.Length()
	if math.ApproxZero(l) {
		log.Warn("zero normal, using surface normal", zap.Int("corner", corner))
		stats.FallbackNormals++
		return faceNormal
	}
	if !math.ApproxEq(l, 1) {
		log.Warn("unnormalized normal, will normalize",
			zap.Int("corner", corner),
			zap.Float32("length", l))
		return n.Normalize()
	}
	return n
}

// tangent derives the triangle tangent from its UV gradients.
func (b *builder) tangent(log *zap.Logger, stats *Stats, corner int, c0, c1, c2 faceCorner, faceNormal math.Vec3) math.Vec3 {
	edge1 := c1.pos.Sub(c0.pos)
	edge2 := c2.pos.Sub(c0.pos)
	duv1 := c1.uv.Sub(c0.uv)
	duv2 := c2.uv.Sub(c0.uv)

	var t math.Vec3
	r := duv1.Cross(duv2)
	if math.ApproxZero(r) {
		stats.FallbackTangents++
		t = OrthogonalTangent(c2.normal)
	} else {
		t = edge1.Scale(duv2.Y).Sub(edge2.Scale(duv1.Y)).Scale(1 / r)
	}
	if t.IsFinite() {
		return t
	}

	stats.InvalidTangents++
	log.Error("invalid tangent",
		zap.Int("corner", corner),
		zap.Stringer("tangent", t),
		zap.Stringer("v0", c0.pos), zap.Stringer("n0", c0.normal), zap.Stringer("uv0", c0.uv),
		zap.Stringer("v1", c1.pos), zap.Stringer("n1", c1.normal), zap.Stringer("uv1", c1.uv),
		zap.Stringer("v2", c2.pos), zap.Stringer("n2", c2.normal), zap.Stringer("uv2", c2.uv),
		zap.Float32("r", r),
		zap.Float32("inv_r", 1/r),
		zap.Stringer("n2_cross_x", c2.normal.Cross(math.UnitX)),
		zap.Stringer("n2_cross_y", c2.normal.Cross(math.UnitY)),
		zap.String("policy", string(b.policy)))

	if b.policy == TangentPassthrough {
		return t
	}
	for _, n := range []math.Vec3{c2.normal, faceNormal} {
		if ft := OrthogonalTangent(n); ft.IsFinite() && !math.ApproxZero(ft.Length()) {
			return ft
		}
	}
	return math.UnitX
}

// OrthogonalTangent returns a unit vector orthogonal to n, built by crossing
// n with whichever of the X or Y axes it is less aligned with.
func OrthogonalTangent(n math.Vec3) math.Vec3 {
	if math.Abs(n.X) < math.Abs(n.Y) {
		return n.Cross(math.UnitX).Normalize()
	}
	return n.Cross(math.UnitY).Normalize()
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	bounds := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for i := range vertices[1:] {
		p := vertices[i+1].Position
		bounds.Min = math.Vec3{X: min(bounds.Min.X, p.X), Y: min(bounds.Min.Y, p.Y), Z: min(bounds.Min.Z, p.Z)}
		bounds.Max = math.Vec3{X: max(bounds.Max.X, p.X), Y: max(bounds.Max.Y, p.Y), Z: max(bounds.Max.Z, p.Z)}
	}
	return bounds
}
