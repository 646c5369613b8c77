package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/objbuf/pkg/math"
)

// OBJ format errors.
var (
	ErrInvalidCorner = errors.New("invalid face corner")
	ErrInvalidIndex  = errors.New("index must be a positive integer")
)

// Face size limits. Faces outside this range are dropped.
const (
	MinFaceCorners = 3
	MaxFaceCorners = 4
)

// Index is an optional 1-based index into one of the OBJ attribute lists.
// The zero value is an absent index.
type Index struct {
	value int
	set   bool
}

// At returns a present index with the given 1-based value.
func At(value int) Index {
	return Index{value: value, set: true}
}

// IsSet reports whether the index was given in the file.
func (i Index) IsSet() bool {
	return i.set
}

// Lookup returns the 0-based slot for a list of length n.
// ok is false when the index is absent or out of range.
func (i Index) Lookup(n int) (slot int, ok bool) {
	if !i.set || i.value < 1 || i.value > n {
		return 0, false
	}
	return i.value - 1, true
}

// String returns the index value, or "-" when absent.
func (i Index) String() string {
	if !i.set {
		return "-"
	}
	return strconv.Itoa(i.value)
}

// Corner references the attributes of one polygon vertex.
type Corner struct {
	Position Index
	UV       Index
	Normal   Index
}

// Face is a polygon of 3 or 4 corners in file order.
type Face struct {
	Corners []Corner
	Line    int // source line, for diagnostics
}

// OBJ represents a parsed Wavefront OBJ mesh.
type OBJ struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	Faces     []Face

	// Object and group names in file order.
	Objects []string
	Groups  []string
}

// OBJOptions controls ParseOBJ side channels. Nil fields discard output.
type OBJOptions struct {
	// Logger receives per-line diagnostics.
	Logger *zap.Logger
	// Passthrough receives "o" and "g" lines verbatim.
	Passthrough io.Writer
}

// ParseOBJ reads an OBJ mesh from r.
// Malformed lines are reported to opts.Logger and skipped; the returned
// error is only set when r itself fails.
func ParseOBJ(r io.Reader, opts OBJOptions) (*OBJ, error) {
	p := objParser{
		obj:  &OBJ{},
		log:  opts.Logger,
		echo: opts.Passthrough,
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.echo == nil {
		p.echo = io.Discard
	}

	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			p.line++
			raw = strings.TrimSuffix(raw, "\n")
			p.parseLine(strings.TrimSuffix(raw, "\r"))
		}
		if err == io.EOF {
			return p.obj, nil
		}
		if err != nil {
			return p.obj, fmt.Errorf("reading OBJ at line %d: %w", p.line+1, err)
		}
	}
}

// ParseOBJString parses OBJ text held in memory.
func ParseOBJString(s string, opts OBJOptions) (*OBJ, error) {
	return ParseOBJ(strings.NewReader(s), opts)
}

type objParser struct {
	obj  *OBJ
	log  *zap.Logger
	echo io.Writer
	line int
}

func (p *objParser) parseLine(raw string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return
	}
	key, args := fields[0], fields[1:]
	if strings.HasPrefix(key, "#") {
		return
	}

	switch key {
	case "s", "usemtl", "mtllib":
		// Materials and smoothing groups carry no geometry.
	case "o":
		fmt.Fprintln(p.echo, raw)
		p.obj.Objects = append(p.obj.Objects, strings.Join(args, " "))
	case "g":
		fmt.Fprintln(p.echo, raw)
		p.obj.Groups = append(p.obj.Groups, strings.Join(args, " "))
	case "v":
		var v [3]float32
		p.parseFloats(key, args, v[:])
		p.obj.Positions = append(p.obj.Positions, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
	case "vn":
		var v [3]float32
		p.parseFloats(key, args, v[:])
		p.obj.Normals = append(p.obj.Normals, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
	case "vt":
		var v [2]float32
		p.parseFloats(key, args, v[:])
		p.obj.UVs = append(p.obj.UVs, math.Vec2{X: v[0], Y: v[1]})
	case "f":
		p.parseFace(args)
	default:
		p.log.Warn("unknown keyword",
			zap.String("keyword", key),
			zap.Int("line", p.line))
	}
}

// parseFloats fills dst from the leading args. Fields that are missing or
// not numeric stay zero so the record keeps its slot in the list. Text glued
// to the last field, as in "1.0#n", is trailing content, not a bad field.
func (p *objParser) parseFloats(key string, args []string, dst []float32) {
	var trailing []string
	for i := range dst {
		if i >= len(args) {
			p.log.Warn("malformed record",
				zap.String("keyword", key),
				zap.Int("line", p.line),
				zap.Int("want", len(dst)),
				zap.Int("got", len(args)))
			return
		}
		f, rest, ok := parseFloatPrefix(args[i])
		if ok {
			dst[i] = f
		}
		if !ok || (rest != "" && i < len(dst)-1) {
			p.log.Warn("malformed record",
				zap.String("keyword", key),
				zap.Int("line", p.line),
				zap.String("field", args[i]))
			return
		}
		if rest != "" {
			trailing = append(trailing, rest)
		}
	}
	if len(args) > len(dst) {
		trailing = append(trailing, args[len(dst):]...)
	}
	if len(trailing) > 0 {
		p.log.Warn("trailing characters",
			zap.String("keyword", key),
			zap.Int("line", p.line),
			zap.Strings("trailing", trailing))
	}
}

// parseFloatPrefix parses the longest leading part of tok that is a number
// and returns the unparsed remainder.
func parseFloatPrefix(tok string) (f float32, rest string, ok bool) {
	for n := len(tok); n > 0; n-- {
		v, err := strconv.ParseFloat(tok[:n], 32)
		if err == nil {
			return float32(v), tok[n:], true
		}
		if errors.Is(err, strconv.ErrRange) {
			break
		}
	}
	return 0, tok, false
}

func (p *objParser) parseFace(args []string) {
	corners := make([]Corner, 0, len(args))
	for _, tok := range args {
		c, err := ParseCorner(tok)
		if err != nil {
			p.log.Warn("malformed face corner, face dropped",
				zap.Int("line", p.line),
				zap.String("corner", tok),
				zap.Error(err))
			return
		}
		corners = append(corners, c)
	}

	switch {
	case len(corners) < MinFaceCorners:
		p.log.Warn("face has too few corners, ignored",
			zap.Int("line", p.line),
			zap.Int("corners", len(corners)))
	case len(corners) > MaxFaceCorners:
		p.log.Warn("face has too many corners, ignored",
			zap.Int("line", p.line),
			zap.Int("corners", len(corners)))
	default:
		p.obj.Faces = append(p.obj.Faces, Face{Corners: corners, Line: p.line})
	}
}

// ParseCorner parses a face corner of the form v, v/u, v//n or v/u/n.
// The grammar is: int ('/' int? ('/' int)?)?
func ParseCorner(tok string) (Corner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return Corner{}, fmt.Errorf("%w: %q has %d parts", ErrInvalidCorner, tok, len(parts))
	}

	var c Corner
	var err error
	if c.Position, err = parseIndex(parts[0]); err != nil {
		return Corner{}, fmt.Errorf("%w: position: %w", ErrInvalidCorner, err)
	}
	if !c.Position.IsSet() {
		return Corner{}, fmt.Errorf("%w: %q has no position index", ErrInvalidCorner, tok)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.UV, err = parseIndex(parts[1]); err != nil {
			return Corner{}, fmt.Errorf("%w: uv: %w", ErrInvalidCorner, err)
		}
	}
	if len(parts) > 2 {
		if parts[2] == "" {
			return Corner{}, fmt.Errorf("%w: %q ends with '/'", ErrInvalidCorner, tok)
		}
		if c.Normal, err = parseIndex(parts[2]); err != nil {
			return Corner{}, fmt.Errorf("%w: normal: %w", ErrInvalidCorner, err)
		}
	}
	return c, nil
}

// parseIndex parses a positive 1-based index. An empty string is absent.
func parseIndex(s string) (Index, error) {
	if s == "" {
		return Index{}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Index{}, fmt.Errorf("%w: %q", ErrInvalidIndex, s)
	}
	if n < 1 {
		return Index{}, fmt.Errorf("%w: %d", ErrInvalidIndex, n)
	}
	return At(n), nil
}

// TriangleCount returns the number of fan triangles the kept faces produce.
func (o *OBJ) TriangleCount() int {
	n := 0
	for _, f := range o.Faces {
		n += len(f.Corners) - 2
	}
	return n
}
