// Package formats provides parsers for mesh interchange formats.
package formats

// Note: Wavefront OBJ is implemented in obj.go
