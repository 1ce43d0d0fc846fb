// Package stl implements the binary STL triangle-mesh file format.
//
// Layout:
//
//	UINT8[80]  header (unconstrained, written as zeros)
//	UINT32     triangle count, little-endian
//	per triangle (50 bytes):
//	  REAL32[3] normal
//	  REAL32[3] vertex 1
//	  REAL32[3] vertex 2
//	  REAL32[3] vertex 3
//	  UINT16    attribute byte count (0)
//
// Only the binary variant is supported; there is no ASCII writer.
package stl

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	// HeaderSize is the size of the unconstrained file header.
	HeaderSize = 80
	// TriangleSize is the size of one encoded triangle record.
	TriangleSize = 50
)

// Triangle is one face: a face normal and three vertices, all in world
// space, single precision. A zero normal is legal per the STL format;
// consumers recompute normals on import.
type Triangle struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
}

// ExportError wraps an I/O failure during STL export. Callers must treat
// any export error as "file contents undefined".
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("stl export: %v", e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Size returns the encoded file size for n triangles.
func Size(n int) int {
	return HeaderSize + 4 + TriangleSize*n
}

// Encode serializes triangles to the binary STL layout.
func Encode(triangles []Triangle) []byte {
	buf := make([]byte, Size(len(triangles)))
	binary.LittleEndian.PutUint32(buf[HeaderSize:], uint32(len(triangles)))

	off := HeaderSize + 4
	for i := range triangles {
		t := &triangles[i]
		off = putVec(buf, off, t.Normal)
		off = putVec(buf, off, t.V1)
		off = putVec(buf, off, t.V2)
		off = putVec(buf, off, t.V3)
		off += 2 // attribute byte count stays zero
	}
	return buf
}

func putVec(buf []byte, off int, v [3]float32) int {
	for _, c := range v {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(c))
		off += 4
	}
	return off
}

// Write serializes triangles to w. Failures surface as *ExportError.
func Write(w io.Writer, triangles []Triangle) error {
	if _, err := w.Write(Encode(triangles)); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

// WriteFile serializes triangles to a new file at path. On failure the
// file contents are undefined; no temp-file-rename discipline is applied.
func WriteFile(path string, triangles []Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return &ExportError{Err: err}
	}
	if err := Write(f, triangles); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}
