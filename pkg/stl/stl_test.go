package stl

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeEmpty(t *testing.T) {
	buf := Encode(nil)
	if len(buf) != 84 {
		t.Fatalf("empty STL should be 84 bytes, got %d", len(buf))
	}
	if n := binary.LittleEndian.Uint32(buf[80:]); n != 0 {
		t.Errorf("triangle count should be 0, got %d", n)
	}
	for i, b := range buf[:80] {
		if b != 0 {
			t.Fatalf("header byte %d should be 0, got %d", i, b)
		}
	}
}

func TestEncodeSize(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 100} {
		tris := make([]Triangle, n)
		buf := Encode(tris)
		want := 84 + 50*n
		if len(buf) != want {
			t.Errorf("n=%d: size %d, want %d", n, len(buf), want)
		}
		if got := binary.LittleEndian.Uint32(buf[80:]); got != uint32(n) {
			t.Errorf("n=%d: count field %d", n, got)
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	tri := Triangle{
		Normal: [3]float32{0, 0, 1},
		V1:     [3]float32{0, 0, 0},
		V2:     [3]float32{0, 1, 0},
		V3:     [3]float32{1, 0, 0},
	}
	buf := Encode([]Triangle{tri})

	readVec := func(off int) [3]float32 {
		var v [3]float32
		for i := range v {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[off+4*i:]))
		}
		return v
	}

	if got := readVec(84); got != tri.Normal {
		t.Errorf("normal at offset 84: got %v, want %v", got, tri.Normal)
	}
	if got := readVec(96); got != tri.V1 {
		t.Errorf("v1 at offset 96: got %v, want %v", got, tri.V1)
	}
	if got := readVec(108); got != tri.V2 {
		t.Errorf("v2 at offset 108: got %v, want %v", got, tri.V2)
	}
	if got := readVec(120); got != tri.V3 {
		t.Errorf("v3 at offset 120: got %v, want %v", got, tri.V3)
	}
	if attr := binary.LittleEndian.Uint16(buf[132:]); attr != 0 {
		t.Errorf("attribute byte count should be 0, got %d", attr)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	tris := []Triangle{
		{V1: [3]float32{0, 0, 0}, V2: [3]float32{0, 1, 0}, V3: [3]float32{1, 0, 0}},
		{V1: [3]float32{1, 0, 0}, V2: [3]float32{0, 1, 0}, V3: [3]float32{0, 0, 2}},
	}
	if err := WriteFile(path, tris); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 84+50*2 {
		t.Errorf("file size %d, want %d", len(data), 84+50*2)
	}
}

func TestWriteFileError(t *testing.T) {
	// Directory as target must fail with a distinguishable error kind.
	err := WriteFile(t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected error writing to a directory")
	}
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Errorf("error should be *ExportError, got %T", err)
	}
	if exportErr.Unwrap() == nil {
		t.Error("ExportError should carry the underlying cause")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteError(t *testing.T) {
	err := Write(failWriter{}, make([]Triangle, 1))
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("error should be *ExportError, got %T", err)
	}
}
