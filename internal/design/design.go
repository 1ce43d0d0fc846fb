// Package design builds instance records for DNA nanostructure designs.
//
// The only builder for now is the demo double helix used by the viewer
// and the export tool when no design file is given.
package design

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/strandlab/helixview/internal/engine/instance"
)

var xAxis = mgl32.Vec3{1, 0, 0}

// Params controls the geometry of the demo double helix. Distances are
// in nanometers, matching B-DNA proportions by default.
type Params struct {
	Nucleotides  int     // per strand
	Rise         float32 // axial rise per base
	HelixRadius  float32
	BasesPerTurn float32
	SphereRadius float32 // nucleotide ball
	BondRadius   float32 // backbone tube
	PairRadius   float32 // base pair ellipsoid minor radius
}

// DefaultParams returns B-DNA-like proportions, scaled up for viewing.
func DefaultParams() Params {
	return Params{
		Nucleotides:  32,
		Rise:         0.34,
		HelixRadius:  1.0,
		BasesPerTurn: 10.5,
		SphereRadius: 0.25,
		BondRadius:   0.12,
		PairRadius:   0.08,
	}
}

var strandColors = [2]mgl32.Vec4{
	instance.ColorFromAU32(0xFF1E88E5),
	instance.ColorFromAU32(0xFFE53935),
}

var pairColor = instance.ColorFromAU32(0xFFBDBDBD)

// phantomColor stays above the fake-kind discard threshold so the
// preview spheres render as ghosts instead of vanishing.
var phantomColor = instance.ColorFromAU32(instance.GreyAU32(0.8, 0.7))

// DoubleHelix builds the records of a two-strand helix along the x axis:
// nucleotide spheres, chained backbone tubes with joint adjacency, base
// pair ellipsoids and a cone marking each strand's 3' end. Instance ids
// are assigned sequentially starting at 1.
func DoubleHelix(p Params) []instance.Record {
	var records []instance.Record
	nextID := uint32(1)

	strands := make([][]mgl32.Vec3, 2)
	for s := range strands {
		strands[s] = strandPositions(p, float32(s)*math32.Pi)
	}

	for s, positions := range strands {
		color := strandColors[s]

		for _, pos := range positions {
			records = append(records, sphereRecord(pos, p.SphereRadius, color, nextID))
			nextID++
		}

		for i := 0; i+1 < len(positions); i++ {
			var prev, next mgl32.Vec3
			if i > 0 {
				prev = positions[i].Sub(positions[i-1])
			}
			if i+2 < len(positions) {
				next = positions[i+2].Sub(positions[i+1])
			}
			records = append(records, bondRecord(positions[i], positions[i+1], prev, next, p.BondRadius, color, nextID))
			nextID++
		}

		if n := len(positions); n >= 2 {
			dir := positions[n-1].Sub(positions[n-2])
			records = append(records, coneRecord(positions[n-1], dir, p.SphereRadius, color, nextID))
			nextID++
		}

		// Ghost preview of the next nucleotide the strand would grow into.
		ghost := sphereRecord(positionAt(p, float32(s)*math32.Pi, p.Nucleotides), p.SphereRadius, phantomColor, nextID)
		ghost.Kind = instance.KindFakeSphere
		records = append(records, ghost)
		nextID++
	}

	for i := 0; i < p.Nucleotides; i++ {
		records = append(records, pairRecord(strands[0][i], strands[1][i], p.PairRadius, nextID))
		nextID++
	}

	return records
}

// Bounds returns the axis-aligned bounding box of the record origins.
func Bounds(records []instance.Record) (min, max mgl32.Vec3) {
	if len(records) == 0 {
		return
	}
	min = origin(&records[0])
	max = min
	for i := range records[1:] {
		p := origin(&records[i+1])
		for axis := 0; axis < 3; axis++ {
			if p[axis] < min[axis] {
				min[axis] = p[axis]
			}
			if p[axis] > max[axis] {
				max[axis] = p[axis]
			}
		}
	}
	return
}

func origin(rec *instance.Record) mgl32.Vec3 {
	return mgl32.Vec3{rec.Model[12], rec.Model[13], rec.Model[14]}
}

func strandPositions(p Params, phase float32) []mgl32.Vec3 {
	positions := make([]mgl32.Vec3, p.Nucleotides)
	for i := range positions {
		positions[i] = positionAt(p, phase, i)
	}
	return positions
}

func positionAt(p Params, phase float32, i int) mgl32.Vec3 {
	theta := phase + float32(i)*2*math32.Pi/p.BasesPerTurn
	return mgl32.Vec3{
		float32(i) * p.Rise,
		p.HelixRadius * math32.Cos(theta),
		p.HelixRadius * math32.Sin(theta),
	}
}

func sphereRecord(pos mgl32.Vec3, radius float32, color mgl32.Vec4, id uint32) instance.Record {
	return instance.Record{
		Model:        mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()),
		InverseModel: mgl32.Translate3D(-pos.X(), -pos.Y(), -pos.Z()),
		Scale:        mgl32.Vec3{radius, radius, radius},
		Color:        color,
		ID:           id,
		Kind:         instance.KindSphere,
	}
}

// bondRecord builds a chained sliced tube from a to b. The prev and next
// adjacency directions are world vectors; they are carried in the tube's
// local frame where the axis is x.
func bondRecord(a, b, prev, next mgl32.Vec3, radius float32, color mgl32.Vec4, id uint32) instance.Record {
	dir := b.Sub(a)
	length := dir.Len()
	mid := a.Add(b).Mul(0.5)

	rot := mgl32.QuatBetweenVectors(xAxis, dir.Normalize())
	model := mgl32.Translate3D(mid.X(), mid.Y(), mid.Z()).Mul4(rot.Mat4())
	inv := rot.Inverse()

	rec := instance.Record{
		Model:        model,
		InverseModel: model.Inv(),
		Scale:        mgl32.Vec3{length, radius, radius},
		Color:        color,
		ID:           id,
		Kind:         instance.KindSlicedTube,
	}
	if prev.Len() > 0 {
		rec.Prev = inv.Rotate(prev.Normalize())
	}
	if next.Len() > 0 {
		rec.Next = inv.Rotate(next.Normalize())
	}
	return rec
}

// coneRecord places a 3' end marker with its base on the last nucleotide,
// pointing along the strand direction.
func coneRecord(base, dir mgl32.Vec3, radius float32, color mgl32.Vec4, id uint32) instance.Record {
	rot := mgl32.QuatBetweenVectors(xAxis, dir.Normalize())
	model := mgl32.Translate3D(base.X(), base.Y(), base.Z()).Mul4(rot.Mat4())
	return instance.Record{
		Model:        model,
		InverseModel: model.Inv(),
		Scale:        mgl32.Vec3{radius * 2, radius, radius},
		Color:        color,
		ID:           id,
		Kind:         instance.KindPrime3Cone,
	}
}

func pairRecord(a, b mgl32.Vec3, radius float32, id uint32) instance.Record {
	dir := b.Sub(a)
	mid := a.Add(b).Mul(0.5)
	rot := mgl32.QuatBetweenVectors(xAxis, dir.Normalize())
	model := mgl32.Translate3D(mid.X(), mid.Y(), mid.Z()).Mul4(rot.Mat4())
	return instance.Record{
		Model:        model,
		InverseModel: model.Inv(),
		Scale:        mgl32.Vec3{dir.Len() / 2, radius, radius},
		Color:        pairColor,
		ID:           id,
		Kind:         instance.KindBaseEllipsoid,
	}
}
