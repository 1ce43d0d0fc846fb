package picking

import (
	"testing"

	"github.com/strandlab/helixview/internal/engine/instance"
)

func TestDecodeRoundTrip(t *testing.T) {
	for _, id := range []uint32{0, 7, 0x00ABCDEF, 0x12345678, NoHit - 1} {
		c := instance.EncodeID(id)
		px := [4]uint8{
			uint8(c.X()*255 + 0.5),
			uint8(c.Y()*255 + 0.5),
			uint8(c.Z()*255 + 0.5),
			uint8(c.W()*255 + 0.5),
		}
		if got := Decode(px); got != id {
			t.Errorf("id %#x decoded as %#x", id, got)
		}
	}
}

func TestDecodeBackground(t *testing.T) {
	if got := Decode([4]uint8{0xFF, 0xFF, 0xFF, 0xFF}); got != NoHit {
		t.Errorf("background pixel should decode to NoHit, got %#x", got)
	}
}
