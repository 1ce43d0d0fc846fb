package instance

import "testing"

func TestEncodeIDChannels(t *testing.T) {
	c := EncodeID(0xAABBCCDD)
	// R carries bits 16-23, G bits 8-15, B bits 0-7, A bits 24-31.
	want := [4]float32{0xBB / 255.0, 0xCC / 255.0, 0xDD / 255.0, 0xAA / 255.0}
	for i := range want {
		if c[i] != want[i] {
			t.Errorf("channel %d: got %v, want %v", i, c[i], want[i])
		}
	}
}

func TestIDRoundTrip(t *testing.T) {
	ids := []uint32{
		0, 1, 255, 256, 0xFFFF, 0x10000, 0xDEADBEEF, 0x80000000, 0xFFFFFFFF,
	}
	// Exercise every byte value in every channel position.
	for b := uint32(0); b < 256; b++ {
		ids = append(ids, b, b<<8, b<<16, b<<24)
	}
	for _, id := range ids {
		if got := DecodeID(EncodeID(id)); got != id {
			t.Errorf("round trip of %#x: got %#x", id, got)
		}
	}
}

func TestDecodePixel(t *testing.T) {
	id := uint32(0x01020304)
	c := EncodeID(id)
	r := uint8(c.X()*255 + 0.5)
	g := uint8(c.Y()*255 + 0.5)
	b := uint8(c.Z()*255 + 0.5)
	a := uint8(c.W()*255 + 0.5)
	if got := DecodePixel(r, g, b, a); got != id {
		t.Errorf("DecodePixel: got %#x, want %#x", got, id)
	}
	if got := DecodePixel(0xFF, 0xFF, 0xFF, 0xFF); got != 0xFFFFFFFF {
		t.Errorf("background pixel: got %#x", got)
	}
}

func TestMeshKindRules(t *testing.T) {
	if !KindFakeSphere.Fake() || !KindFakeTube.Fake() {
		t.Error("fake kinds should report Fake")
	}
	if KindSphere.Fake() || KindSlicedTube.Fake() {
		t.Error("solid kinds should not report Fake")
	}
	if !KindSlicedTube.Chained() || !KindFakeTube.Chained() {
		t.Error("sliced tube kinds should be chained")
	}
	if KindSphere.Chained() || KindTubeLid.Chained() {
		t.Error("non-tube kinds should not be chained")
	}
}
