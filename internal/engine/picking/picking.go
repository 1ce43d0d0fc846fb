// Package picking recovers instance ids from the offscreen identity
// buffer for mouse hit-testing.
package picking

import (
	"github.com/strandlab/helixview/internal/engine/framebuffer"
	"github.com/strandlab/helixview/internal/engine/instance"
)

// NoHit is the sentinel decoded from background pixels. The identity
// buffer is cleared to all-ones, which decodes to this value, so ids
// equal to NoHit must never be assigned to pickable objects.
const NoHit uint32 = 0xFFFFFFFF

// Decode recovers an instance id from a raw identity-buffer pixel.
func Decode(px [4]uint8) uint32 {
	return instance.DecodePixel(px[0], px[1], px[2], px[3])
}

// Pick reads the identity buffer under window coordinates (x, y) and
// returns the instance id there, or NoHit for background.
func Pick(fb *framebuffer.Identity, x, y int32) uint32 {
	w, h := fb.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return NoHit
	}
	return Decode(fb.ReadPixel(x, y))
}
