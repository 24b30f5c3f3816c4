// Package blend composites premultiplied RGBA spans for the CPU effect
// backend.
//
// All values are premultiplied alpha in the range 0-255, matching the
// blend states the GPU backend configures for the same programs.
package blend

// Mode is a compositing operator.
type Mode uint8

const (
	// SourceOver composites S + D*(1-Sa). Used by alpha-blended programs.
	SourceOver Mode = iota

	// Plus composites S + D clamped to 255. Used by additive programs.
	Plus
)

// String returns the operator name.
func (m Mode) String() string {
	switch m {
	case SourceOver:
		return "SourceOver"
	case Plus:
		return "Plus"
	default:
		return "Unknown"
	}
}

// Pixel blends one premultiplied source pixel onto a destination pixel.
func Pixel(mode Mode, sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte) {
	if mode == Plus {
		return addClamp(sr, dr), addClamp(sg, dg), addClamp(sb, db), addClamp(sa, da)
	}
	inv := 255 - sa
	return addClamp(sr, mulDiv255(dr, inv)),
		addClamp(sg, mulDiv255(dg, inv)),
		addClamp(sb, mulDiv255(db, inv)),
		addClamp(sa, mulDiv255(da, inv))
}

// Span blends src onto dst pixel by pixel. Both slices hold premultiplied
// RGBA; the shorter length wins.
func Span(mode Mode, dst, src []uint8) {
	n := min(len(dst), len(src)) &^ 3
	for i := 0; i < n; i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = Pixel(mode,
			src[i], src[i+1], src[i+2], src[i+3],
			dst[i], dst[i+1], dst[i+2], dst[i+3])
	}
}
