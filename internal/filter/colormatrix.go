package filter

import "math"

// ColorMatrix is a 4x5 colour transformation in row-major order:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Colour values are straight-alpha in [0, 255] during the transform; the
// fifth column is a bias in the same range.
type ColorMatrix [20]float32

// Identity returns a matrix that passes colours through unchanged.
func Identity() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Brightness scales RGB linearly. 0 = black, 1 = unchanged.
func Brightness(amount float32) ColorMatrix {
	return ColorMatrix{
		amount, 0, 0, 0, 0,
		0, amount, 0, 0, 0,
		0, 0, amount, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Contrast scales RGB around mid-grey. 0 = flat grey, 1 = unchanged.
func Contrast(amount float32) ColorMatrix {
	offset := 127.5 * (1 - amount)
	return ColorMatrix{
		amount, 0, 0, 0, offset,
		0, amount, 0, 0, offset,
		0, 0, amount, 0, offset,
		0, 0, 0, 1, 0,
	}
}

// Saturate scales saturation. 0 = grayscale, 1 = unchanged, >1 oversaturates.
func Saturate(s float32) ColorMatrix {
	return ColorMatrix{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Sepia blends toward a sepia tone. amount is clamped to [0, 1].
func Sepia(amount float32) ColorMatrix {
	k := 1 - clamp01(amount)
	return ColorMatrix{
		0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k, 0, 0,
		0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k, 0, 0,
		0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Grayscale blends toward luminance. amount is clamped to [0, 1].
func Grayscale(amount float32) ColorMatrix {
	k := 1 - clamp01(amount)
	return ColorMatrix{
		0.2126 + 0.7874*k, 0.7152 - 0.7152*k, 0.0722 - 0.0722*k, 0, 0,
		0.2126 - 0.2126*k, 0.7152 + 0.2848*k, 0.0722 - 0.0722*k, 0, 0,
		0.2126 - 0.2126*k, 0.7152 - 0.7152*k, 0.0722 + 0.9278*k, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// HueRotate rotates hue by degrees.
func HueRotate(degrees float32) ColorMatrix {
	rad := float64(degrees) * math.Pi / 180
	c := float32(math.Cos(rad))
	s := float32(math.Sin(rad))
	return ColorMatrix{
		0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928, 0, 0,
		0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283, 0, 0,
		0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Then returns the matrix that applies m first and next second.
func (m ColorMatrix) Then(next ColorMatrix) ColorMatrix {
	var r ColorMatrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += next[row*5+k] * m[k*5+col]
			}
			r[row*5+col] = sum
		}
		r[row*5+4] = next[row*5+0]*m[4] + next[row*5+1]*m[9] +
			next[row*5+2]*m[14] + next[row*5+3]*m[19] + next[row*5+4]
	}
	return r
}

// Transform applies the matrix to one straight-alpha colour in [0, 255].
func (m *ColorMatrix) Transform(r, g, b, a float32) (float32, float32, float32, float32) {
	return m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4],
		m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9],
		m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14],
		m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]
}

// Apply transforms premultiplied RGBA pixels in place.
func (m *ColorMatrix) Apply(pix []uint8) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := float32(pix[i+3])
		if a == 0 {
			continue
		}

		// Un-premultiply; the coefficients assume straight alpha.
		r := float32(pix[i+0]) * 255 / a
		g := float32(pix[i+1]) * 255 / a
		b := float32(pix[i+2]) * 255 / a

		nr, ng, nb, na := m.Transform(r, g, b, a)
		na = clamp255(na)
		f := na / 255
		pix[i+0] = clampUint8(clamp255(nr) * f)
		pix[i+1] = clampUint8(clamp255(ng) * f)
		pix[i+2] = clampUint8(clamp255(nb) * f)
		pix[i+3] = clampUint8(na)
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// clampUint8 clamps a float32 to [0, 255] and rounds to nearest.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
