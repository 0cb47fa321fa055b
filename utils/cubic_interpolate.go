// SPDX-License-Identifier: EPL-2.0

package utils

// CubicInterpolate evaluates the Catmull-Rom spline through y0..y3 at x,
// where x in [0, 1] runs from y1 to y2.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a := 0.5 * (3*(y1-y2) + y3 - y0)
	b := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c := 0.5 * (y2 - y0)

	return ((a*x+b)*x+c)*x + y1
}

// InterpolateFrame interpolates every channel of an interleaved frame
// window into dst. A nil prev or next repeats the nearest inner frame, which
// is how the window looks at the start and end of a source.
func InterpolateFrame(dst, prev, cur, next, after []float32, x float32) {
	if prev == nil {
		prev = cur
	}
	if after == nil {
		after = next
	}
	for c := range dst {
		dst[c] = CubicInterpolate(prev[c], cur[c], next[c], after[c], x)
	}
}
