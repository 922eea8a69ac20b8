// Package icon rasterizes the procedural app icon: a rounded-square
// badge with a ringed disc, a handle, two eyes and two footer bars.
// Every pixel is a pure function of its coordinate and the fixed shape
// table below, evaluated in raster order.
package icon

import (
	"image"
	"image/color"
	"math"
)

// The shape table. All lengths are fractions of the canvas size, so
// the icon renders identically at any resolution. Coordinates use the
// raster convention: origin top-left, y growing downward.
const (
	cornerRadius = 0.18

	ringCenterX = 0.50
	ringCenterY = 0.42
	ringOuter   = 0.30
	ringInner   = 0.25

	handleX0, handleY0 = 0.70, 0.62
	handleX1, handleY1 = 0.84, 0.78
	handleHalfWidth    = 0.035

	eyeLeftX, eyeRightX = 0.41, 0.59
	eyeY                = 0.38
	eyeRadius           = 0.05

	outlineWidth = 0.03

	barX0, barX1   = 0.20, 0.80
	barAY0, barAY1 = 0.80, 0.85
	barBY0, barBY1 = 0.89, 0.93
)

var (
	gradientTop    = color.NRGBA{R: 58, G: 110, B: 165, A: 255}
	gradientBottom = color.NRGBA{R: 39, G: 68, B: 114, A: 255}
	creamColor     = color.NRGBA{R: 242, G: 233, B: 220, A: 255}
	amberColor     = color.NRGBA{R: 232, G: 176, B: 75, A: 255}
	eyeColor       = color.NRGBA{R: 30, G: 36, B: 51, A: 255}
	outlineColor   = color.NRGBA{R: 20, G: 26, B: 42, A: 255}
)

// Paint renders the icon at the given square size. The rounded
// rectangle masks the whole canvas: pixels outside it stay fully
// transparent and no layer is evaluated for them.
func Paint(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			// Sample at the pixel center, in unit coordinates.
			x := (float64(px) + 0.5) / s
			y := (float64(py) + 0.5) / s

			inset, inside := roundedRectInset(x, y, cornerRadius)
			if !inside {
				continue
			}
			img.SetNRGBA(px, py, paintPixel(x, y, inset))
		}
	}
	return img
}

// paintPixel evaluates the visual layers in order; each satisfied
// predicate overwrites the color from the layers before it.
func paintPixel(x, y, edgeInset float64) color.NRGBA {
	// Background: vertical gradient across the full canvas.
	c := lerpColor(gradientTop, gradientBottom, y)

	dx, dy := x-ringCenterX, y-ringCenterY
	ringDist2 := dx*dx + dy*dy

	if ringDist2 <= ringOuter*ringOuter {
		c = creamColor // ring
	}
	if ringDist2 <= ringInner*ringInner {
		c = amberColor // interior tint
	}
	if segmentDist2(x, y, handleX0, handleY0, handleX1, handleY1) <= handleHalfWidth*handleHalfWidth {
		c = creamColor // handle
	}
	if circleContains(x, y, eyeLeftX, eyeY, eyeRadius) || circleContains(x, y, eyeRightX, eyeY, eyeRadius) {
		c = eyeColor // eyes
	}
	if edgeInset < outlineWidth {
		c = outlineColor // outline band hugging the mask edge
	}
	if x >= barX0 && x <= barX1 && edgeInset >= outlineWidth {
		if (y >= barAY0 && y <= barAY1) || (y >= barBY0 && y <= barBY1) {
			c = creamColor // decorative bars
		}
	}
	return c
}

// roundedRectInset reports whether (x, y) lies inside the unit rounded
// rectangle with the given corner radius, and how far inside the
// boundary it sits. In the four corner zones containment and depth
// come from the circular arc around the nearest corner center; outside
// the corner zones, straight edge inclusion applies.
func roundedRectInset(x, y, r float64) (inset float64, inside bool) {
	if x < 0 || y < 0 || x > 1 || y > 1 {
		return 0, false
	}

	cx, inCornerX := cornerCoord(x, r)
	cy, inCornerY := cornerCoord(y, r)

	if inCornerX && inCornerY {
		dx, dy := x-cx, y-cy
		d := dx*dx + dy*dy
		if d > r*r {
			return 0, false
		}
		return r - math.Sqrt(d), true
	}

	return min(x, 1-x, y, 1-y), true
}

// cornerCoord maps a 1D coordinate to the nearest corner-circle center
// on that axis and reports whether it lies in a corner zone.
func cornerCoord(v, r float64) (center float64, inZone bool) {
	switch {
	case v < r:
		return r, true
	case v > 1-r:
		return 1 - r, true
	default:
		return v, false
	}
}

// segmentDist2 returns the squared distance from (x, y) to the line
// segment (x0, y0)-(x1, y1).
func segmentDist2(x, y, x0, y0, x1, y1 float64) float64 {
	vx, vy := x1-x0, y1-y0
	wx, wy := x-x0, y-y0

	t := (wx*vx + wy*vy) / (vx*vx + vy*vy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	dx := x - (x0 + t*vx)
	dy := y - (y0 + t*vy)
	return dx*dx + dy*dy
}

func circleContains(x, y, cx, cy, r float64) bool {
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// lerpColor blends a toward b by t in [0, 1].
func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: 255,
	}
}
