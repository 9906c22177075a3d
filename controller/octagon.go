package controller

import "math"

// ConstrainToOctagon clamps (dx, dy) to the regular octagon with vertices
// on the axes at distance halfWidth. Points inside are returned unchanged;
// points outside are pulled back along the ray to the centre.
func ConstrainToOctagon(dx, dy, halfWidth float64) (float64, float64) {
	dC := halfWidth
	dA := dC * math.Sqrt(0.5)

	signX := 1.0
	if dx < 0 {
		signX = -1
	}

	signY := 1.0
	if dy < 0 {
		signY = -1
	}

	var x, y float64
	var ok bool
	if signX*dx > signY*dy {
		x, y, ok = segsCross(0, 0, dx, dy, signX*dC, 0, signX*dA, signY*dA)
	} else {
		x, y, ok = segsCross(0, 0, dx, dy, 0, signY*dC, signX*dA, signY*dA)
	}

	if !ok {
		return dx, dy
	}

	return x, y
}

// segsCross intersects segment p1-p2 with segment q1-q2.
func segsCross(p1x, p1y, p2x, p2y, q1x, q1y, q2x, q2y float64) (float64, float64, bool) {
	v1x := p2x - p1x
	v1y := p2y - p1y

	v2x := q2x - q1x
	v2y := q2y - q1y

	div := -v2x*v1y + v1x*v2y
	if div == 0 {
		return 0, 0, false
	}

	s := (-v1y*(p1x-q1x) + v1x*(p1y-q1y)) / div
	t := (v2x*(p1y-q1y) - v2y*(p1x-q1x)) / div

	if s >= 0 && s <= 1 && t >= 0 && t <= 1 {
		return p1x + t*v1x, p1y + t*v1y, true
	}

	return 0, 0, false
}
