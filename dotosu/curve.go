package dotosu

import "math"

// Curve approximation follows the tolerances the game client uses, so that
// positions computed here land where the slider is actually drawn.
const (
	bezierTolerance = 0.25
	arcTolerance    = 0.1
	catmullDetail   = 50
)

type Vec struct{ X, Y float64 }

func (a Vec) Add(b Vec) Vec       { return Vec{a.X + b.X, a.Y + b.Y} }
func (a Vec) Sub(b Vec) Vec       { return Vec{a.X - b.X, a.Y - b.Y} }
func (a Vec) Scale(f float64) Vec { return Vec{a.X * f, a.Y * f} }
func (a Vec) Dist(b Vec) float64  { return math.Hypot(a.X-b.X, a.Y-b.Y) }
func (a Vec) cross(b Vec) float64 { return a.X*b.Y - a.Y*b.X }

func (a Vec) near(b Vec, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func vecOf(p Point) Vec { return Vec{float64(p.X), float64(p.Y)} }

func vecsOf(points []Point) []Vec {
	out := make([]Vec, len(points))
	for i, p := range points {
		out[i] = vecOf(p)
	}
	return out
}

// Polyline flattens the path into line segments in playfield coordinates,
// starting at the slider head.
func (p SliderPath) Polyline() []Vec {
	var out []Vec
	push := func(vs ...Vec) {
		for _, v := range vs {
			if n := len(out); n == 0 || !out[n-1].near(v, 1e-9) {
				out = append(out, v)
			}
		}
	}
	for _, seg := range p.Segments {
		cp := vecsOf(seg)
		switch p.Type {
		case PathLinear:
			push(cp...)
		case PathCatmull:
			push(catmull(cp)...)
		case PathPerfect:
			if len(cp) == 3 {
				push(circularArc(cp[0], cp[1], cp[2])...)
			} else {
				push(bezier(cp)...)
			}
		default:
			push(bezier(cp)...)
		}
	}
	return out
}

// bezier subdivides until every piece is flat within tolerance.
func bezier(cp []Vec) []Vec {
	if len(cp) < 2 {
		return cp
	}
	var out []Vec
	stack := [][]Vec{cp}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if flatEnough(cur) {
			out = append(out, cur[0])
			continue
		}
		left, right := subdivide(cur)
		stack = append(stack, right, left)
	}
	return append(out, cp[len(cp)-1])
}

func flatEnough(cp []Vec) bool {
	for i := 1; i < len(cp)-1; i++ {
		d := cp[i-1].Sub(cp[i].Scale(2)).Add(cp[i+1])
		if d.X*d.X+d.Y*d.Y > bezierTolerance*bezierTolerance {
			return false
		}
	}
	return true
}

// subdivide splits a bezier at t=0.5 using de Casteljau.
func subdivide(cp []Vec) (left, right []Vec) {
	n := len(cp)
	left = make([]Vec, n)
	right = make([]Vec, n)
	row := append([]Vec(nil), cp...)
	for i := 0; i < n; i++ {
		left[i] = row[0]
		right[n-1-i] = row[len(row)-1]
		for j := 0; j < len(row)-1; j++ {
			row[j] = row[j].Add(row[j+1]).Scale(0.5)
		}
		row = row[:len(row)-1]
	}
	return left, right
}

func catmull(cp []Vec) []Vec {
	n := len(cp)
	if n < 2 {
		return cp
	}
	out := make([]Vec, 0, (n-1)*catmullDetail+1)
	out = append(out, cp[0])
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := cp[max(i-1, 0)], cp[i], cp[i+1], cp[min(i+2, n-1)]
		for s := 1; s <= catmullDetail; s++ {
			out = append(out, catmullAt(p0, p1, p2, p3, float64(s)/catmullDetail))
		}
	}
	return out
}

func catmullAt(p0, p1, p2, p3 Vec, t float64) Vec {
	t2, t3 := t*t, t*t*t
	at := func(a, b, c, d float64) float64 {
		return 0.5 * (2*b + (c-a)*t + (2*a-5*b+4*c-d)*t2 + (3*b-a-3*c+d)*t3)
	}
	return Vec{at(p0.X, p1.X, p2.X, p3.X), at(p0.Y, p1.Y, p2.Y, p3.Y)}
}

// circularArc walks the circle through a, b and c from a to c. Collinear
// points degrade to a straight line.
func circularArc(a, b, c Vec) []Vec {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-6 {
		return []Vec{a, c}
	}
	a2, b2, c2 := a.X*a.X+a.Y*a.Y, b.X*b.X+b.Y*b.Y, c.X*c.X+c.Y*c.Y
	center := Vec{
		(a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		(a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
	r := center.Dist(a)
	start := math.Atan2(a.Y-center.Y, a.X-center.X)
	end := math.Atan2(c.Y-center.Y, c.X-center.X)

	dir := 1.0
	if b.Sub(a).cross(c.Sub(b)) < 0 {
		dir = -1
	}
	sweep := end - start
	for dir > 0 && sweep < 0 {
		sweep += 2 * math.Pi
	}
	for dir < 0 && sweep > 0 {
		sweep -= 2 * math.Pi
	}

	step := math.Pi
	if arcTolerance < r {
		step = 2 * math.Acos(1-arcTolerance/r)
	}
	steps := max(int(math.Ceil(math.Abs(sweep)/step)), 2)

	out := make([]Vec, 0, steps+1)
	for i := 0; i <= steps; i++ {
		theta := start + sweep*float64(i)/float64(steps)
		out = append(out, Vec{center.X + r*math.Cos(theta), center.Y + r*math.Sin(theta)})
	}
	out[0], out[steps] = a, c
	return out
}

// Length is the arc length of a polyline.
func Length(poly []Vec) float64 {
	total := 0.0
	for i := 1; i < len(poly); i++ {
		total += poly[i-1].Dist(poly[i])
	}
	return total
}

// PositionAt returns the point dist along poly. Past the end the last
// segment is extended; sliders whose pixel length exceeds the drawn curve
// do that in game.
func PositionAt(poly []Vec, dist float64) Vec {
	switch len(poly) {
	case 0:
		return Vec{}
	case 1:
		return poly[0]
	}
	for i := 1; i < len(poly); i++ {
		l := poly[i-1].Dist(poly[i])
		if dist <= l || i == len(poly)-1 {
			if l == 0 {
				return poly[i]
			}
			return poly[i-1].Add(poly[i].Sub(poly[i-1]).Scale(dist / l))
		}
		dist -= l
	}
	return poly[len(poly)-1]
}

// EndPosition is where a slider finishes after all of its slides. Other
// objects end where they start.
func (h HitObject) EndPosition() Vec {
	if h.Kind != KindSlider {
		return vecOf(h.Pos)
	}
	if h.Slides%2 == 0 {
		return vecOf(h.Pos)
	}
	poly := h.Path.Polyline()
	length := h.Length
	if length <= 0 {
		length = Length(poly)
	}
	return PositionAt(poly, length)
}
