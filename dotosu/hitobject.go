package dotosu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Typed hit objects. Parse keeps [HitObjects] as raw lines; DecodeHitObject
// turns one of those lines into a structured value on demand.

type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

func (k ObjectKind) String() string {
	switch k {
	case KindSlider:
		return "slider"
	case KindSpinner:
		return "spinner"
	case KindHold:
		return "hold"
	default:
		return "circle"
	}
}

type TypeFlags int

const (
	TypeCircle   TypeFlags = 1 << 0
	TypeSlider   TypeFlags = 1 << 1
	TypeNewCombo TypeFlags = 1 << 2
	TypeSpinner  TypeFlags = 1 << 3
	TypeHold     TypeFlags = 1 << 7
)

type HitSound uint8

const (
	HitSoundNormal HitSound = 1 << iota
	HitSoundWhistle
	HitSoundFinish
	HitSoundClap
)

type SampleSet uint8

const (
	SampleNone SampleSet = iota
	SampleNormal
	SampleSoft
	SampleDrum
)

type Point struct{ X, Y int }

// HitSample is the trailing "normalSet:additionSet:index:volume:filename" column.
type HitSample struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
	Index       int
	Volume      int
	Filename    string
}

type PathType uint8

const (
	PathBezier PathType = iota
	PathLinear
	PathCatmull
	PathPerfect
)

// SliderPath holds the curve of a slider. Every segment starts with its own
// anchor; the first segment starts at the slider head.
type SliderPath struct {
	Type     PathType
	Segments [][]Point
}

type HitObject struct {
	Kind     ObjectKind
	Pos      Point
	Time     int
	Type     TypeFlags
	Sound    HitSound
	Sample   HitSample
	EndTime  int // spinners and holds
	Path     SliderPath
	Slides   int
	Length   float64
	Edges    []HitSound
	EdgeSets [][2]SampleSet
}

func (h HitObject) NewCombo() bool { return h.Type&TypeNewCombo != 0 }

var errShortHitObject = errors.New("hit object needs at least x,y,time,type,hitSound")

// DecodeHitObject decodes one raw [HitObjects] line.
func DecodeHitObject(raw string) (HitObject, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) < 5 {
		return HitObject{}, errShortHitObject
	}
	var (
		ho  HitObject
		err error
	)
	ints := make([]int, 5)
	for i := range ints {
		if ints[i], err = atoi(parts[i]); err != nil {
			return HitObject{}, fmt.Errorf("column %d: %w", i, err)
		}
	}
	ho.Pos = Point{X: ints[0], Y: ints[1]}
	ho.Time = ints[2]
	ho.Type = TypeFlags(ints[3])
	ho.Sound = HitSound(ints[4])
	params := parts[5:]

	switch {
	case ho.Type&TypeHold != 0:
		ho.Kind = KindHold
		if len(params) > 0 {
			end, sample, _ := strings.Cut(params[0], ":")
			if ho.EndTime, err = atoi(end); err != nil {
				return HitObject{}, fmt.Errorf("hold end time: %w", err)
			}
			ho.Sample = parseHitSample(sample)
		}
	case ho.Type&TypeSpinner != 0:
		ho.Kind = KindSpinner
		if len(params) > 0 {
			if ho.EndTime, err = atoi(params[0]); err != nil {
				return HitObject{}, fmt.Errorf("spinner end time: %w", err)
			}
		}
		if len(params) > 1 {
			ho.Sample = parseHitSample(params[1])
		}
	case ho.Type&TypeSlider != 0:
		ho.Kind = KindSlider
		if err := decodeSlider(&ho, params); err != nil {
			return HitObject{}, err
		}
	default:
		ho.Kind = KindCircle
		if len(params) > 0 {
			ho.Sample = parseHitSample(params[0])
		}
	}
	return ho, nil
}

// decodeSlider reads "curve,slides,length,edgeSounds,edgeSets,hitSample".
func decodeSlider(ho *HitObject, params []string) error {
	get := func(i int) string {
		if i < len(params) {
			return strings.TrimSpace(params[i])
		}
		return ""
	}
	ho.Path = parseSliderPath(ho.Pos, get(0))
	ho.Slides = 1
	if s := get(1); s != "" {
		n, err := atoi(s)
		if err != nil {
			return fmt.Errorf("slider slides: %w", err)
		}
		ho.Slides = n
	}
	if s := get(2); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("slider length: %w", err)
		}
		ho.Length = f
	}
	if s := get(3); s != "" {
		for _, n := range strings.Split(s, "|") {
			v, _ := atoi(n)
			ho.Edges = append(ho.Edges, HitSound(v))
		}
	}
	if s := get(4); s != "" {
		for _, pair := range strings.Split(s, "|") {
			normal, addition, _ := strings.Cut(pair, ":")
			ho.EdgeSets = append(ho.EdgeSets, [2]SampleSet{toSampleSet(normal), toSampleSet(addition)})
		}
	}
	if s := get(5); s != "" {
		ho.Sample = parseHitSample(s)
	}
	return nil
}

func parseHitSample(s string) HitSample {
	f := strings.SplitN(s, ":", 5)
	field := func(i int) string {
		if i < len(f) {
			return f[i]
		}
		return ""
	}
	idx, _ := atoi(field(2))
	vol, _ := atoi(field(3))
	return HitSample{
		NormalSet:   toSampleSet(field(0)),
		AdditionSet: toSampleSet(field(1)),
		Index:       idx,
		Volume:      vol,
		Filename:    strings.Trim(strings.TrimSpace(field(4)), "\""),
	}
}

func toSampleSet(s string) SampleSet {
	switch n, _ := atoi(s); n {
	case 1:
		return SampleNormal
	case 2:
		return SampleSoft
	case 3:
		return SampleDrum
	default:
		return SampleNone
	}
}

// parseSliderPath converts "B|x:y|x:y|..." into a SliderPath. Bezier curves
// are split into segments wherever a control point repeats (a red anchor).
func parseSliderPath(head Point, curve string) SliderPath {
	kind, rest, _ := strings.Cut(curve, "|")
	var typ PathType
	switch strings.ToUpper(strings.TrimSpace(kind)) {
	case "L":
		typ = PathLinear
	case "C":
		typ = PathCatmull
	case "P":
		typ = PathPerfect
	default:
		typ = PathBezier
	}

	points := []Point{head}
	if rest != "" {
		for _, tok := range strings.Split(rest, "|") {
			xs, ys, ok := strings.Cut(strings.TrimSpace(tok), ":")
			if !ok {
				continue
			}
			x, errX := atoi(xs)
			y, errY := atoi(ys)
			if errX != nil || errY != nil {
				continue
			}
			points = append(points, Point{X: x, Y: y})
		}
	}

	// a perfect circle needs exactly three points
	if typ == PathPerfect && len(points) != 3 {
		typ = PathBezier
	}
	if typ != PathBezier {
		return SliderPath{Type: typ, Segments: [][]Point{points}}
	}
	return SliderPath{Type: PathBezier, Segments: splitBezier(points)}
}

func splitBezier(points []Point) [][]Point {
	var segs [][]Point
	cur := []Point{points[0]}
	for _, p := range points[1:] {
		if p == cur[len(cur)-1] {
			if len(cur) >= 2 {
				segs = append(segs, cur)
			}
			cur = []Point{p}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) >= 2 {
		segs = append(segs, cur)
	}
	if len(segs) == 0 {
		segs = [][]Point{{points[0], points[0]}}
	}
	return segs
}

func atoi(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	// some editors write coordinates and times as floats
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0, err
	}
	return int(f), nil
}
