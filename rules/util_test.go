package rules

// seqRand replays a fixed list of values, then repeats the last one.
type seqRand struct {
	values []int
	i      int
}

func (r *seqRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[len(r.values)-1]
	if r.i < len(r.values) {
		v = r.values[r.i]
		r.i++
	}
	return v % n
}

func body(points ...Point) []Point { return points }
