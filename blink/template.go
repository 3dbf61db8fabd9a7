package blink

// Template returns the eyeblink template of length 2·s1+s2-1 where s1, s2 =
// p.Steps(). It falls linearly from 0 to -1 over s1 samples, rises to -0.4
// over the next s1 samples and then to -0.2 over s2-1 samples.
func Template(p Params) []float64 {
	s1, s2 := p.Steps()
	t := make([]float64, 2*s1+s2-1)
	for i := 0; i < s1; i++ {
		t[i] = -float64(i) / float64(s1-1)
		t[s1+i] = 0.6/float64(s1-1)*float64(i) - 1
	}
	for i := 1; i < s2; i++ {
		t[2*s1+i-1] = 0.2/float64(s2-1)*float64(i) - 0.4
	}
	return t
}

// templateWindow returns the overlap of a template placed with its start at
// pos against a signal of n samples: the signal range [lo, lo+length) and the
// template offset at which it begins.
func templateWindow(pos, tlen, n int) (lo, off, length int) {
	lo = pos
	if lo < 0 {
		off = -lo
		lo = 0
	}
	length = min(tlen-off, n-lo)
	return lo, off, max(length, 0)
}

// templateSignal places the template at every blink, starting s1 samples
// before it. Later blinks overwrite earlier ones where they overlap.
func templateSignal(n int, blinks []int, p Params) []float64 {
	out := make([]float64, n)
	tmpl := Template(p)
	s1, _ := p.Steps()
	for _, b := range blinks {
		lo, off, length := templateWindow(b-s1, len(tmpl), n)
		copy(out[lo:lo+length], tmpl[off:off+length])
	}
	return out
}
