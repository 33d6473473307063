package spline

// Arena owns reusable backing storage for cache builds. A Cache built with an
// arena aliases its buffers, so its slices are only valid until the next Build
// that uses the same arena. Building with a nil arena allocates fresh slices.
type Arena struct {
	sampleBuf   []Sample
	segmentBuf  []Segment
	distanceBuf []float32
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Reserve grows the buffers so a build with up to samples samples and segments
// segments does not allocate.
func (a *Arena) Reserve(samples, segments int) {
	if cap(a.sampleBuf) < samples {
		a.sampleBuf = make([]Sample, 0, samples)
	}
	if cap(a.segmentBuf) < segments {
		a.segmentBuf = make([]Segment, 0, segments)
	}
	if cap(a.distanceBuf) < segments+1 {
		a.distanceBuf = make([]float32, 0, segments+1)
	}
}

// Clear empties the buffers while keeping their capacity.
func (a *Arena) Clear() {
	clear(a.sampleBuf[:cap(a.sampleBuf)])
	a.sampleBuf = a.sampleBuf[:0]
	a.segmentBuf = a.segmentBuf[:0]
	a.distanceBuf = a.distanceBuf[:0]
}

// Capacity reports the reserved sample and segment capacity.
func (a *Arena) Capacity() (samples, segments int) {
	return cap(a.sampleBuf), cap(a.segmentBuf)
}

func (a *Arena) samples(n int) []Sample {
	if a == nil {
		return make([]Sample, 0, n)
	}
	if cap(a.sampleBuf) < n {
		a.sampleBuf = make([]Sample, 0, n)
	}
	return a.sampleBuf[:0]
}

func (a *Arena) segments(n int) []Segment {
	if a == nil {
		return make([]Segment, 0, n)
	}
	if cap(a.segmentBuf) < n {
		a.segmentBuf = make([]Segment, 0, n)
	}
	return a.segmentBuf[:0]
}

func (a *Arena) distances(n int) []float32 {
	if a == nil {
		return make([]float32, 0, n)
	}
	if cap(a.distanceBuf) < n {
		a.distanceBuf = make([]float32, 0, n)
	}
	return a.distanceBuf[:0]
}
