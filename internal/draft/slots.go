package draft

// ImageSlots is indexed by viewport position. A nil entry is an empty
// viewport; entries are never compacted.
type ImageSlots []*ImagePlacement

// Len returns one past the highest index that has ever been assigned.
func (s ImageSlots) Len() int {
	return len(s)
}

// Get returns the placement at index i.
func (s ImageSlots) Get(i int) (ImagePlacement, bool) {
	if i < 0 || i >= len(s) || s[i] == nil {
		return ImagePlacement{}, false
	}
	return *s[i], true
}

// Filled returns the number of occupied slots.
func (s ImageSlots) Filled() int {
	n := 0
	for _, p := range s {
		if p != nil {
			n++
		}
	}
	return n
}

// Each calls fn for every index up to Len, including empty ones.
func (s ImageSlots) Each(fn func(i int, p *ImagePlacement)) {
	for i, p := range s {
		fn(i, p)
	}
}

// with returns a copy of s with index i set to p, growing with empty slots
// as needed.
func (s ImageSlots) with(i int, p *ImagePlacement) ImageSlots {
	n := len(s)
	if i >= n {
		n = i + 1
	}
	out := make(ImageSlots, n)
	copy(out, s)
	out[i] = p
	return out
}

// set stores a copy of p so callers cannot alias the stored value.
func (s ImageSlots) set(i int, p ImagePlacement) ImageSlots {
	return s.with(i, &p)
}
