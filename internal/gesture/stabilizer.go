package gesture

// Stabilizer smooths per-frame labels with a majority vote over a rolling
// window of recent classifications.
//
// Output is None until the window holds at least capacity/2 labels. From then
// on the most frequent label wins; no strict majority is required.
type Stabilizer struct {
	window   []Label
	capacity int
	counts   map[Label]int
}

// NewStabilizer creates a Stabilizer holding at most capacity labels.
// A capacity below 1 is treated as 1.
func NewStabilizer(capacity int) *Stabilizer {
	if capacity < 1 {
		capacity = 1
	}
	return &Stabilizer{
		window:   make([]Label, 0, capacity),
		capacity: capacity,
		counts:   make(map[Label]int),
	}
}

// Push records one classification and returns the stabilized label.
// None is not recorded and yields None for that frame.
func (s *Stabilizer) Push(l Label) Label {
	if l == None {
		return None
	}

	if len(s.window) >= s.capacity {
		// Shift window left by 1, removing oldest label
		s.counts[s.window[0]]--
		copy(s.window, s.window[1:])
		s.window = s.window[:s.capacity-1]
	}
	s.window = append(s.window, l)
	s.counts[l]++

	return s.Current()
}

// Current returns the stabilized label for the current window contents.
func (s *Stabilizer) Current() Label {
	if len(s.window) == 0 || len(s.window) < s.capacity/2 {
		return None
	}

	// Scan in window order so that among equally frequent labels the one
	// seen first wins.
	best, bestCount := None, 0
	for _, l := range s.window {
		if c := s.counts[l]; c > bestCount {
			best, bestCount = l, c
		}
	}
	return best
}

// Reset discards all collected evidence.
func (s *Stabilizer) Reset() {
	s.window = s.window[:0]
	clear(s.counts)
}

// Len returns the number of labels in the window.
func (s *Stabilizer) Len() int {
	return len(s.window)
}

// Capacity returns the window capacity.
func (s *Stabilizer) Capacity() int {
	return s.capacity
}
