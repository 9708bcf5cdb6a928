package input

// ButtonTracker converts platform button bitmasks into discrete down/up/move
// semantics. Some platforms report a button change only through the bitmask
// of a move sample; the tracker recovers the transition by diffing masks.
type ButtonTracker struct {
	lastMask int
}

// Classify returns the effective sample kind and the button mask the event
// carries. On a move sample whose mask changed, the sample is reclassified as
// a down (mask grew) or up (mask shrank) carrying the raw mask difference.
// Compound multi-button transitions are not decomposed; the raw difference is
// reported as-is, since the wire button model has no chords.
func (b *ButtonTracker) Classify(kind SampleKind, mask int) (SampleKind, int) {
	last := b.lastMask
	b.lastMask = mask

	switch kind {
	case SampleMove:
		if mask != last {
			delta := mask - last
			if delta > 0 {
				return SampleDown, delta
			}
			return SampleUp, -delta
		}
		return SampleMove, mask
	case SampleDown, SampleUp:
		if mask != 0 {
			return kind, mask
		}
		return kind, last
	}
	return kind, mask
}

// Reset clears the remembered mask, e.g. when the pointer re-enters the view.
func (b *ButtonTracker) Reset() {
	b.lastMask = 0
}
