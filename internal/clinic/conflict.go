package clinic

// Intervals are half-open: [start, end). Two intervals overlap iff each
// one starts before the other ends, so back-to-back bookings where one
// ends exactly when the next starts never conflict.
func intervalsOverlap(s1, e1, s2, e2 TimeOfDay) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// HasOverlap reports whether the proposed [start, end) window collides
// with any appointment in existing. The caller supplies appointments
// already filtered to one doctor and one calendar date; this is a pure
// check over that snapshot.
func HasOverlap(existing []Appointment, start, end TimeOfDay) bool {
	for _, a := range existing {
		if intervalsOverlap(a.StartTime, a.EndTime, start, end) {
			return true
		}
	}
	return false
}
