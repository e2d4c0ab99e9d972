package domain

import "time"

// MaxAppointmentWindow bounds how far back the conflict search looks for
// appointments that could still be running at a candidate start time. An
// appointment longer than this cannot be booked, which keeps the candidate
// query a bounded range scan instead of a full-table interval test.
const MaxAppointmentWindow = 24 * time.Hour

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that merely touch at an endpoint do
// not overlap, so a booking may begin exactly when another ends.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SearchWindow returns the range of start times a conflict query must scan
// for a candidate interval. The floor reaches back MaxAppointmentWindow so
// long-running appointments that started earlier (including before midnight)
// are still considered.
func SearchWindow(candidateStart, candidateEnd time.Time) (time.Time, time.Time) {
	return candidateStart.Add(-MaxAppointmentWindow), candidateEnd
}
