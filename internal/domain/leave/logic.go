package leave

import "time"

const secondsPerDay = 24 * 60 * 60

// CalendarDate drops time of day and zone, keeping the date as written.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SpanDays returns the inclusive number of calendar days from start to end.
// Zero dates and reversed ranges count as 0.
func SpanDays(start, end time.Time) float64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	diff := (CalendarDate(end).Unix() - CalendarDate(start).Unix()) / secondsPerDay
	if diff < 0 {
		return 0
	}
	return float64(diff + 1)
}

// LopContribution is the loss-of-pay days a single leave record adds. Only
// approved leave counts; a blank status is read as approved.
func LopContribution(rec Record) float64 {
	if rec.Status != "" && rec.Status != StatusApproved {
		return 0
	}
	switch rec.Type {
	case TypeLOP:
		return SpanDays(rec.StartDate, rec.EndDate)
	case TypeHalfDay:
		return halfDayWeight
	default:
		return 0
	}
}

func LopDays(records []Record) float64 {
	var total float64
	for _, rec := range records {
		total += LopContribution(rec)
	}
	return total
}

func validType(t string) bool {
	for _, candidate := range Types {
		if candidate == t {
			return true
		}
	}
	return false
}

func validStatus(s string) bool {
	for _, candidate := range Statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
