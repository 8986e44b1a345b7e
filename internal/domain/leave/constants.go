package leave

const (
	TypePaidLeave   = "PAID_LEAVE"
	TypeCasualLeave = "CASUAL_LEAVE"
	TypeSickLeave   = "SICK_LEAVE"
	TypeHalfDay     = "HALF_DAY"
	TypeLOP         = "LOP"

	StatusApproved = "Approved"
	StatusPending  = "Pending"
	StatusRejected = "Rejected"
)

var (
	Types    = []string{TypePaidLeave, TypeCasualLeave, TypeSickLeave, TypeHalfDay, TypeLOP}
	Statuses = []string{StatusApproved, StatusPending, StatusRejected}
)

// halfDayWeight is the LOP charged for a HALF_DAY record whatever its span.
const halfDayWeight = 0.5
