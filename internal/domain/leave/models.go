package leave

import "time"

type Record struct {
	ID           string    `json:"id" bson:"_id"`
	EmployeeCode string    `json:"employeeId" bson:"employee_code"`
	EmployeeID   string    `json:"employeeRef,omitempty" bson:"employee_id,omitempty"`
	Type         string    `json:"leaveType" bson:"leave_type"`
	StartDate    time.Time `json:"startDate" bson:"start_date"`
	EndDate      time.Time `json:"endDate" bson:"end_date"`
	Month        string    `json:"month" bson:"month"`
	Year         int       `json:"year" bson:"year"`
	Status       string    `json:"status" bson:"status"`
	Reason       string    `json:"reason,omitempty" bson:"reason,omitempty"`
	ApprovedBy   string    `json:"approvedBy,omitempty" bson:"approved_by,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// OnDateEntry is a leave joined with the employee directory for the
// "who is away today" view.
type OnDateEntry struct {
	Record
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

type CreateInput struct {
	EmployeeCode string
	Type         string
	StartDate    time.Time
	EndDate      time.Time
	Status       string
	Reason       string
	ApprovedBy   string
}
