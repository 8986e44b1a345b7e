package payroll

import "time"

// Amounts maps a pay component name (basicSalary, providentFund, ...) to its
// value.
type Amounts map[string]float64

type Totals struct {
	TotalEarnings   float64 `json:"totalEarnings"`
	TotalDeductions float64 `json:"totalDeductions"`
	NetSalary       float64 `json:"netSalary"`
}

// EmployeeSnapshot is the employee data copied onto a record when it is built.
// Later edits to the employee do not change it.
type EmployeeSnapshot struct {
	EmployeeID   string    `json:"employeeId" bson:"employee_id"`
	EmployeeCode string    `json:"employeeCode" bson:"employee_code"`
	Name         string    `json:"name" bson:"name"`
	Role         string    `json:"role" bson:"role"`
	Department   string    `json:"department" bson:"department"`
	Gender       string    `json:"gender,omitempty" bson:"gender,omitempty"`
	JoinDate     time.Time `json:"joinDate" bson:"join_date"`
	Email        string    `json:"email" bson:"email"`
}

// Attendance is one employee's day counts for the record's month.
type Attendance struct {
	EmployeeID string  `json:"employeeId" bson:"employee_id"`
	LopDays    float64 `json:"lopDays" bson:"lop_days"`
	PaidDays   float64 `json:"paidDays" bson:"paid_days"`
}

type Warning struct {
	Code    string `json:"code" bson:"code"`
	Field   string `json:"field,omitempty" bson:"field,omitempty"`
	Message string `json:"message" bson:"message"`
}

type Record struct {
	ID         string             `json:"id" bson:"_id"`
	Month      string             `json:"month" bson:"month"`
	Year       int                `json:"year" bson:"year"`
	Employees  []EmployeeSnapshot `json:"employees" bson:"employees"`
	Attendance []Attendance       `json:"attendance" bson:"attendance"`
	Earnings   Amounts            `json:"earnings" bson:"earnings"`
	Deductions Amounts            `json:"deductions" bson:"deductions"`
	NetSalary  float64            `json:"netSalary" bson:"net_salary"`
	TotalDays  float64            `json:"totalDays" bson:"total_days"`
	PaidDays   float64            `json:"paidDays" bson:"paid_days"`
	LopDays    float64            `json:"lopDays" bson:"lop_days"`
	ArrearDays float64            `json:"arrearDays" bson:"arrear_days"`
	PanNo      string             `json:"panNo" bson:"pan_no"`
	UanNo      string             `json:"uanNo" bson:"uan_no"`
	PfNo       string             `json:"pfNo" bson:"pf_no"`
	EsiNo      string             `json:"esiNo" bson:"esi_no"`
	BankName   string             `json:"bankName" bson:"bank_name"`
	AccountNo  string             `json:"accountNo" bson:"account_no"`
	Warnings   []Warning          `json:"warnings,omitempty" bson:"warnings,omitempty"`
	CreatedBy  string             `json:"createdBy" bson:"created_by"`
	Version    int                `json:"version" bson:"version"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

// RawInput is the client-supplied part of a record. Amount values are
// coerced leniently; anything non-numeric counts as 0.
type RawInput struct {
	Earnings   map[string]any
	Deductions map[string]any
	ArrearDays float64
	PanNo      string
	UanNo      string
	PfNo       string
	EsiNo      string
	BankName   string
	AccountNo  string
	CreatedBy  string
}

type BuildInput struct {
	EmployeeIDs []string
	Month       string
	Year        int
	Input       RawInput
}

// Revision carries a partial update. Nil fields keep the stored value.
type Revision struct {
	Month           *string
	Year            *int
	TotalDays       *float64
	PaidDays        *float64
	LopDays         *float64
	ArrearDays      *float64
	Earnings        map[string]any
	Deductions      map[string]any
	PanNo           *string
	UanNo           *string
	PfNo            *string
	EsiNo           *string
	BankName        *string
	AccountNo       *string
	ExpectedVersion *int
}
