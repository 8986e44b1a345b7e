package employee

import "time"

type Employee struct {
	ID           string    `json:"id" bson:"_id"`
	EmployeeCode string    `json:"employeeId" bson:"employee_code"`
	FirstName    string    `json:"firstName" bson:"first_name"`
	LastName     string    `json:"lastName" bson:"last_name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	Location     string    `json:"location" bson:"location"`
	Department   string    `json:"department" bson:"department"`
	Role         string    `json:"role" bson:"role"`
	Gender       string    `json:"gender" bson:"gender"`
	EmployeeType string    `json:"employeeType" bson:"employee_type"`
	WorkMode     string    `json:"workMode" bson:"work_mode"`
	Status       string    `json:"status" bson:"status"`
	ManagerID    string    `json:"manager,omitempty" bson:"manager_id,omitempty"`
	JoinDate     time.Time `json:"joinDate" bson:"join_date"`
	PanNo        string    `json:"panNo" bson:"pan_no"`
	UanNo        string    `json:"uanNo" bson:"uan_no"`
	PfNo         string    `json:"pfNo" bson:"pf_no"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Patch carries the fields of a partial update; nil leaves the stored value.
type Patch struct {
	EmployeeCode *string    `json:"employeeId"`
	FirstName    *string    `json:"firstName"`
	LastName     *string    `json:"lastName"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	Phone        *string    `json:"phone"`
	Location     *string    `json:"location"`
	Department   *string    `json:"department"`
	Role         *string    `json:"role"`
	Gender       *string    `json:"gender"`
	EmployeeType *string    `json:"employeeType"`
	WorkMode     *string    `json:"workMode"`
	Status       *string    `json:"status"`
	ManagerID    *string    `json:"manager"`
	JoinDate     *time.Time `json:"joinDate"`
	PanNo        *string    `json:"panNo"`
	UanNo        *string    `json:"uanNo"`
	PfNo         *string    `json:"pfNo"`
}
