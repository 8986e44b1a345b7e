package circular

import "time"

// Circular is an HR announcement. A draft can be edited; once published it
// is fixed and has been mailed to Recipients employees.
type Circular struct {
	ID            string     `json:"id" bson:"_id"`
	Title         string     `json:"title" bson:"title"`
	Category      string     `json:"category" bson:"category"`
	Content       string     `json:"content" bson:"content"`
	EffectiveDate *time.Time `json:"effectiveDate,omitempty" bson:"effective_date,omitempty"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty" bson:"expiry_date,omitempty"`
	// Departments and EmployeeIDs select the audience. Employee ids win over
	// departments; both empty means everyone.
	Departments []string   `json:"departments" bson:"departments"`
	EmployeeIDs []string   `json:"employees" bson:"employee_ids"`
	Status      string     `json:"status" bson:"status"`
	Recipients  int        `json:"recipients" bson:"recipients"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" bson:"published_at,omitempty"`
	CreatedBy   string     `json:"createdBy" bson:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
}

// Patch carries a partial draft edit; nil leaves the stored value.
type Patch struct {
	Title         *string
	Category      *string
	Content       *string
	EffectiveDate *time.Time
	ExpiryDate    *time.Time
	Departments   []string
	EmployeeIDs   []string
}

func (p Patch) Apply(c Circular) Circular {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.EffectiveDate != nil {
		c.EffectiveDate = p.EffectiveDate
	}
	if p.ExpiryDate != nil {
		c.ExpiryDate = p.ExpiryDate
	}
	if p.Departments != nil {
		c.Departments = p.Departments
	}
	if p.EmployeeIDs != nil {
		c.EmployeeIDs = p.EmployeeIDs
	}
	return c
}

// Delivery reports the outcome of a publish.
type Delivery struct {
	Circular Circular `json:"circular"`
	Sent     []string `json:"sent"`
	// Skipped lists employees in the audience without an email address.
	Skipped []string `json:"skipped,omitempty"`
}
