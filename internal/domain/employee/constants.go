package employee

const (
	TypeFullTime   = "Full-time"
	TypePartTime   = "Part-time"
	TypeInternship = "Internship"
	TypeContract   = "Contract"

	WorkModeOnsite = "Onsite"
	WorkModeRemote = "Remote"
	WorkModeHybrid = "Hybrid"

	StatusProbation = "Probation"
	StatusAway      = "Away"
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
)

var (
	EmployeeTypes = []string{TypeFullTime, TypePartTime, TypeInternship, TypeContract}
	WorkModes     = []string{WorkModeOnsite, WorkModeRemote, WorkModeHybrid}
	Statuses      = []string{StatusProbation, StatusAway, StatusActive, StatusInactive}
)
