package circular

const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
)

// audiencePage is how many employees are read per directory call when the
// audience is a department or everyone.
const audiencePage = 500
