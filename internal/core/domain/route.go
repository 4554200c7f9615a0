package domain

// Route selects the answer composition path for a question.
type Route string

const (
	// RouteSimple answers from the top few passages.
	RouteSimple Route = "simple"

	// RouteComprehensive synthesises all relevant passages into one
	// organised answer.
	RouteComprehensive Route = "comprehensive"
)

// String returns the string representation.
func (r Route) String() string { return string(r) }
