package employee

// Record is one employee row from the employee directory. Records are
// fetched fresh on every lookup and never cached.
type Record struct {
	Code     string
	Name     string
	Position string
	Branch   string
}
