package workflow

// Step is the position of a chat inside the report flow. Steps advance
// strictly in order; there is no backtracking.
type Step int

const (
	StepIdle Step = iota
	StepAwaitingCode
	StepAwaitingReason
	StepAwaitingDate
	StepAwaitingLetter
	StepAwaitingConfirm
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepAwaitingCode:
		return "awaiting_code"
	case StepAwaitingReason:
		return "awaiting_reason"
	case StepAwaitingDate:
		return "awaiting_date"
	case StepAwaitingLetter:
		return "awaiting_letter"
	case StepAwaitingConfirm:
		return "awaiting_confirm"
	default:
		return "unknown"
	}
}
