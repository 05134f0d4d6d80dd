package item

// Kind discriminates the item types stored in a linchpin database.
type Kind string

const (
	KindTask      Kind = "task"
	KindDecision  Kind = "decision"
	KindNote      Kind = "note"
	KindComponent Kind = "component"
)

// Terminal statuses. Tasks and decisions count as open work until they
// reach their respective terminal status; every other status string
// (pending, in-progress, blocked, open, ...) means the item is still
// incomplete.
const (
	StatusComplete = "complete" // terminal for tasks
	StatusSelected = "selected" // terminal for decisions
	StatusPending  = "pending"
)

// Item is a single work item. Only tasks carry DependsOn; other kinds
// may appear as dependency targets but never declare dependencies of
// their own.
type Item struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Kind      Kind     `json:"kind"`
	Status    string   `json:"status"`
	DependsOn []string `json:"depends_on,omitempty"`
}

// ValidKind reports whether k is one of the known item kinds.
func ValidKind(k Kind) bool {
	switch k {
	case KindTask, KindDecision, KindNote, KindComponent:
		return true
	}
	return false
}

// Incomplete reports whether the item still counts as open work.
// Only tasks and decisions ever do; notes and components are inert
// with respect to the critical path.
func (it Item) Incomplete() bool {
	switch it.Kind {
	case KindTask:
		return it.Status != StatusComplete
	case KindDecision:
		return it.Status != StatusSelected
	default:
		return false
	}
}
