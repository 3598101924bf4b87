package tree

// Status is the derived unlock state of a node. It is never stored; it is
// recomputed from the completion set on every change.
type Status string

const (
	// StatusLocked means at least one prerequisite is not completed.
	StatusLocked Status = "locked"
	// StatusAvailable means every prerequisite is completed (vacuously true
	// for root nodes) but the node itself is not.
	StatusAvailable Status = "available"
	// StatusCompleted means the node is in the completion set.
	StatusCompleted Status = "completed"
)

// Classify returns the status of a node given a completion set.
//
// A node is completed iff its ID is in the set, available iff every ID in
// its Requires list is in the set, and locked otherwise. Classify is total:
// it has no error conditions for any node whose Requires references are
// well-formed (dangling references are the validator's problem, not ours).
func Classify(n Node, completed Set) Status {
	if completed.Has(n.ID) {
		return StatusCompleted
	}
	for _, req := range n.Requires {
		if !completed.Has(req) {
			return StatusLocked
		}
	}
	return StatusAvailable
}
