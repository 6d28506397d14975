package engine

// StepRegistry maps a step id to the ordered list of node ids the step
// produced. Order is load-bearing: frame connection configs index into it.
// Entries are replaced wholesale when a step is (re-)processed, never
// appended to.
type StepRegistry struct {
	entries map[string][]string
}

func NewStepRegistry() *StepRegistry {
	return &StepRegistry{
		entries: make(map[string][]string),
	}
}

func (r *StepRegistry) Set(stepID string, nodeIDs []string) {
	ids := make([]string, len(nodeIDs))
	copy(ids, nodeIDs)

	r.entries[stepID] = ids
}

func (r *StepRegistry) Get(stepID string) ([]string, bool) {
	ids, ok := r.entries[stepID]

	return ids, ok
}

// NodeAt returns the node id at index within a step's entry. A negative
// index is treated as 0.
func (r *StepRegistry) NodeAt(stepID string, index int) (string, bool) {
	ids, ok := r.entries[stepID]
	if !ok {
		return "", false
	}

	if index < 0 {
		index = 0
	}

	if index >= len(ids) {
		return "", false
	}

	return ids[index], true
}
