package harness

import "github.com/roach88/journalized/internal/ir"

// TraceEvent records the outcome of one scenario step.
type TraceEvent struct {
	Step     int       `json:"step"`
	Op       string    `json:"op"`
	Entity   string    `json:"entity"`
	Written  bool      `json:"written"`
	Recorded bool      `json:"recorded"`
	Version  int64     `json:"version,omitempty"`
	Details  ir.Object `json:"details,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Journals is every journal in the store after the run, by seq.
	Journals []ir.Journal `json:"journals"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []TraceEvent{},
		Journals: []ir.Journal{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step outcome to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
