package harness

import "github.com/roach88/addrhist/internal/history"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the final records match every expectation.
	Pass bool `json:"pass"`

	// Records is the final ListAll output.
	Records []history.AddressRecord `json:"records"`

	// Errors contains mismatch descriptions. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Records: []history.AddressRecord{},
		Errors:  []string{},
	}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
