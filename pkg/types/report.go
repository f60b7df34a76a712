package types

// Outcome classifies what happened to a single filesystem request.
type Outcome string

const (
	// OutcomeCreated means the requested entry was created (or copied/written)
	OutcomeCreated Outcome = "created"

	// OutcomeAlreadyCorrect means the destination already had the intended
	// state, so nothing was done
	OutcomeAlreadyCorrect Outcome = "already-correct"

	// OutcomeConflict means the destination was occupied by something other
	// than the intended entry and was left untouched
	OutcomeConflict Outcome = "conflict"

	// OutcomeError means the request failed for a reason other than a
	// conflict (missing source, missing parent, permission, ...)
	OutcomeError Outcome = "error"

	// OutcomeSkipped means the request was deliberately not performed
	// (e.g. copy onto an existing file without overwrite). Skips do not
	// fail the run.
	OutcomeSkipped Outcome = "skipped"
)

// RequestResult records the outcome of one filesystem request. A single
// action may expand into several requests (dir_mode, multiple sources).
type RequestResult struct {
	// Action is the description of the action that produced this request
	Action string

	// Source and Destination are the fully resolved paths
	Source      string
	Destination string

	Outcome Outcome

	// Err is set for conflict and error outcomes
	Err error

	// Message carries extra human-readable context (e.g. skip reasons)
	Message string
}

// Succeeded reports whether this request left the destination in the
// intended state.
func (r RequestResult) Succeeded() bool {
	return r.Outcome == OutcomeCreated || r.Outcome == OutcomeAlreadyCorrect || r.Outcome == OutcomeSkipped
}

// ExecutionReport aggregates the per-request outcomes of a run.
type ExecutionReport struct {
	Results []RequestResult
	DryRun  bool
}

// Add appends a result to the report and returns it, for logging convenience
func (r *ExecutionReport) Add(result RequestResult) RequestResult {
	r.Results = append(r.Results, result)
	return result
}

// Failed reports whether any request did not succeed. The process exit code
// follows this.
func (r *ExecutionReport) Failed() bool {
	for _, res := range r.Results {
		if !res.Succeeded() {
			return true
		}
	}
	return false
}

// Count returns the number of results with the given outcome
func (r *ExecutionReport) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}
