package dispatch

// OperationResult captures the outcome of one work item. Results are
// immutable once appended and keep the input order of the batch.
type OperationResult struct {
	// Target is the recipient address, or MemoOnlyTarget for a bare memo.
	Target string `json:"target"`
	// Signature is the transaction signature; empty on failure.
	Signature string `json:"signature,omitempty"`
	Succeeded bool   `json:"succeeded"`
	// ErrDetail is the failure description; empty on success.
	ErrDetail string `json:"error,omitempty"`
	// ReferenceLink points at an explorer page for the transaction.
	ReferenceLink string `json:"reference_link,omitempty"`
}

// BatchStatus is the terminal state of a dispatch batch.
type BatchStatus string

const (
	StatusCompleted      BatchStatus = "COMPLETED"
	StatusPartialFailure BatchStatus = "PARTIAL_FAILURE"
	StatusFailed         BatchStatus = "FAILED"
	StatusAborted        BatchStatus = "ABORTED"
)

func (s BatchStatus) String() string { return string(s) }

// BatchOutcome is the sole contract a caller inspects after a bulk run.
type BatchOutcome struct {
	BatchID      string            `json:"batch_id"`
	Succeeded    int               `json:"succeeded"`
	Failed       int               `json:"failed"`
	Results      []OperationResult `json:"results"`
	AllSucceeded bool              `json:"all_succeeded"`
	ElapsedMS    int64             `json:"elapsed_ms"`
}

// Status derives the batch status from the counters. An aborted batch is
// reported by Run returning the context error alongside the outcome; Status
// only sees what completed.
func (o BatchOutcome) Status() BatchStatus {
	switch {
	case o.Failed == 0:
		return StatusCompleted
	case o.Succeeded == 0:
		return StatusFailed
	default:
		return StatusPartialFailure
	}
}

// Summarize folds an ordered result sequence into a BatchOutcome's scalar
// fields. It is total: an empty sequence yields zero counts and
// AllSucceeded == true.
func Summarize(results []OperationResult) BatchOutcome {
	var succeeded, failed int
	for _, r := range results {
		if r.Succeeded {
			succeeded++
		} else {
			failed++
		}
	}
	return BatchOutcome{
		Succeeded:    succeeded,
		Failed:       failed,
		Results:      results,
		AllSucceeded: failed == 0,
	}
}
