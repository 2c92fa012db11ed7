package workflow

import (
	"fmt"
	"io"
)

// Outcome is what happened to a single item of a pass
type Outcome int

const (
	Created Outcome = iota
	Updated
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result describes one processed item. Key identifies the item for humans:
// the unique field value on import, "<note id>/<field>" otherwise.
type Result struct {
	Key     string
	NoteID  int64
	Outcome Outcome
	Detail  string
	Err     error
}

// Options control a bulk pass
type Options struct {
	// ContinueOnError records failed items and keeps going instead of
	// aborting the pass at the first failure
	ContinueOnError bool
	// OnlyEmpty leaves destination fields that already hold a value alone
	OnlyEmpty bool
	// DryRun reads and checks but writes nothing and calls no provider
	DryRun bool
}

// Summary counts the outcomes of a pass
type Summary struct {
	Total   int
	Created int
	Updated int
	Skipped int
	Failed  int
}

// Report collects the results of a pass
type Report struct {
	Pass    string
	Results []Result
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Summary aggregates the outcome counts
func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		switch res.Outcome {
		case Created:
			s.Created++
		case Updated:
			s.Updated++
		case Skipped:
			s.Skipped++
		case Failed:
			s.Failed++
		}
	}
	return s
}

// Failures returns the failed results
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Outcome == Failed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Print writes the run summary
func (r *Report) Print(w io.Writer) {
	s := r.Summary()
	fmt.Fprintf(w, "\n=== %s Summary ===\n", r.Pass)
	fmt.Fprintf(w, "Total items: %d\n", s.Total)
	if s.Created > 0 {
		fmt.Fprintf(w, "Created: %d\n", s.Created)
	}
	if s.Updated > 0 {
		fmt.Fprintf(w, "Updated: %d\n", s.Updated)
	}
	fmt.Fprintf(w, "Skipped: %d\n", s.Skipped)
	if s.Failed > 0 {
		fmt.Fprintf(w, "Errors: %d\n", s.Failed)
		for _, res := range r.Failures() {
			fmt.Fprintf(w, "  %s: %v\n", res.Key, res.Err)
		}
	}
	fmt.Fprintf(w, "================================\n")
}
