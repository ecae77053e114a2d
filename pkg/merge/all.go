package merge

import (
	"context"
	"sort"
	"sync"

	"github.com/arthur-debert/pakmerge/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one request in a MergeAll run
type Outcome struct {
	Request Request
	Result  *Result
	Err     error
}

// Report collects the outcomes of a MergeAll run in request order
type Report struct {
	Outcomes []Outcome
}

// Merged counts the requests that were merged
func (r *Report) Merged() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Result != nil && !o.Result.Skipped {
			n++
		}
	}
	return n
}

// Skipped counts the requests that were skipped
func (r *Report) Skipped() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Result != nil && o.Result.Skipped {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that ended in an error
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Targets returns the distinct targets written, sorted
func (r *Report) Targets() []string {
	seen := map[string]bool{}
	var out []string
	for _, o := range r.Outcomes {
		if o.Err != nil || o.Result == nil || o.Result.Skipped || seen[o.Result.Target] {
			continue
		}
		seen[o.Result.Target] = true
		out = append(out, o.Result.Target)
	}
	sort.Strings(out)
	return out
}

// MergeAll merges every request. Requests for the same target run in the
// given order so later mods win; different targets run concurrently. A
// failing request does not stop the others.
func (e *Engine) MergeAll(ctx context.Context, reqs []Request) *Report {
	done := logging.LogOperationStart(e.logger, "merge-all")
	defer done()

	report := &Report{Outcomes: make([]Outcome, len(reqs))}

	groups := map[string][]int{}
	var order []string
	for i, req := range reqs {
		report.Outcomes[i].Request = req

		resolved, err := e.Resolve(req)
		if err != nil {
			report.Outcomes[i].Err = err
			continue
		}
		if resolved.Skipped {
			e.logger.Warn().
				Str("file", req.FilePath).
				Str("reason", resolved.Reason).
				Msg("Skipping merge")
			report.Outcomes[i].Result = resolved
			continue
		}
		if _, ok := groups[resolved.Target]; !ok {
			order = append(order, resolved.Target)
		}
		groups[resolved.Target] = append(groups[resolved.Target], i)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for _, target := range order {
		indexes := groups[target]
		g.Go(func() error {
			for _, i := range indexes {
				result, err := e.Merge(gctx, reqs[i])
				mu.Lock()
				report.Outcomes[i].Result = result
				report.Outcomes[i].Err = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Info().
		Int("requests", len(reqs)).
		Int("targets", len(order)).
		Int("merged", report.Merged()).
		Int("skipped", report.Skipped()).
		Int("failed", len(report.Failed())).
		Msg("Merge run finished")
	return report
}
