package cleaner

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome is what happened to one note in a batch delete.
type Outcome int

const (
	Deleted Outcome = iota
	Failed
)

// ItemResult is the result of deleting one selected note.
type ItemResult struct {
	Path    string
	Outcome Outcome
	Err     error
}

// BatchResult summarises a DeleteSelected call.
type BatchResult struct {
	Items []ItemResult
}

func (r BatchResult) Deleted() int {
	n := 0
	for _, it := range r.Items {
		if it.Outcome == Deleted {
			n++
		}
	}
	return n
}

func (r BatchResult) Failed() int {
	return len(r.Items) - r.Deleted()
}

// Errors returns the delete failures in batch order.
func (r BatchResult) Errors() []*DeleteError {
	var errs []*DeleteError
	for _, it := range r.Items {
		if it.Outcome == Failed {
			errs = append(errs, &DeleteError{Path: it.Path, Err: it.Err})
		}
	}
	return errs
}

// Err joins every failure into one error, or returns nil.
func (r BatchResult) Err() error {
	var errs []error
	for _, e := range r.Errors() {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// DeleteOne deletes a single candidate. On failure the candidate stays in the
// list with its selection untouched and a *DeleteError is returned.
func (s *Session) DeleteOne(ctx context.Context, path string) error {
	if _, ok := s.index[path]; !ok {
		return fmt.Errorf("delete %s: %w", path, ErrUnknownCandidate)
	}

	prev := s.state
	s.state = StateDeleting
	err := s.store.DeleteFile(ctx, path)
	if err != nil {
		s.state = prev
		derr := &DeleteError{Path: path, Err: err}
		s.log.Error().Err(err).Str("path", path).Msg("delete failed")
		s.notifier.Notify(fmt.Sprintf("Failed to delete %s: %v", path, err))
		return derr
	}

	i := s.index[path]
	wasSelected := s.candidates[i].Selected
	s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
	s.reindex()
	if wasSelected {
		s.selectedCount--
	}
	s.settle()

	s.log.Info().Str("path", path).Msg("deleted note")
	s.notifier.Notify(fmt.Sprintf("Deleted %s", path))
	return nil
}

// DeleteSelected deletes every selected candidate independently. Notes that
// were deleted leave the list; notes that failed stay selected. Nothing
// happens when no candidate is selected.
func (s *Session) DeleteSelected(ctx context.Context) BatchResult {
	if s.selectedCount == 0 {
		return BatchResult{}
	}

	var targets []string
	for _, c := range s.candidates {
		if c.Selected {
			targets = append(targets, c.Path)
		}
	}

	s.state = StateDeleting
	results := s.deleteAll(ctx, targets)

	gone := make(map[string]struct{}, len(results))
	for _, r := range results {
		if r.Outcome == Deleted {
			gone[r.Path] = struct{}{}
			continue
		}
		s.log.Error().Err(r.Err).Str("path", r.Path).Msg("delete failed")
		s.notifier.Notify(fmt.Sprintf("Failed to delete %s: %v", r.Path, r.Err))
	}
	s.removeAll(gone)

	res := BatchResult{Items: results}
	s.log.Info().Int("deleted", res.Deleted()).Int("failed", res.Failed()).Msg("batch delete finished")
	s.notifier.Notify(fmt.Sprintf("Deleted %d files", res.Deleted()))
	return res
}

// deleteAll runs the store deletes, one goroutine per worker slot. Each
// goroutine writes only its own entry of the result slice.
func (s *Session) deleteAll(ctx context.Context, paths []string) []ItemResult {
	results := make([]ItemResult, len(paths))
	run := func(i int) {
		results[i] = ItemResult{Path: paths[i], Outcome: Deleted}
		if err := s.store.DeleteFile(ctx, paths[i]); err != nil {
			results[i].Outcome = Failed
			results[i].Err = err
		}
	}

	if s.opts.DeleteWorkers <= 1 || len(paths) <= 1 {
		for i := range paths {
			run(i)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(s.opts.DeleteWorkers)
	for i := range paths {
		g.Go(func() error {
			run(i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// removeAll drops the given paths from the list and recounts the selection
// from what is left, since failed notes keep their selection.
func (s *Session) removeAll(paths map[string]struct{}) {
	if len(paths) > 0 {
		kept := s.candidates[:0]
		for _, c := range s.candidates {
			if _, drop := paths[c.Path]; !drop {
				kept = append(kept, c)
			}
		}
		s.candidates = kept
		s.reindex()
	}
	s.selectedCount = s.Recount()
	s.settle()
}
