package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/Paintersrp/sweep/internal/cleaner"
)

// ScanWithProgress runs a full scan, redrawing the progress line on w after
// every batch.
func ScanWithProgress(ctx context.Context, w io.Writer, s *cleaner.Session) (cleaner.Progress, error) {
	fmt.Fprint(w, "Scanning for blank notes...")
	p, err := s.Scan(ctx, func(p cleaner.Progress) {
		fmt.Fprintf(w, "\r\033[K%s", p)
	})
	fmt.Fprintln(w)
	if err != nil {
		return p, err
	}
	if p.Failed > 0 {
		fmt.Fprintf(w, "%d files could not be read\n", p.Failed)
	}
	return p, nil
}

// PrintCandidates writes one "title (path)" line per candidate.
func PrintCandidates(w io.Writer, s *cleaner.Session) {
	for _, c := range s.Candidates() {
		fmt.Fprintf(w, "%s (%s)\n", c.DisplayTitle(s.Basename(c.Path)), c.Path)
	}
}

// ReportBatch prints the outcome of a batch delete and turns any failures
// into an error.
func ReportBatch(w io.Writer, res cleaner.BatchResult) error {
	for _, item := range res.Items {
		if item.Outcome == cleaner.Deleted {
			fmt.Fprintf(w, "deleted %s\n", item.Path)
		}
	}
	fmt.Fprintf(w, "Deleted %d files\n", res.Deleted())
	if n := res.Failed(); n > 0 {
		return fmt.Errorf("%d of %d deletes failed: %w", n, len(res.Items), res.Err())
	}
	return nil
}
