package cleaner

import (
	"context"
	"fmt"

	"github.com/Paintersrp/sweep/internal/blank"
)

// Progress reports how far a scan has come.
type Progress struct {
	Processed int
	Total     int
	Blank     int
	Failed    int
}

func (p Progress) Done() bool { return p.Processed >= p.Total }

func (p Progress) String() string {
	return fmt.Sprintf("Read %d of %d files... Found %d blank notes", p.Processed, p.Total, p.Blank)
}

// Scanner walks the file list of one scan in fixed-size batches. Each call to
// Step is a point where the caller can redraw or give up.
type Scanner struct {
	s        *Session
	files    []string
	progress Progress
	finished bool
}

// BeginScan lists the store and resets the review list. A listing failure
// leaves the session untouched.
func (s *Session) BeginScan(ctx context.Context) (*Scanner, error) {
	files, err := s.store.ListMarkdownFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	s.state = StateScanning
	s.candidates = nil
	s.index = make(map[string]int)
	s.selectedCount = 0
	s.selectAll = false

	s.log.Debug().Int("files", len(files)).Msg("scan started")

	sc := &Scanner{
		s:        s,
		files:    files,
		progress: Progress{Total: len(files)},
	}
	if len(files) == 0 {
		sc.finish()
	}
	return sc, nil
}

func (sc *Scanner) Progress() Progress { return sc.progress }

// Finished reports whether the scan has read every file or was stopped.
func (sc *Scanner) Finished() bool { return sc.finished }

// Step reads up to one batch of files and returns the progress afterwards.
// When the context is cancelled Step stops before the next file and finishes
// the scan with what has been read so far.
func (sc *Scanner) Step(ctx context.Context) (Progress, error) {
	if sc.finished {
		return sc.progress, nil
	}

	end := sc.progress.Processed + sc.s.opts.BatchSize
	if end > len(sc.files) {
		end = len(sc.files)
	}

	for _, path := range sc.files[sc.progress.Processed:end] {
		if err := ctx.Err(); err != nil {
			sc.finish()
			return sc.progress, err
		}
		sc.visit(ctx, path)
	}

	if sc.progress.Done() {
		sc.finish()
	}
	return sc.progress, nil
}

func (sc *Scanner) visit(ctx context.Context, path string) {
	s := sc.s
	sc.progress.Processed++

	content, err := s.store.ReadFile(ctx, path)
	if err != nil {
		sc.progress.Failed++
		rerr := &ReadError{Path: path, Err: err}
		s.log.Warn().Err(rerr).Str("path", path).Msg("skipping unreadable note")
		return
	}

	summary, isBlank := blank.Classify(content, s.opts.Template, s.store.Basename(path))
	if s.opts.Debug && s.opts.Template != "" {
		s.log.Debug().
			Str("path", path).
			Str("content", blank.Normalize(content)).
			Str("template", blank.Normalize(s.opts.Template)).
			Bool("blank", isBlank).
			Msg("comparing note with template")
	}
	if !isBlank {
		return
	}

	s.index[path] = len(s.candidates)
	s.candidates = append(s.candidates, Candidate{
		Path:          path,
		Title:         summary.Title,
		ContentLength: summary.ContentLength,
	})
	sc.progress.Blank++
}

func (sc *Scanner) finish() {
	sc.finished = true
	sc.s.settle()
	sc.s.log.Info().
		Int("processed", sc.progress.Processed).
		Int("blank", sc.progress.Blank).
		Int("failed", sc.progress.Failed).
		Msg("scan finished")
}

// Scan runs a whole scan, calling onProgress after every batch. It returns
// the final progress; the error is non-nil only when listing fails or ctx is
// cancelled, and in the latter case the review list holds every blank note
// read before the cancellation.
func (s *Session) Scan(ctx context.Context, onProgress func(Progress)) (Progress, error) {
	sc, err := s.BeginScan(ctx)
	if err != nil {
		return Progress{}, err
	}

	p := sc.Progress()
	for !sc.Finished() {
		p, err = sc.Step(ctx)
		if onProgress != nil {
			onProgress(p)
		}
		if err != nil {
			return p, err
		}
	}
	return p, nil
}
