package cleaner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScanFindsBlankNotesInEnumerationOrder(t *testing.T) {
	store := newMemStore().
		add("notes/empty.md", "Empty Title\n\n").
		add("notes/real.md", "Real\nI actually wrote something.").
		add("notes/template.md", "Hello\n\n  World\n")

	s, _ := scanned(t, store, Options{Template: "  Hello \n World"})

	want := []Candidate{
		{Path: "notes/empty.md", Title: "Empty Title"},
		{Path: "notes/template.md", Title: "Hello", ContentLength: 5},
	}
	if diff := cmp.Diff(want, s.Candidates()); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
	if s.State() != StateReviewing {
		t.Fatalf("state = %v, want reviewing", s.State())
	}
}

func TestScanSkipsUnreadableFiles(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 10; i++ {
		p := fmt.Sprintf("n%02d.md", i)
		if i%2 == 0 {
			store.add(p, "Title only")
		} else {
			store.add(p, "Title\nbody")
		}
	}
	store.readErr["n04.md"] = errDenied

	s, _ := newTestSession(t, store, Options{})
	var reports []Progress
	p, err := s.Scan(context.Background(), func(p Progress) { reports = append(reports, p) })
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	want := Progress{Processed: 10, Total: 10, Blank: 4, Failed: 1}
	if p != want {
		t.Fatalf("progress = %+v, want %+v", p, want)
	}
	if s.Len() != 4 {
		t.Fatalf("candidates = %d, want 4", s.Len())
	}
	if _, ok := s.Candidate("n04.md"); ok {
		t.Fatal("unreadable note should not be a candidate")
	}
	if len(reports) != 1 || reports[0] != want {
		t.Fatalf("progress reports = %+v, want one final report", reports)
	}
}

func TestScanReportsEveryBatch(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 25; i++ {
		store.add(fmt.Sprintf("%02d.md", i), "")
	}

	s, _ := newTestSession(t, store, Options{})
	var processed []int
	if _, err := s.Scan(context.Background(), func(p Progress) { processed = append(processed, p.Processed) }); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if diff := cmp.Diff([]int{10, 20, 25}, processed); diff != "" {
		t.Fatalf("progress cadence mismatch (-want +got):\n%s", diff)
	}
}

func TestScanWithNoBlankNotesIsEmpty(t *testing.T) {
	store := newMemStore().add("a.md", "A\nbody")
	s, _ := scanned(t, store, Options{})
	if s.State() != StateEmpty {
		t.Fatalf("state = %v, want empty", s.State())
	}

	empty, _ := scanned(t, newMemStore(), Options{})
	if empty.State() != StateEmpty {
		t.Fatalf("state for empty store = %v, want empty", empty.State())
	}
}

func TestScanListFailure(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("vault missing")

	s, _ := newTestSession(t, store, Options{})
	if _, err := s.Scan(context.Background(), nil); err == nil {
		t.Fatal("expected listing failure to be returned")
	}
	if s.State() != StateScanning {
		t.Fatalf("state = %v, want scanning after failed listing", s.State())
	}
}

func TestScanCancellationKeepsProcessedSubset(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 30; i++ {
		store.add(fmt.Sprintf("%02d.md", i), "")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s, _ := newTestSession(t, store, Options{})
	p, err := s.Scan(ctx, func(p Progress) {
		if p.Processed == 10 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if p.Processed != 10 || s.Len() != 10 {
		t.Fatalf("processed=%d candidates=%d, want 10/10", p.Processed, s.Len())
	}
	if s.State() != StateReviewing {
		t.Fatalf("state = %v, want reviewing", s.State())
	}
	assertConsistent(t, s)
}

func TestRescanResetsSelection(t *testing.T) {
	store := newMemStore().add("a.md", "").add("b.md", "")
	s, _ := scanned(t, store, Options{})
	s.SelectAll(true)

	if _, err := s.Scan(context.Background(), nil); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if s.SelectedCount() != 0 || s.SelectAllIntent() {
		t.Fatalf("rescan kept selection: count=%d intent=%v", s.SelectedCount(), s.SelectAllIntent())
	}
	assertConsistent(t, s)
}

func TestScannerStepByStep(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 5; i++ {
		store.add(fmt.Sprintf("%d.md", i), "")
	}

	s, _ := newTestSession(t, store, Options{BatchSize: 2})
	sc, err := s.BeginScan(context.Background())
	if err != nil {
		t.Fatalf("BeginScan: %v", err)
	}

	steps := 0
	for !sc.Finished() {
		if _, err := sc.Step(context.Background()); err != nil {
			t.Fatalf("Step: %v", err)
		}
		steps++
		if !sc.Finished() && s.State() != StateScanning {
			t.Fatalf("state = %v mid-scan", s.State())
		}
	}
	if steps != 3 {
		t.Fatalf("steps = %d, want 3", steps)
	}
	if s.Len() != 5 {
		t.Fatalf("candidates = %d, want 5", s.Len())
	}
}

func TestTitleFallsBackToBasename(t *testing.T) {
	store := newMemStore().add("journal/2024-01-01.md", "")
	s, _ := scanned(t, store, Options{})

	c, ok := s.Candidate("journal/2024-01-01.md")
	if !ok {
		t.Fatal("expected candidate")
	}
	if c.Title != "2024-01-01" {
		t.Fatalf("title = %q, want basename", c.Title)
	}
}
