package fzf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Paintersrp/sweep/internal/cleaner"
)

type countingReader struct {
	reads int
	files map[string]string
}

func (r *countingReader) ReadFile(_ context.Context, path string) (string, error) {
	r.reads++
	content, ok := r.files[path]
	if !ok {
		return "", errors.New("missing")
	}
	return content, nil
}

func basename(p string) string {
	return strings.TrimSuffix(p[strings.LastIndex(p, "/")+1:], ".md")
}

func TestLabel(t *testing.T) {
	cases := []struct {
		c    cleaner.Candidate
		want string
	}{
		{cleaner.Candidate{Path: "j/a.md", Title: "Monday"}, "Monday  j/a.md  [empty]"},
		{cleaner.Candidate{Path: "j/b.md", ContentLength: 12}, "b  j/b.md  [12 chars]"},
	}
	for _, tc := range cases {
		if got := Label(tc.c, basename(tc.c.Path)); got != tc.want {
			t.Fatalf("Label = %q, want %q", got, tc.want)
		}
	}
}

func TestPreviewIsCached(t *testing.T) {
	reader := &countingReader{files: map[string]string{"a.md": "# Title\n\nbody"}}
	p := NewPicker(context.Background(), reader, []cleaner.Candidate{{Path: "a.md"}, {Path: "gone.md"}}, basename)

	first := p.preview(0, 80, 20)
	if !strings.Contains(first, "Title") {
		t.Fatalf("preview missing title: %q", first)
	}
	if again := p.preview(0, 80, 20); again != first || reader.reads != 1 {
		t.Fatalf("preview re-read the note: reads=%d", reader.reads)
	}

	if got := p.preview(1, 80, 20); got != "Error reading file" {
		t.Fatalf("preview for missing note = %q", got)
	}
	if got := p.preview(-1, 80, 20); got != "" {
		t.Fatalf("preview for no selection = %q", got)
	}
}

func TestPickWithoutCandidates(t *testing.T) {
	p := NewPicker(context.Background(), &countingReader{}, nil, basename)
	if _, err := p.PickOne(""); err == nil {
		t.Fatal("expected an error with nothing to pick")
	}
	if _, err := p.PickMany(""); err == nil {
		t.Fatal("expected an error with nothing to pick")
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	got, err := RenderMarkdown(" \n\t", 40)
	if err != nil || got != "(empty note)" {
		t.Fatalf("RenderMarkdown = %q, %v", got, err)
	}
}
