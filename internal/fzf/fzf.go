package fzf

import (
	"context"
	"errors"
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/Paintersrp/sweep/internal/cache"
	"github.com/Paintersrp/sweep/internal/cleaner"
	"github.com/Paintersrp/sweep/internal/constants"
)

// ErrAbort is returned when the user leaves the finder without choosing.
var ErrAbort = fuzzyfinder.ErrAbort

// Reader loads note content for the preview pane.
type Reader interface {
	ReadFile(ctx context.Context, path string) (string, error)
}

// Picker runs a fuzzy finder over scan candidates with a rendered preview of
// each note.
type Picker struct {
	ctx        context.Context
	reader     Reader
	candidates []cleaner.Candidate
	labels     []string
	Header     string

	previews *cache.LRU[int, string]
}

// NewPicker labels each candidate with basename as the title fallback.
func NewPicker(ctx context.Context, reader Reader, candidates []cleaner.Candidate, basename func(string) string) *Picker {
	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = Label(c, basename(c.Path))
	}

	return &Picker{
		ctx:        ctx,
		reader:     reader,
		candidates: candidates,
		labels:     labels,
		previews:   cache.NewLRU[int, string](constants.PreviewCacheSize),
	}
}

// Label is the line shown for a candidate in the finder.
func Label(c cleaner.Candidate, fallback string) string {
	title := c.DisplayTitle(fallback)
	if c.ContentLength == 0 {
		return fmt.Sprintf("%s  %s  [empty]", title, c.Path)
	}
	return fmt.Sprintf("%s  %s  [%d chars]", title, c.Path, c.ContentLength)
}

func (p *Picker) options(query string) []fuzzyfinder.Option {
	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(p.preview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if p.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(p.Header))
	}
	return options
}

// PickOne returns the chosen candidate.
func (p *Picker) PickOne(query string) (cleaner.Candidate, error) {
	if len(p.candidates) == 0 {
		return cleaner.Candidate{}, errors.New("no blank notes to pick from")
	}

	idx, err := fuzzyfinder.Find(p.candidates, func(i int) string {
		return p.labels[i]
	}, p.options(query)...)
	if err != nil {
		return cleaner.Candidate{}, err
	}

	return p.candidates[idx], nil
}

// PickMany lets the user mark several candidates with tab.
func (p *Picker) PickMany(query string) ([]cleaner.Candidate, error) {
	if len(p.candidates) == 0 {
		return nil, errors.New("no blank notes to pick from")
	}

	idxs, err := fuzzyfinder.FindMulti(p.candidates, func(i int) string {
		return p.labels[i]
	}, p.options(query)...)
	if err != nil {
		return nil, err
	}

	picked := make([]cleaner.Candidate, 0, len(idxs))
	for _, i := range idxs {
		picked = append(picked, p.candidates[i])
	}
	return picked, nil
}

func (p *Picker) preview(i, w, _ int) string {
	if i == -1 {
		return ""
	}

	if cached, ok := p.previews.Get(i); ok {
		return cached
	}

	content, err := p.reader.ReadFile(p.ctx, p.candidates[i].Path)
	if err != nil {
		return "Error reading file"
	}

	rendered, err := RenderMarkdown(content, w)
	if err != nil {
		return "Error rendering markdown"
	}

	p.previews.Put(i, rendered)
	return rendered
}
