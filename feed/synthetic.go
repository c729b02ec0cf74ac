package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Synthetic is a deterministic source of entries with varied body lengths,
// so that pages differ in height.
type Synthetic struct {
	// Total is the number of entries; 0 means unbounded.
	Total int
	// Seed namespaces the generated IDs.
	Seed string
}

var lorem = []string{
	"Rows above the fold are measured before they leave.",
	"The offset moves back by exactly what was removed.",
	"A page rule closes every page.",
	"Nothing here is animated; the view should not jump.",
	"Scroll events only record the last position seen.",
}

func (s Synthetic) Name() string { return "synthetic" }

func (s Synthetic) Page(ctx context.Context, index, size int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || size <= 0 {
		return nil, nil
	}
	lo := index * size
	hi := lo + size
	if s.Total > 0 {
		lo, hi = window(index, size, s.Total)
	}
	entries := make([]Entry, 0, hi-lo)
	for i := lo; i < hi; i++ {
		entries = append(entries, s.entry(i))
	}
	return entries, nil
}

func (s Synthetic) entry(i int) Entry {
	id := uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s/%d", s.Seed, i))
	lines := 1 + i%4
	body := make([]string, lines)
	for j := range body {
		body[j] = lorem[(i+j)%len(lorem)]
	}
	return Entry{
		ID:     id.String(),
		Title:  fmt.Sprintf("Entry %d", i+1),
		Meta:   id.String()[:8],
		Body:   strings.Join(body, "\n\n"),
		Marker: true,
	}
}
