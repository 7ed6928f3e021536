// Package render produces the catalog summary text from an already-sorted
// suggestion sequence. Pure: the gateway owns message delivery and any rich
// layout around these lines.
package render

import (
	"fmt"
	"strings"

	"github.com/readnextapp/readnext-server/internal/domain"
	"github.com/readnextapp/readnext-server/internal/title"
)

// SummaryHeader titles the rendered catalog block.
const SummaryHeader = "Suggested works:"

// emptyCatalog is shown when no suggestions exist; an empty catalog is a
// valid, displayable state.
const emptyCatalog = "(nothing suggested yet)"

// Summary renders one line per suggestion in the order given. Prioritized
// entries carry a marker, and entries with chapters show reading progress.
func Summary(suggestions []*domain.Suggestion, titleLimit int) string {
	if len(suggestions) == 0 {
		return SummaryHeader + "\n" + emptyCatalog
	}

	var b strings.Builder
	b.WriteString(SummaryHeader)
	for _, sug := range suggestions {
		b.WriteByte('\n')
		b.WriteString(Line(sug, titleLimit))
	}
	return b.String()
}

// Line renders a single suggestion entry.
func Line(sug *domain.Suggestion, titleLimit int) string {
	var b strings.Builder
	if sug.IsPrioritized {
		b.WriteString("❗ ")
	}
	b.WriteString(title.Abbreviate(sug.Title, titleLimit))
	if sug.HasChapters() {
		fmt.Fprintf(&b, " (%d/%d)", sug.NextChapter, sug.TotalChapters)
	}
	return b.String()
}
