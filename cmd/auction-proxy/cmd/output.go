package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	domain "github.com/donaldgifford/auction-proxy/pkg/types"
)

const titleWidth = 48

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printSearchTable(w io.Writer, r *domain.SearchResult) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTITLE\tPRICE\tBIDS\tENDS IN\n")
	for i := range r.Items {
		l := &r.Items[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\n",
			l.ID,
			truncate(l.Title, titleWidth),
			formatPrice(l.CurrentPrice),
			formatOptionalInt(l.BidCount),
			formatOptionalString(l.TimeRemainingHuman),
		)
	}
	if err := tw.finish(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d of %d listings (offset %d) from %s\n",
		len(r.Items), r.Total, r.Offset, r.Endpoint)
	return err
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatPrice(p *domain.Price) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f %s", p.Value, p.Currency)
}

func formatOptionalInt(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func formatOptionalString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// truncate shortens s to at most maxLen runes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
