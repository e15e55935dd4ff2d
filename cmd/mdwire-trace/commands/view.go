package commands

import (
	"fmt"
	"io"

	"github.com/mdwire/mdwire-go/pkg/trace"
)

func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event trace.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [stream:%s] %-6s %s %s depth=%d\n",
		ts, shortenID(event.StreamID), event.Direction, event.Layer, event.Category, event.Depth)

	switch {
	case event.Container != nil:
		c := event.Container
		if c.Closed {
			fmt.Fprintf(w, "  Closed: %d entries, %d bytes\n", c.Count, c.Size)
		} else {
			fmt.Fprintf(w, "  Keys: %s  Entries: %d  Summary: %t\n", c.KeyType, c.Count, c.HasSummary)
		}
	case event.Entry != nil:
		e := event.Entry
		fmt.Fprintf(w, "  [%d] %s", e.Index, e.Action)
		if e.Key != nil {
			fmt.Fprintf(w, " key=%v", e.Key)
		}
		fmt.Fprintf(w, " load=%s size=%d", e.LoadType, e.Size)
		if e.HasPermission {
			fmt.Fprint(w, " perm")
		}
		fmt.Fprintln(w)
	case event.Error != nil:
		fmt.Fprintf(w, "  Message: %s\n", event.Error.Message)
		fmt.Fprintf(w, "  Offset: %d\n", event.Error.Offset)
		if event.Error.Context != "" {
			fmt.Fprintf(w, "  Context: %s\n", event.Error.Context)
		}
	}
	fmt.Fprintln(w)
}

// RunView writes every event in path matching filter to output.
func RunView(path string, filter trace.Filter, output io.Writer) error {
	return forEach(path, filter, func(e trace.Event) error {
		formatEvent(output, e)
		return nil
	})
}
