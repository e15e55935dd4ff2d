package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mdwire/mdwire-go/pkg/trace"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[trace.Category]int
	EventsByDirection map[trace.Direction]int
	LoadTypes         map[wire.DataType]int
	EntryBytes        int
	MaxDepth          int
	Streams           map[string]*StreamStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// StreamStats holds statistics for a single stream.
type StreamStats struct {
	FirstSeen     time.Time
	LastSeen      time.Time
	FormatVersion string
	Events        int
	Entries       int
}

func collectStats(path string) (*Stats, error) {
	stats := &Stats{
		EventsByCategory:  make(map[trace.Category]int),
		EventsByDirection: make(map[trace.Direction]int),
		LoadTypes:         make(map[wire.DataType]int),
		Streams:           make(map[string]*StreamStats),
	}

	err := forEach(path, trace.Filter{}, func(event trace.Event) error {
		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++
		stats.MaxDepth = max(stats.MaxDepth, event.Depth)

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		s, ok := stats.Streams[event.StreamID]
		if !ok {
			s = &StreamStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp, FormatVersion: event.FormatVersion}
			stats.Streams[event.StreamID] = s
		}
		s.Events++
		if event.Timestamp.After(s.LastSeen) {
			s.LastSeen = event.Timestamp
		}

		if event.Entry != nil {
			s.Entries++
			stats.LoadTypes[event.Entry.LoadType]++
			stats.EntryBytes += event.Entry.Size
		}
		if event.Error != nil {
			stats.Errors++
		}
		return nil
	})
	return stats, err
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Codec Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Max Depth:    %d\n", stats.MaxDepth)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []trace.Category{trace.CategoryContainer, trace.CategoryEntry, trace.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []trace.Direction{trace.DirectionEncode, trace.DirectionDecode} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.LoadTypes) > 0 {
		types := make([]wire.DataType, 0, len(stats.LoadTypes))
		for t := range stats.LoadTypes {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

		fmt.Fprintf(w, "Entry Loads (%d bytes):\n", stats.EntryBytes)
		for _, t := range types {
			fmt.Fprintf(w, "  %-14s %d\n", t.String()+":", stats.LoadTypes[t])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Streams: %d\n", len(stats.Streams))
	ids := make([]string, 0, len(stats.Streams))
	for id := range stats.Streams {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return stats.Streams[ids[i]].FirstSeen.Before(stats.Streams[ids[j]].FirstSeen)
	})
	for _, id := range ids {
		s := stats.Streams[id]
		fmt.Fprintf(w, "  [%s] %d events, %d entries, duration %s",
			shortenID(id), s.Events, s.Entries, s.LastSeen.Sub(s.FirstSeen).Round(time.Millisecond))
		if s.FormatVersion != "" {
			fmt.Fprintf(w, ", format %s", s.FormatVersion)
		}
		fmt.Fprintln(w)
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
