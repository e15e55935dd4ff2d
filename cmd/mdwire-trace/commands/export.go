package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mdwire/mdwire-go/pkg/trace"
)

// RunExport exports the trace file to the specified format.
func RunExport(path, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return export(path, format, w)
}

func export(path, format string, w io.Writer) error {
	switch format {
	case "jsonl":
		enc := json.NewEncoder(w)
		return forEach(path, trace.Filter{}, func(e trace.Event) error {
			if err := enc.Encode(e); err != nil {
				return fmt.Errorf("failed to encode event: %w", err)
			}
			return nil
		})
	case "csv":
		return exportCSV(path, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportCSV(path string, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "stream_id", "direction", "layer", "category", "depth", "index", "action", "load_type", "size", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	return forEach(path, trace.Filter{}, func(e trace.Event) error {
		var index, action, loadType, size, msg string
		switch {
		case e.Entry != nil:
			index = strconv.Itoa(e.Entry.Index)
			action = e.Entry.Action
			loadType = e.Entry.LoadType.String()
			size = strconv.Itoa(e.Entry.Size)
		case e.Container != nil && e.Container.Closed:
			size = strconv.Itoa(e.Container.Size)
		case e.Error != nil:
			msg = e.Error.Message
		}
		row := []string{
			e.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			e.StreamID,
			e.Direction.String(),
			e.Layer.String(),
			e.Category.String(),
			strconv.Itoa(e.Depth),
			index, action, loadType, size, msg,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
}
