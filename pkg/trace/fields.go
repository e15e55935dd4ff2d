package trace

// field is one flattened key/value pair of an event, shared by the
// structured logger adapters.
type field struct {
	key   string
	value any
}

// fields flattens an event into ordered key/value pairs.
func fields(event Event) []field {
	out := []field{
		{"stream_id", event.StreamID},
		{"direction", event.Direction.String()},
		{"layer", event.Layer.String()},
		{"category", event.Category.String()},
		{"depth", event.Depth},
	}
	if event.FormatVersion != "" {
		out = append(out, field{"format_version", event.FormatVersion})
	}

	switch {
	case event.Container != nil:
		c := event.Container
		out = append(out,
			field{"key_type", c.KeyType.String()},
			field{"count", c.Count},
			field{"has_summary", c.HasSummary},
			field{"closed", c.Closed},
		)
		if c.Size > 0 {
			out = append(out, field{"size", c.Size})
		}
	case event.Entry != nil:
		e := event.Entry
		out = append(out,
			field{"index", e.Index},
			field{"action", e.Action},
			field{"load_type", e.LoadType.String()},
			field{"size", e.Size},
		)
		if e.Key != nil {
			out = append(out, field{"key", e.Key})
		}
		if e.HasPermission {
			out = append(out, field{"permission", true})
		}
	case event.Error != nil:
		out = append(out,
			field{"error_layer", event.Error.Layer.String()},
			field{"error_msg", event.Error.Message},
			field{"error_offset", event.Error.Offset},
		)
		if event.Error.Context != "" {
			out = append(out, field{"error_context", event.Error.Context})
		}
	}
	return out
}
