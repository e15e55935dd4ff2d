// Package trace captures codec events for debugging wire traffic.
//
// The codec never logs on its own. A container Encoder or Decoder configured
// with a Logger emits one Event per container, per entry, and per failure.
// Without a Logger nothing is allocated or recorded.
//
// # Basic Usage
//
//	// Development: print events through slog
//	cfg.Tracer = trace.NewSlogAdapter(slog.Default())
//
//	// Capture to a binary file for later analysis
//	fl, _ := trace.NewFileLogger("/var/log/mdwire/feed.mtrace")
//	cfg.Tracer = trace.NewMultiLogger(trace.NewSlogAdapter(slog.Default()), fl)
//
// Zap and logrus users can install NewZapAdapter or NewLogrusAdapter instead.
//
// # File Format
//
// Trace files are a stream of CBOR records with integer keys. A FileHeader
// opens the file. Each stream is declared once by a StreamHeader carrying its
// direction and wire format version, and its events follow without repeating
// the version. Reader checks the header, restores the per-stream fields, and
// streams events back, optionally through a Filter.
package trace
