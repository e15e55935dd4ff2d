// Command mdwire-dump prints an encoded container in readable form.
//
// Usage:
//
//	mdwire-dump [flags] <file>
//
// The input is raw container bytes, or hex text with -hex ("-" reads stdin).
// Whitespace in hex input is ignored.
//
// Flags:
//
//	-hex             Input is hex text
//	-path string     Print only the entry at this index path (e.g. 1/0x02)
//	-cbor            Write the decoded tree as CBOR instead of text
//	-index           Prefix entries with their index
//	-types           Show wire types (default true)
//	-format string   Wire format version to accept (default: current)
//	-max-depth int   Maximum container nesting depth
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mdwire/mdwire-go/pkg/container"
	"github.com/mdwire/mdwire-go/pkg/inspect"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

type options struct {
	hex       bool
	path      string
	cbor      bool
	index     bool
	types     bool
	format    string
	maxDepth  int
	inputPath string
}

func main() {
	opts := options{}
	flag.BoolVar(&opts.hex, "hex", false, "Input is hex text")
	flag.StringVar(&opts.path, "path", "", "Print only the entry at this index path (e.g. 1/0x02)")
	flag.BoolVar(&opts.cbor, "cbor", false, "Write the decoded tree as CBOR")
	flag.BoolVar(&opts.index, "index", false, "Prefix entries with their index")
	flag.BoolVar(&opts.types, "types", true, "Show wire types")
	flag.StringVar(&opts.format, "format", "", "Wire format version to accept (default: current)")
	flag.IntVar(&opts.maxDepth, "max-depth", container.DefaultMaxDepth, "Maximum container nesting depth")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: mdwire-dump [flags] <file>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	opts.inputPath = flag.Arg(0)

	var in io.Reader = os.Stdin
	if opts.inputPath != "-" {
		f, err := os.Open(opts.inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	if err := run(opts, in, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func readInput(opts options, in io.Reader) ([]byte, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	if !opts.hex {
		return data, nil
	}
	text := strings.Join(strings.Fields(string(data)), "")
	out, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return out, nil
}

func run(opts options, in io.Reader, out io.Writer) error {
	data, err := readInput(opts, in)
	if err != nil {
		return err
	}

	cfg := container.DefaultConfig()
	if opts.format != "" {
		cfg.FormatVersion = opts.format
	}
	if opts.maxDepth != 0 {
		cfg.MaxDepth = opts.maxDepth
	}

	if opts.cbor {
		if opts.path != "" {
			return errors.New("-cbor cannot be combined with -path")
		}
		b, err := inspect.ToCBOR(data, cfg)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	}

	d, err := container.NewDecoderWithConfig(data, cfg)
	if err != nil {
		return err
	}
	f := inspect.NewFormatter()
	f.ShowIndex = opts.index
	f.ShowTypes = opts.types

	if opts.path != "" {
		return dumpPath(f, d, opts.path, out)
	}

	text, err := f.Dump(d)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}

func dumpPath(f *inspect.Formatter, d *container.Decoder, raw string, out io.Writer) error {
	p, err := inspect.ParsePath(raw)
	if err != nil {
		return err
	}
	ent, err := inspect.Find(d, p)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s", p, ent.Action)
	if ent.Key != nil {
		fmt.Fprintf(out, " key=%s", f.FormatValue(ent.Key))
	}
	fmt.Fprintln(out)

	if ent.Type == wire.TypeContainer {
		nested, err := ent.Container()
		if err != nil {
			return err
		}
		text, err := f.Dump(nested)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, text)
		return err
	}
	if !ent.HasLoad() {
		return nil
	}
	v, err := ent.Load()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s (%s)\n", f.FormatValue(v), ent.Type)
	return err
}
