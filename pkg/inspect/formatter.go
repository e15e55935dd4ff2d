package inspect

import (
	"fmt"
	"strings"

	"github.com/mdwire/mdwire-go/pkg/container"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

// Formatter formats container dumps.
type Formatter struct {
	// ShowTypes appends the wire type of keys and loads.
	ShowTypes bool

	// ShowIndex prefixes each entry with its index.
	ShowIndex bool

	// IndentWidth is the number of spaces per indent level.
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowTypes:   true,
		ShowIndex:   false,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatValue formats a wire value for display.
func (f *Formatter) FormatValue(v wire.Value) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case wire.Int:
		return fmt.Sprintf("%d", int64(x))
	case wire.UInt:
		return fmt.Sprintf("%d", uint64(x))
	case wire.Enum:
		return fmt.Sprintf("enum(%d)", uint16(x))
	case wire.Float:
		return fmt.Sprintf("%g", float32(x))
	case wire.Double:
		return fmt.Sprintf("%g", float64(x))
	case wire.Real:
		if x.Blank {
			return "blank"
		}
		return fmt.Sprintf("%g (%s)", x.Float64(), x)
	case wire.ASCII:
		return fmt.Sprintf("%q", string(x))
	case wire.Buffer:
		return fmt.Sprintf("0x%x", []byte(x))
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Dump decodes every remaining entry of d and returns an indented listing.
func (f *Formatter) Dump(d *container.Decoder) (string, error) {
	t, err := Build(d)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	f.writeTree(&sb, t, 0)
	return sb.String(), nil
}

func (f *Formatter) writeTree(sb *strings.Builder, t *Tree, depth int) {
	head := fmt.Sprintf("container keys=%s entries=%d", t.KeyType, len(t.Entries))
	if t.SummaryType != "" {
		head += " summary=" + f.FormatValue(t.summary)
		if f.ShowTypes {
			head += " (" + t.SummaryType + ")"
		}
	}
	sb.WriteString(f.Indent(depth, head))
	sb.WriteString("\n")

	if len(t.Entries) == 0 {
		sb.WriteString(f.Indent(depth+1, "(no entries)\n"))
		return
	}
	for _, n := range t.Entries {
		var line strings.Builder
		if f.ShowIndex {
			fmt.Fprintf(&line, "[%d] ", n.Index)
		}
		line.WriteString(n.Action)
		if n.key != nil {
			line.WriteString(" ")
			line.WriteString(f.FormatValue(n.key))
		}
		if n.Permission != nil {
			fmt.Fprintf(&line, " perm=0x%x", n.Permission)
		}
		switch {
		case n.Container != nil:
			line.WriteString(":")
		case n.Type == wire.TypeNoData.String():
		default:
			line.WriteString(" = ")
			line.WriteString(f.FormatValue(n.value))
			if f.ShowTypes {
				fmt.Fprintf(&line, " (%s)", n.Type)
			}
		}
		sb.WriteString(f.Indent(depth+1, line.String()))
		sb.WriteString("\n")
		if n.Container != nil {
			f.writeTree(sb, n.Container, depth+2)
		}
	}
}
