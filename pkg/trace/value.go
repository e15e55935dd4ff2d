package trace

import (
	"github.com/mdwire/mdwire-go/pkg/wire"
)

// ValueOf converts a wire value into plain Go types that encode cleanly as
// CBOR or JSON. Blank reals and times become nil.
func ValueOf(v wire.Value) any {
	switch x := v.(type) {
	case nil:
		return nil
	case wire.Int:
		return int64(x)
	case wire.UInt:
		return uint64(x)
	case wire.Enum:
		return uint64(x)
	case wire.Float:
		return float64(x)
	case wire.Double:
		return float64(x)
	case wire.Real:
		if x.Blank {
			return nil
		}
		return map[string]any{"mantissa": x.Mantissa, "exponent": uint64(x.Exponent)}
	case wire.Date:
		if x.IsBlank() {
			return nil
		}
		return x.String()
	case wire.DateTime:
		return x.String()
	case wire.Time:
		if x.Blank {
			return nil
		}
		return x.String()
	case wire.Buffer:
		return []byte(x)
	case wire.ASCII:
		return string(x)
	default:
		return nil
	}
}
