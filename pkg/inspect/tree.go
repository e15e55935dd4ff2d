package inspect

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/mdwire/mdwire-go/pkg/container"
	"github.com/mdwire/mdwire-go/pkg/trace"
	"github.com/mdwire/mdwire-go/pkg/wire"
)

var treeEncMode cbor.EncMode

func init() {
	var err error
	treeEncMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create inspect CBOR encoder mode: %v", err))
	}
}

// Tree is a fully decoded container.
type Tree struct {
	KeyType     string `cbor:"keyType"`
	SummaryType string `cbor:"summaryType,omitempty"`
	Summary     any    `cbor:"summary,omitempty"`
	Entries     []Node `cbor:"entries"`

	summary wire.Value
}

// Node is one decoded entry. Values are converted with trace.ValueOf.
type Node struct {
	Index      int    `cbor:"index"`
	Action     string `cbor:"action"`
	Key        any    `cbor:"key,omitempty"`
	Permission []byte `cbor:"permission,omitempty"`
	Type       string `cbor:"type"`
	Value      any    `cbor:"value,omitempty"`
	Container  *Tree  `cbor:"container,omitempty"`

	key   wire.Value
	value wire.Value
}

// Build decodes every remaining entry of d, descending into nested containers.
func Build(d *container.Decoder) (*Tree, error) {
	t := &Tree{
		KeyType: d.KeyType().String(),
		summary: d.Summary(),
	}
	if d.HasSummary() {
		t.SummaryType = d.SummaryType().String()
		t.Summary = trace.ValueOf(d.Summary())
	}

	for {
		ent, err := d.Next()
		if errors.Is(err, container.ErrEndOfContainer) {
			return t, nil
		}
		if err != nil {
			return nil, err
		}

		n := Node{
			Index:      ent.Index(),
			Action:     ent.Action.String(),
			Key:        trace.ValueOf(ent.Key),
			Permission: ent.Permission,
			Type:       ent.Type.String(),
			key:        ent.Key,
		}
		switch ent.Type {
		case wire.TypeNoData:
		case wire.TypeContainer:
			inner, err := ent.Container()
			if err != nil {
				return nil, err
			}
			if n.Container, err = Build(inner); err != nil {
				return nil, err
			}
		default:
			if n.value, err = ent.Load(); err != nil {
				return nil, err
			}
			n.Value = trace.ValueOf(n.value)
		}
		t.Entries = append(t.Entries, n)
	}
}

// ToCBOR decodes the container in data and renders it as CBOR.
func ToCBOR(data []byte, cfg container.Config) ([]byte, error) {
	d, err := container.NewDecoderWithConfig(data, cfg)
	if err != nil {
		return nil, err
	}
	t, err := Build(d)
	if err != nil {
		return nil, err
	}
	return treeEncMode.Marshal(t)
}
