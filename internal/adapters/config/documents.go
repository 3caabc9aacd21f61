package config

import (
	"os"

	"go.trai.ch/quasi/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DocumentLoader implements ports.DocumentLoader for YAML and JSON files.
//
// Mappings become domain.Record values in document order, sequences become
// []any and scalars decode to their natural Go type. Only the first document
// of a multi-document stream is read.
type DocumentLoader struct{}

// NewDocumentLoader creates a DocumentLoader.
func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{}
}

// Load reads and decodes the document at path.
func (l *DocumentLoader) Load(path string) (any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read document"), "path", path)
	}

	v, err := Decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return v, nil
}

// Decode converts YAML or JSON bytes into a value graph.
func Decode(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, zerr.Wrap(err, "failed to parse document")
	}
	d := decoder{active: make(map[*yaml.Node]struct{})}
	return d.convert(&root)
}

type decoder struct {
	// active holds the anchors being expanded on the current path.
	active map[*yaml.Node]struct{}
}

func (d *decoder) convert(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.convert(n.Content[0])
	case yaml.MappingNode:
		return d.mapping(n)
	case yaml.SequenceNode:
		items := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := d.convert(c)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to decode scalar"), "line", n.Line)
		}
		return v, nil
	case yaml.AliasNode:
		return d.alias(n)
	default:
		return nil, nil
	}
}

func (d *decoder) mapping(n *yaml.Node) (any, error) {
	rec := make(domain.Record, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			err := zerr.Wrap(domain.ErrUnsupportedDocument, "mapping keys must be scalars")
			return nil, zerr.With(err, "line", key.Line)
		}
		v, err := d.convert(value)
		if err != nil {
			return nil, err
		}
		rec = append(rec, domain.Field{Name: key.Value, Value: v})
	}
	return rec, nil
}

func (d *decoder) alias(n *yaml.Node) (any, error) {
	target := n.Alias
	if target == nil {
		return nil, nil
	}
	if _, ok := d.active[target]; ok {
		err := zerr.Wrap(domain.ErrCycleDetected, "anchor refers to itself")
		return nil, zerr.With(err, "anchor", target.Anchor)
	}
	d.active[target] = struct{}{}
	defer delete(d.active, target)
	return d.convert(target)
}
