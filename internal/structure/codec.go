package structure

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/jeanhaley32/treeicon/internal/constants"
)

// indent matches the layout of hand-edited configuration files.
const indent = "    "

// Decode parses and validates a configuration document.
// Errors are syntax or schema errors; callers wrap them as parse errors.
func Decode(data []byte) (*Document, error) {
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	if err := Validate(generic); err != nil {
		return nil, err
	}

	top := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, top); err != nil {
		return nil, errors.Wrap(err, "decode document")
	}

	doc := NewDocument()
	raw, ok := top.Get(constants.FoldersKey)
	if !ok {
		return doc, nil
	}
	if err := decodeInto(doc.Root, raw); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeInto(n *Node, raw json.RawMessage) error {
	fields := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, fields); err != nil {
		return errors.Wrapf(err, "decode folder %q", n.Name)
	}

	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		key, value := pair.Key, pair.Value
		switch {
		case key == constants.IconKey:
			if err := json.Unmarshal(value, &n.Icon); err != nil {
				return errors.Wrapf(err, "decode icon of %q", n.Name)
			}
		case IsReserved(key):
			n.meta.Set(key, value)
		default:
			child := NewNode(key)
			if err := decodeInto(child, value); err != nil {
				return err
			}
			n.attach(child)
		}
	}
	return nil
}

// Encode serializes the document with stable indentation. Non-ASCII and
// HTML characters are written as-is.
func (d *Document) Encode() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	if err := writeString(&compact, constants.FoldersKey); err != nil {
		return nil, err
	}
	compact.WriteByte(':')
	if err := encodeNode(&compact, d.Root); err != nil {
		return nil, err
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, errors.Wrap(err, "indent document")
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, n *Node) error {
	buf.WriteByte('{')
	first := true
	field := func(key string) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeString(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		return nil
	}

	if n.Icon != "" {
		if err := field(constants.IconKey); err != nil {
			return err
		}
		if err := writeString(buf, n.Icon); err != nil {
			return err
		}
	}
	for pair := n.meta.Oldest(); pair != nil; pair = pair.Next() {
		if err := field(pair.Key); err != nil {
			return err
		}
		buf.Write(pair.Value)
	}
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		if err := field(pair.Key); err != nil {
			return err
		}
		if err := encodeNode(buf, pair.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return errors.Wrapf(err, "encode %q", s)
	}
	// Encoder terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
