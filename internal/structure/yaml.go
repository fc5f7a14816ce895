package structure

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jeanhaley32/treeicon/internal/constants"
)

// YAML renders the document as YAML, keeping folder order.
func (d *Document) YAML() ([]byte, error) {
	folders, err := yamlNode(d.Root)
	if err != nil {
		return nil, err
	}
	top := &yaml.Node{Kind: yaml.MappingNode}
	top.Content = append(top.Content, yamlKey(constants.FoldersKey), folders)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "flush yaml")
	}
	return buf.Bytes(), nil
}

func yamlNode(n *Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	if n.Icon != "" {
		out.Content = append(out.Content, yamlKey(constants.IconKey), yamlKey(n.Icon))
	}
	for pair := n.meta.Oldest(); pair != nil; pair = pair.Next() {
		var v interface{}
		if err := json.Unmarshal(pair.Value, &v); err != nil {
			return nil, errors.Wrapf(err, "decode %s", pair.Key)
		}
		value := &yaml.Node{}
		if err := value.Encode(v); err != nil {
			return nil, errors.Wrapf(err, "encode %s", pair.Key)
		}
		out.Content = append(out.Content, yamlKey(pair.Key), value)
	}
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		child, err := yamlNode(pair.Value)
		if err != nil {
			return nil, err
		}
		out.Content = append(out.Content, yamlKey(pair.Key), child)
	}
	if len(out.Content) == 0 {
		out.Style = yaml.FlowStyle
	}
	return out, nil
}

func yamlKey(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
