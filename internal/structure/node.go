package structure

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/jeanhaley32/treeicon/internal/apperr"
	"github.com/jeanhaley32/treeicon/internal/constants"
)

var (
	// ErrEmptyName is returned when adding a folder without a name.
	ErrEmptyName = errors.New("folder name is empty")

	// ErrReservedName is returned when a folder name starts with the reserved prefix.
	ErrReservedName = errors.New("folder name uses the reserved prefix " + constants.ReservedPrefix)

	// ErrDuplicateName is returned when a sibling with the same name exists.
	ErrDuplicateName = errors.New("folder already exists")

	// ErrRoot is returned for operations that cannot target the synthetic root.
	ErrRoot = errors.New("operation not allowed on the root")
)

// IsReserved reports whether key is a metadata key rather than a folder name.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, constants.ReservedPrefix)
}

// Node is a named folder in a structure document.
type Node struct {
	Name string
	// Icon is the source image reference, relative to the icon base. Empty means no icon.
	Icon string

	meta     *orderedmap.OrderedMap[string, json.RawMessage]
	children *orderedmap.OrderedMap[string, *Node]
}

// NewNode creates a leaf folder.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		meta:     orderedmap.New[string, json.RawMessage](),
		children: orderedmap.New[string, *Node](),
	}
}

// Children returns the node's subfolders in document order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, n.children.Len())
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Child returns the subfolder with the given name.
func (n *Node) Child(name string) (*Node, bool) {
	return n.children.Get(name)
}

// Len returns the number of subfolders.
func (n *Node) Len() int {
	return n.children.Len()
}

// MetaKeys returns reserved keys, other than the icon key, carried by the node.
func (n *Node) MetaKeys() []string {
	keys := make([]string, 0, n.meta.Len())
	for pair := n.meta.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// AddChild appends a new empty subfolder.
func (n *Node) AddChild(name string) (*Node, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if IsReserved(name) {
		return nil, errors.Wrapf(ErrReservedName, "add %q", name)
	}
	if _, exists := n.children.Get(name); exists {
		return nil, errors.Wrapf(ErrDuplicateName, "add %q", name)
	}
	child := NewNode(name)
	n.children.Set(name, child)
	return child, nil
}

// RemoveChild deletes a subfolder and everything below it.
func (n *Node) RemoveChild(name string) error {
	if _, ok := n.children.Delete(name); !ok {
		return &apperr.NotFoundError{What: "folder", Path: name}
	}
	return nil
}

func (n *Node) attach(child *Node) {
	n.children.Set(child.Name, child)
}
