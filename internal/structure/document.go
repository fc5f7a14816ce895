package structure

import (
	"strings"

	"github.com/jeanhaley32/treeicon/internal/apperr"
)

// Path addresses a folder by the names of its ancestors, top-down.
// The empty path is the synthetic root.
type Path []string

// ParsePath splits a slash-separated path. "" and "/" address the root.
func ParsePath(s string) Path {
	s = strings.Trim(s, "/")
	if s == "" {
		return Path{}
	}
	return Path(strings.Split(s, "/"))
}

// IsRoot reports whether p addresses the synthetic root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Parent returns the path of the containing folder.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Base returns the last path element.
func (p Path) Base() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Join returns a new path with name appended.
func (p Path) Join(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	return strings.Join(p, "/")
}

// Document is a configuration: a synthetic root whose children are the top-level folders.
type Document struct {
	Root *Node
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Root: NewNode("")}
}

// Seed returns a new document holding a single folder.
func Seed(folderName string) *Document {
	doc := NewDocument()
	doc.Root.attach(NewNode(folderName))
	return doc
}

// Lookup resolves p against the current tree.
func (d *Document) Lookup(p Path) (*Node, error) {
	node := d.Root
	for i, name := range p {
		child, ok := node.Child(name)
		if !ok {
			return nil, &apperr.NotFoundError{What: "folder", Path: p[:i+1].String()}
		}
		node = child
	}
	return node, nil
}

// WalkFunc is called for each folder in preorder. Returning SkipChildren
// prunes the folder's subtree.
type WalkFunc func(p Path, n *Node) error

// SkipChildren is returned by a WalkFunc to skip a folder's subfolders.
var SkipChildren = skipChildren{}

type skipChildren struct{}

func (skipChildren) Error() string { return "skip children" }

// Walk visits every folder below the root, parents before children.
func (d *Document) Walk(fn WalkFunc) error {
	return walk(Path{}, d.Root, fn)
}

func walk(p Path, n *Node, fn WalkFunc) error {
	for _, child := range n.Children() {
		cp := p.Join(child.Name)
		if err := fn(cp, child); err != nil {
			if err == SkipChildren {
				continue
			}
			return err
		}
		if err := walk(cp, child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of folders in the document.
func (d *Document) Count() int {
	count := 0
	_ = d.Walk(func(Path, *Node) error {
		count++
		return nil
	})
	return count
}
