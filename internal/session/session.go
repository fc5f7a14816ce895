// Package session owns the configuration being edited.
//
// Mutations address folders by path and resolve that path against the live
// tree right before changing it, so nothing holds on to a node across
// operations. Every mutation is saved immediately; when the save fails the
// in-memory tree stays authoritative and the error is returned.
package session

import (
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/jeanhaley32/treeicon/internal/iconlib"
	"github.com/jeanhaley32/treeicon/internal/store"
	"github.com/jeanhaley32/treeicon/internal/structure"
)

// ErrNoDocument is returned by mutations when no configuration is open.
var ErrNoDocument = errors.New("no configuration is open")

// Session is an editing session over one store.
type Session struct {
	Logger log.Logger
	Store  *store.Store
	Icons  *iconlib.Cache

	name string
	doc  *structure.Document
}

// New creates a session with nothing open.
func New(logger log.Logger, st *store.Store, icons *iconlib.Cache) *Session {
	return &Session{
		Logger: logger,
		Store:  st,
		Icons:  icons,
	}
}

// Name returns the open configuration, or "".
func (s *Session) Name() string {
	return s.name
}

// Document returns the open document, or nil.
func (s *Session) Document() *structure.Document {
	return s.doc
}

// Open loads name and makes it the active configuration. On failure the
// previously open configuration stays open.
func (s *Session) Open(name string) error {
	return s.open(name, true)
}

// OpenActive opens the configuration recorded as active without writing
// anything, so it works on a read-only configuration directory. It returns
// ErrNoDocument when none is recorded.
func (s *Session) OpenActive() error {
	active, err := s.Store.Active()
	if err != nil {
		return err
	}
	if active == "" {
		return ErrNoDocument
	}
	return s.open(active, false)
}

func (s *Session) open(name string, activate bool) error {
	doc, err := s.Store.Load(name)
	if err != nil {
		return err
	}
	normalized, err := store.NormalizeName(name)
	if err != nil {
		return err
	}
	if activate {
		if err := s.Store.SetActive(normalized); err != nil {
			return err
		}
	}
	s.replace(normalized, doc)
	return nil
}

// Create makes a new configuration seeded with one folder and opens it.
func (s *Session) Create(name, defaultFolder string) error {
	doc, err := s.Store.Create(name, defaultFolder)
	if err != nil {
		return err
	}
	normalized, _ := store.NormalizeName(name)
	if err := s.Store.SetActive(normalized); err != nil {
		return err
	}
	s.replace(normalized, doc)
	return nil
}

// Delete removes a configuration. Deleting the open one closes it.
func (s *Session) Delete(name string) error {
	if err := s.Store.Delete(name); err != nil {
		return err
	}
	if normalized, _ := store.NormalizeName(name); normalized == s.name {
		s.replace("", nil)
	}
	return nil
}

// AddChild adds a folder under parent and returns its path.
func (s *Session) AddChild(parent structure.Path, name string) (structure.Path, error) {
	node, err := s.lookup(parent)
	if err != nil {
		return nil, err
	}
	if _, err := node.AddChild(name); err != nil {
		return nil, err
	}
	return parent.Join(name), s.save("add", parent.Join(name))
}

// Remove deletes the folder at p with its subtree.
func (s *Session) Remove(p structure.Path) error {
	if p.IsRoot() {
		return structure.ErrRoot
	}
	parent, err := s.lookup(p.Parent())
	if err != nil {
		return err
	}
	if err := parent.RemoveChild(p.Base()); err != nil {
		return errors.Wrapf(err, "remove %s", p)
	}
	return s.save("remove", p)
}

// SetIcon sets the folder's icon reference. An empty ref clears it.
func (s *Session) SetIcon(p structure.Path, ref string) error {
	if p.IsRoot() {
		return structure.ErrRoot
	}
	node, err := s.lookup(p)
	if err != nil {
		return err
	}
	node.Icon = ref
	return s.save("icon", p)
}

// Preview describes an icon source through the session's preview cache.
func (s *Session) Preview(path string) (iconlib.Preview, error) {
	return s.Icons.Preview(path)
}

func (s *Session) lookup(p structure.Path) (*structure.Node, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	return s.doc.Lookup(p)
}

func (s *Session) save(op string, p structure.Path) error {
	level.Debug(log.With(s.Logger, "method", "save")).Log("event", "session.mutated", "op", op, "path", p.String())
	return s.Store.Save(s.doc, s.name)
}

// replace swaps the open document. Previews belong to the previous
// configuration and are dropped.
func (s *Session) replace(name string, doc *structure.Document) {
	s.name = name
	s.doc = doc
	if s.Icons != nil {
		s.Icons.Reset()
	}
	level.Debug(log.With(s.Logger, "method", "replace")).Log("event", "session.opened", "name", name)
}
