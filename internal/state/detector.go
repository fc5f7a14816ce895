// Package state inspects an output directory and reports how much of a
// structure document has been materialized there.
package state

import (
	"bytes"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/jeanhaley32/treeicon/internal/constants"
	"github.com/jeanhaley32/treeicon/internal/icon"
	"github.com/jeanhaley32/treeicon/internal/materialize"
	"github.com/jeanhaley32/treeicon/internal/structure"
)

// FolderState represents the on-disk state of one folder of a document.
type FolderState struct {
	Path           structure.Path
	Dir            string
	Exists         bool
	IconConfigured bool
	IconPresent    bool
	// MetadataPresent is true when desktop.ini exists; MetadataCurrent when
	// it also points at the configured icon.
	MetadataPresent bool
	MetadataCurrent bool
}

// Complete reports whether the folder needs no further materialization.
func (s FolderState) Complete() bool {
	if !s.Exists {
		return false
	}
	if !s.IconConfigured {
		return true
	}
	return s.IconPresent && s.MetadataCurrent
}

// Detector checks a document against an output directory.
type Detector struct {
	fs        afero.Afero
	outputDir string
	encoding  string
}

// NewDetector creates a new state detector. encoding is the code page
// desktop.ini files are expected in.
func NewDetector(fs afero.Afero, outputDir, encoding string) *Detector {
	return &Detector{
		fs:        fs,
		outputDir: outputDir,
		encoding:  encoding,
	}
}

// Detect checks every folder of doc, in document order. Subfolders of a
// missing folder are reported as missing without touching the disk.
func (d *Detector) Detect(doc *structure.Document) []FolderState {
	states := []FolderState{}
	_ = doc.Walk(func(p structure.Path, n *structure.Node) error {
		state := d.checkFolder(p, n)
		states = append(states, state)
		if !state.Exists {
			d.appendMissing(&states, p, n)
			return structure.SkipChildren
		}
		return nil
	})
	return states
}

func (d *Detector) checkFolder(p structure.Path, n *structure.Node) FolderState {
	state := FolderState{
		Path:           p,
		Dir:            d.dir(p),
		IconConfigured: n.Icon != "",
	}

	// Check folder exists
	state.Exists, _ = d.fs.DirExists(state.Dir)
	if !state.Exists || !state.IconConfigured {
		return state
	}

	// Check converted icon
	iconName := icon.IconName(n.Icon)
	state.IconPresent, _ = d.fs.Exists(filepath.Join(state.Dir, iconName))

	// Check desktop.ini and whether it names the icon
	state.MetadataPresent, state.MetadataCurrent = d.checkMetadata(state.Dir, iconName)
	return state
}

func (d *Detector) checkMetadata(dir, iconName string) (present bool, current bool) {
	data, err := d.fs.ReadFile(filepath.Join(dir, constants.MetadataFile))
	if err != nil {
		return false, false
	}
	want, err := materialize.EncodeMetadata(materialize.MetadataContent(iconName), d.encoding)
	if err != nil {
		return true, false
	}
	return true, bytes.Equal(data, want)
}

func (d *Detector) appendMissing(states *[]FolderState, p structure.Path, n *structure.Node) {
	for _, child := range n.Children() {
		cp := p.Join(child.Name)
		*states = append(*states, FolderState{
			Path:           cp,
			Dir:            d.dir(cp),
			IconConfigured: child.Icon != "",
		})
		d.appendMissing(states, cp, child)
	}
}

func (d *Detector) dir(p structure.Path) string {
	return filepath.Join(append([]string{d.outputDir}, p...)...)
}
