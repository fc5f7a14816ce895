package materialize

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/jeanhaley32/treeicon/internal/structure"
)

// Stage names the step of folder materialization that failed.
type Stage string

const (
	StageFolder   Stage = "folder"
	StageIcon     Stage = "icon"
	StageMetadata Stage = "metadata"
)

// Failure is a folder-level error. The rest of the tree is still processed.
type Failure struct {
	Path  structure.Path
	Dir   string
	Stage Stage
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Stage, f.Path, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report summarizes a materialization run. Directory lists hold on-disk paths.
type Report struct {
	Base    string
	DryRun  bool
	Created []string
	// Existing lists folders that were already on disk.
	Existing []string
	Iconed   []string
	Failures []Failure
	// Warnings are shell integration problems; they never fail a folder.
	Warnings []error
}

// Err aggregates every failure, or returns nil when the run fully succeeded.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, f := range r.Failures {
		result = multierror.Append(result, f)
	}
	return result.ErrorOrNil()
}

// FailedStage returns the stage a folder failed at, if any.
func (r *Report) FailedStage(p structure.Path) (Stage, bool) {
	key := p.String()
	for _, f := range r.Failures {
		if f.Path.String() == key {
			return f.Stage, true
		}
	}
	return "", false
}
