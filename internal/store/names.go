package store

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/jeanhaley32/treeicon/internal/constants"
)

// Pre-compiled regexes for name checks (compiled once at package init)
var (
	pathSepRegex    = regexp.MustCompile(`[/\\]`)
	controlRegex    = regexp.MustCompile(`[\x00-\x1f]`)
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// Maximum length for configuration names
const maxNameLength = 100

// ErrInvalidName is returned for configuration names that cannot become a file name.
var ErrInvalidName = errors.New("invalid configuration name")

// NormalizeName turns a user-supplied configuration name into its canonical
// form: surrounding space trimmed, inner runs of space collapsed and the
// .json suffix dropped. Unicode is kept.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, constants.ConfigExt)
	name = multiSpaceRegex.ReplaceAllString(strings.TrimSpace(name), " ")

	switch {
	case name == "", name == ".", name == "..":
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	case pathSepRegex.MatchString(name), controlRegex.MatchString(name):
		return "", errors.Wrapf(ErrInvalidName, "%q contains a path separator or control character", name)
	case strings.HasPrefix(name, "."):
		return "", errors.Wrapf(ErrInvalidName, "%q is a hidden file name", name)
	case len([]rune(name)) > maxNameLength:
		return "", errors.Wrapf(ErrInvalidName, "%q is longer than %d characters", name, maxNameLength)
	}
	return name, nil
}

// FileName returns the file name a normalized configuration is stored under.
func FileName(name string) string {
	return name + constants.ConfigExt
}
