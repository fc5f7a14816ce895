package structure

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jeanhaley32/treeicon/internal/apperr"
)

// outline flattens a document into one line per folder so trees compare as slices.
func outline(doc *Document) []string {
	var lines []string
	_ = doc.Walk(func(p Path, n *Node) error {
		line := p.String()
		if n.Icon != "" {
			line += " [" + n.Icon + "]"
		}
		lines = append(lines, line)
		return nil
	})
	return lines
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		contents    string
		expect      []string
		expectError bool
	}{
		{
			name:     "empty object",
			contents: `{}`,
			expect:   nil,
		},
		{
			name:     "empty folders",
			contents: `{"folders": {}}`,
			expect:   nil,
		},
		{
			name:     "scenario",
			contents: `{"folders": {"Projects": {"_icon": "icons/star.png", "2024": {}}}}`,
			expect:   []string{"Projects [icons/star.png]", "Projects/2024"},
		},
		{
			name:     "order preserved",
			contents: `{"folders": {"zeta": {}, "alpha": {"b": {}, "a": {}}, "mid": {}}}`,
			expect:   []string{"zeta", "alpha", "alpha/b", "alpha/a", "mid"},
		},
		{
			name:     "reserved keys skipped",
			contents: `{"folders": {"A": {"_color": "red", "_tags": ["x"], "B": {}}}}`,
			expect:   []string{"A", "A/B"},
		},
		{
			name:        "malformed json",
			contents:    `{"folders": {`,
			expectError: true,
		},
		{
			name:        "empty file",
			contents:    ``,
			expectError: true,
		},
		{
			name:        "folder is not an object",
			contents:    `{"folders": {"A": "oops"}}`,
			expectError: true,
		},
		{
			name:        "icon is not a string",
			contents:    `{"folders": {"A": {"_icon": 3}}}`,
			expectError: true,
		},
		{
			name:        "top level is an array",
			contents:    `[]`,
			expectError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := require.New(t)

			doc, err := Decode([]byte(test.contents))
			if test.expectError {
				req.Error(err)
				return
			}
			req.NoError(err)
			req.Equal(test.expect, outline(doc))
		})
	}
}

func TestRoundTripNonASCII(t *testing.T) {
	req := require.New(t)

	doc := NewDocument()
	work, err := doc.Root.AddChild("工作")
	req.NoError(err)
	work.Icon = "图标/星星.png"
	_, err = work.AddChild("2024 <Q1> & Q2")
	req.NoError(err)
	_, err = doc.Root.AddChild("Ünïcødé")
	req.NoError(err)

	data, err := doc.Encode()
	req.NoError(err)

	text := string(data)
	req.Contains(text, `"工作"`)
	req.Contains(text, `"图标/星星.png"`)
	req.Contains(text, `"2024 <Q1> & Q2"`)
	req.NotContains(text, `\u`)
	req.True(strings.HasPrefix(text, "{\n    \"folders\": {\n        \"工作\": {"), text)

	back, err := Decode(data)
	req.NoError(err)
	req.Equal(outline(doc), outline(back))
}

func TestRoundTripKeepsReservedMetadata(t *testing.T) {
	req := require.New(t)

	doc, err := Decode([]byte(`{"folders": {"A": {"_note": {"by": "me"}, "B": {}}}}`))
	req.NoError(err)

	a, err := doc.Lookup(Path{"A"})
	req.NoError(err)
	req.Equal([]string{"_note"}, a.MetaKeys())
	req.Equal(1, a.Len())

	data, err := doc.Encode()
	req.NoError(err)
	req.Contains(string(data), `"_note": {`)
	req.Contains(string(data), `"by": "me"`)
}

func TestAddChild(t *testing.T) {
	req := require.New(t)
	root := NewNode("")

	_, err := root.AddChild("")
	req.Equal(ErrEmptyName, err)

	_, err = root.AddChild("_icon")
	req.True(errors.Is(err, ErrReservedName))

	_, err = root.AddChild("A")
	req.NoError(err)
	_, err = root.AddChild("A")
	req.True(errors.Is(err, ErrDuplicateName))
}

func TestRemoveThenReaddDoesNotResurrectChildren(t *testing.T) {
	req := require.New(t)

	doc, err := Decode([]byte(`{"folders": {"A": {"old": {"deeper": {}}}, "B": {}}}`))
	req.NoError(err)

	req.NoError(doc.Root.RemoveChild("A"))
	_, err = doc.Root.AddChild("A")
	req.NoError(err)

	data, err := doc.Encode()
	req.NoError(err)
	back, err := Decode(data)
	req.NoError(err)
	req.Equal([]string{"B", "A"}, outline(back))
}

func TestLookupMissing(t *testing.T) {
	req := require.New(t)
	doc := Seed("A")

	_, err := doc.Lookup(Path{"A", "nope", "x"})
	var notFound *apperr.NotFoundError
	req.True(errors.As(err, &notFound))
	req.Equal("A/nope", notFound.Path)

	err = doc.Root.RemoveChild("missing")
	req.True(errors.As(err, &notFound))
}

func TestWalkSkipChildren(t *testing.T) {
	req := require.New(t)
	doc, err := Decode([]byte(`{"folders": {"A": {"A1": {}}, "B": {"B1": {}}}}`))
	req.NoError(err)

	var seen []string
	err = doc.Walk(func(p Path, n *Node) error {
		seen = append(seen, p.String())
		if n.Name == "A" {
			return SkipChildren
		}
		return nil
	})
	req.NoError(err)
	req.Equal([]string{"A", "B", "B/B1"}, seen)
	req.Equal(4, doc.Count())
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in     string
		expect Path
	}{
		{in: "", expect: Path{}},
		{in: "/", expect: Path{}},
		{in: "Projects", expect: Path{"Projects"}},
		{in: "/Projects/2024/", expect: Path{"Projects", "2024"}},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			req := require.New(t)
			p := ParsePath(test.in)
			req.Equal(test.expect, p)
		})
	}

	p := ParsePath("a/b")
	req := require.New(t)
	req.Equal("b", p.Base())
	req.Equal(Path{"a"}, p.Parent())
	req.Equal("a/b/c", p.Join("c").String())
	req.Equal("/", Path{}.String())
	req.True(Path{}.IsRoot())
}

func TestYAML(t *testing.T) {
	req := require.New(t)
	doc, err := Decode([]byte(`{"folders": {"Projects": {"_icon": "icons/star.png", "2024": {}}, "Empty": {}}}`))
	req.NoError(err)

	out, err := doc.YAML()
	req.NoError(err)

	text := string(out)
	req.True(strings.HasPrefix(text, "folders:\n  Projects:\n    _icon: icons/star.png\n"), text)
	req.Contains(text, "2024")
	req.Contains(text, "  Empty: {}\n")
	req.Less(strings.Index(text, "Projects"), strings.Index(text, "Empty"))
}
