package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestChoice(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect int
	}{
		{name: "default", input: "\n", expect: 0},
		{name: "second", input: "2\n", expect: 1},
		{name: "retry after invalid", input: "9\nabc\n3\n", expect: 2},
		{name: "no trailing newline", input: "3", expect: 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := require.New(t)
			var out bytes.Buffer
			p := New(strings.NewReader(test.input), &out, true)

			got, err := p.Choice("Pick an icon", []string{"(no icon)", "a.png", "b.png"}, 0)
			req.NoError(err)
			req.Equal(test.expect, got)
			req.Contains(out.String(), "  2. a.png")
		})
	}
}

func TestChoiceEOF(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{}, true)
	_, err := p.Choice("Pick", []string{"a"}, 0)
	require.Error(t, err)
}

func TestString(t *testing.T) {
	req := require.New(t)

	got, err := New(strings.NewReader("\n  新文件夹 \n"), &bytes.Buffer{}, true).String("Folder name", "")
	req.NoError(err)
	req.Equal("新文件夹", got)

	got, err = New(strings.NewReader("\n"), &bytes.Buffer{}, true).String("Folder name", "New Folder")
	req.NoError(err)
	req.Equal("New Folder", got)

	_, err = New(strings.NewReader(""), &bytes.Buffer{}, false).String("Folder name", "")
	req.True(errors.Is(err, ErrNotInteractive))
}

func TestConfirm(t *testing.T) {
	req := require.New(t)

	ok, err := New(strings.NewReader("maybe\nYES\n"), &bytes.Buffer{}, true).Confirm("Delete?", false)
	req.NoError(err)
	req.True(ok)

	ok, err = New(strings.NewReader("\n"), &bytes.Buffer{}, true).Confirm("Delete?", false)
	req.NoError(err)
	req.False(ok)

	ok, err = New(strings.NewReader("y\n"), &bytes.Buffer{}, false).Confirm("Delete?", false)
	req.NoError(err)
	req.False(ok, "non-interactive prompts never read")
}
