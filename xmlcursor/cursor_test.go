package xmlcursor_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/cvrf-eval/xmlcursor"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<root xmlns="urn:a" xmlns:v="urn:v" lang="en">
  <!-- comment -->
  <first id="1">one</first>
  <v:second>
    <inner>two</inner>
    <empty/>
  </v:second>
  <third>three</third>
</root>`

func TestFromBytes(t *testing.T) {
	c, err := xmlcursor.FromBytes([]byte(sample))
	require.NoError(t, err)

	assert.True(t, c.IsElementNamed("root"))
	assert.Equal(t, 0, c.Depth())
	assert.Equal(t, "en", c.AttrValue("lang"))
	_, ok := c.Attr("v")
	assert.False(t, ok, "namespace declarations are not attributes")

	require.True(t, c.NextElement())
	assert.Equal(t, "first", c.Local())
	assert.Equal(t, 1, c.Depth())
	assert.Equal(t, "one", c.Text())
	assert.Equal(t, "1", c.AttrValue("id"))

	require.True(t, c.Next())
	assert.Equal(t, xmlcursor.Text, c.Kind())
	require.True(t, c.Next())
	assert.Equal(t, xmlcursor.EndElement, c.Kind())
	assert.True(t, c.AtEndOf(1))

	require.True(t, c.NextElement())
	assert.Equal(t, "second", c.Local())
	assert.Equal(t, "v", c.Node().Space)
	assert.Equal(t, "two", c.Text())

	require.True(t, c.Skip())
	require.True(t, c.IsElementNamed("third"))
	assert.Equal(t, "three", c.Text())

	require.True(t, c.Skip())
	assert.True(t, c.AtEndOf(0))
	assert.False(t, c.Next())
	assert.True(t, c.EOF())
	assert.False(t, c.NextElement())
}

func TestCursor_IsEmptyElement(t *testing.T) {
	c, err := xmlcursor.FromBytes([]byte(sample))
	require.NoError(t, err)

	var empties []string
	for !c.EOF() {
		if c.IsEmptyElement() {
			empties = append(empties, c.Local())
		}
		c.Next()
	}
	assert.Equal(t, []string{"empty"}, empties)
}

func TestNew(t *testing.T) {
	root := etree.NewElement("a")
	b := root.CreateElement("b")
	b.CreateAttr("k", "v")
	b.SetText(" x ")
	root.CreateElement("c")

	c := xmlcursor.New(root)
	var got []string
	for !c.EOF() {
		n := c.Node()
		got = append(got, n.Kind.String()+":"+n.Local+n.Text)
		c.Next()
	}
	assert.Equal(t, []string{
		"Element:ax",
		"Element:bx",
		"Text:x",
		"EndElement:b",
		"Element:c",
		"EndElement:c",
		"EndElement:a",
	}, got)
}

func TestFromBytes_Error(t *testing.T) {
	tests := map[string]string{
		"empty":  "",
		"broken": "<a><b></a>",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := xmlcursor.FromBytes([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestFromBytes_Charset(t *testing.T) {
	// "café" in ISO-8859-1
	in := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a>caf\xe9</a>")
	c, err := xmlcursor.FromBytes(in)
	require.NoError(t, err)
	assert.Equal(t, "café", c.Text())
}
