package hierarchy_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/plus3/flapper/hierarchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestEngine(t *testing.T) {
	nodes := hierarchy.Engine()
	require.Len(t, nodes, 15)
	assert.Equal(t, "ActivePowerUp", nodes[0].Name)
	assert.Equal(t, "struct_active_power_up.html", nodes[0].Link)
	assert.Nil(t, nodes[0].Children)

	component := hierarchy.Find(nodes, "Component")
	require.NotNil(t, component)
	require.Len(t, component.Children, 2)
	assert.Equal(t, "PhysicsComponent", component.Children[0].Name)
	assert.Equal(t, "TransformComponent", component.Children[1].Name)

	scene := hierarchy.Find(nodes, "Scene")
	require.NotNil(t, scene)
	assert.Equal(t, []string{"GameOverScene", "MenuScene"}, names(scene.Children))
}

func names(nodes []*hierarchy.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestEveryTypeHasAHome(t *testing.T) {
	count := 0
	hierarchy.Walk(hierarchy.Engine(), func(n *hierarchy.Node, _ int) bool {
		count++
		assert.Contains(t, hierarchy.Homes, n.Name)
		return true
	})
	assert.Equal(t, 19, count)
	assert.Len(t, hierarchy.Homes, 19)
}

func TestRenderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, hierarchy.Render(&buf, "hierarchy", hierarchy.Engine()))
	assert.Equal(t, string(hierarchy.EngineTable()), buf.String())
}

func TestRenderKeepsEmptyChildren(t *testing.T) {
	in := "var t =\n[\n    [ \"A\", \"a.html\", [] ],\n    [ \"B\", \"b.html\", null ]\n];"
	nodes, err := hierarchy.Parse([]byte(in))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.NotNil(t, nodes[0].Children)
	assert.Empty(t, nodes[0].Children)
	assert.Nil(t, nodes[1].Children)

	var buf bytes.Buffer
	require.NoError(t, hierarchy.Render(&buf, "t", nodes))
	assert.Equal(t, in, buf.String())
}

func TestParent(t *testing.T) {
	nodes := hierarchy.Engine()

	parent, ok := hierarchy.Parent(nodes, "MenuScene")
	require.True(t, ok)
	assert.Equal(t, "Scene", parent.Name)

	parent, ok = hierarchy.Parent(nodes, "Pipe")
	assert.True(t, ok)
	assert.Nil(t, parent)

	_, ok = hierarchy.Parent(nodes, "Dragon")
	assert.False(t, ok)
}

func TestWalkDepthAndSkip(t *testing.T) {
	src := `[ [ "A", "a.html", [ [ "B", "b.html", [ [ "C", "c.html", null ] ] ] ] ], [ "D", "d.html", null ] ]`
	nodes, err := hierarchy.Parse([]byte(src))
	require.NoError(t, err)

	var seen []string
	hierarchy.Walk(nodes, func(n *hierarchy.Node, depth int) bool {
		seen = append(seen, strings.Repeat("-", depth)+n.Name)
		return n.Name != "B"
	})
	assert.Equal(t, []string{"A", "-B", "D"}, seen)

	assert.Nil(t, hierarchy.Find(nodes, "C").Children)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"not json":        `var x = [ oops ];`,
		"short entry":     `[ [ "A", "a.html" ] ]`,
		"numeric name":    `[ [ 1, "a.html", null ] ]`,
		"string children": `[ [ "A", "a.html", "B" ] ]`,
		"bad child":       `[ [ "A", "a.html", [ [ "B" ] ] ] ]`,
		"missing equals":  `var x [ ];`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := hierarchy.Parse([]byte(src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, hierarchy.ErrMalformed))
		})
	}
}
