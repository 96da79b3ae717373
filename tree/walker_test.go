package tree

import (
	"testing"

	"github.com/brettbedarf/stshell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to build a leaf with derived name and type tags
func leaf(id, name string) stshell.Leaf {
	return stshell.Leaf{ID: id, Text: name, ResourceType: "SCRIPT", ContentType: "text/plain"}
}

func branch(name string, children ...stshell.ResourceNode) stshell.Branch {
	return stshell.Branch{Text: name, Children: children}
}

// sampleTree mirrors the layout the IDE returns for a small SmartApp
func sampleTree() []stshell.ResourceNode {
	return []stshell.ResourceNode{
		branch("Scripts", leaf("abc", "main.groovy")),
		branch("Resources",
			branch("images",
				leaf("img1", "icon.png"),
				leaf("img2", "icon@2x.png"),
			),
			leaf("css1", "style.css"),
		),
		leaf("top", "README"),
		branch("empty"),
	}
}

func TestFlatten_DocumentOrder(t *testing.T) {
	t.Parallel()

	ids := Flatten(sampleTree())
	assert.Equal(t, []string{"abc", "img1", "img2", "css1", "top"}, ids)
}

func TestFlatten_Deterministic(t *testing.T) {
	t.Parallel()

	nodes := sampleTree()
	first := Flatten(nodes)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Flatten(nodes), "must return the same order on every call")
	}
}

func TestFlatten_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten([]stshell.ResourceNode{}))
	assert.Empty(t, Flatten([]stshell.ResourceNode{branch("a", branch("b"))}), "branches contribute no ids")
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       string
		wantName string
		wantPath string
	}{
		{"abc", "main.groovy", "Scripts"},
		{"img1", "icon.png", "Resources/images"},
		{"img2", "icon@2x.png", "Resources/images"},
		{"css1", "style.css", "Resources"},
		{"top", "README", ""},
	}

	nodes := sampleTree()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			item, ok := Resolve(nodes, tt.id)
			require.True(t, ok)
			assert.Equal(t, &stshell.ItemDetail{
				ID:           tt.id,
				Name:         tt.wantName,
				ResourceType: "SCRIPT",
				ContentType:  "text/plain",
				Path:         tt.wantPath,
			}, item)
		})
	}
}

func TestResolve_LeafMetadata(t *testing.T) {
	t.Parallel()

	nodes := []stshell.ResourceNode{
		branch("A", branch("B", stshell.Leaf{
			ID: "X", Text: "view.html", ResourceType: "VIEW", ContentType: "text/html",
		})),
	}
	item, ok := Resolve(nodes, "X")
	require.True(t, ok)
	assert.Equal(t, "A/B", item.Path)
	assert.Equal(t, "view.html", item.Name)
	assert.Equal(t, "VIEW", item.ResourceType)
	assert.Equal(t, "text/html", item.ContentType)
	assert.Nil(t, item.Data, "content is absent until fetched")
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()

	shapes := map[string][]stshell.ResourceNode{
		"nil":          nil,
		"empty":        {},
		"only-branch":  {branch("a", branch("b"))},
		"sample":       sampleTree(),
		"branch-named": {branch("missing-id")},
	}
	for name, nodes := range shapes {
		t.Run(name, func(t *testing.T) {
			item, ok := Resolve(nodes, "missing-id")
			assert.False(t, ok)
			assert.Nil(t, item)
		})
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	t.Parallel()

	nodes := []stshell.ResourceNode{
		branch("first", leaf("dup", "a.txt")),
		branch("second", leaf("dup", "b.txt")),
	}
	item, ok := Resolve(nodes, "dup")
	require.True(t, ok)
	assert.Equal(t, "first", item.Path)
	assert.Equal(t, "a.txt", item.Name)
}

func TestResolve_SiblingPathsDoNotLeak(t *testing.T) {
	t.Parallel()

	// a failed search through "a" must not leave "a" in the path of "b"'s leaf
	nodes := []stshell.ResourceNode{
		branch("a", leaf("1", "one")),
		branch("b", leaf("2", "two")),
	}
	item, ok := Resolve(nodes, "2")
	require.True(t, ok)
	assert.Equal(t, "b", item.Path)
}

func TestResolvePrefixed(t *testing.T) {
	t.Parallel()

	item, ok := ResolvePrefixed(sampleTree(), "img1", "root")
	require.True(t, ok)
	assert.Equal(t, "root/Resources/images", item.Path)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	item, err := Lookup(sampleTree(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Scripts", item.Path)

	_, err = Lookup(sampleTree(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate(sampleTree()))
	assert.NoError(t, Validate(nil))

	err := Validate([]stshell.ResourceNode{
		leaf("x", "a"),
		branch("d", leaf("x", "b"), leaf("y", "c")),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Contains(t, err.Error(), ": x")
	assert.NotContains(t, err.Error(), ": y")
}

func TestFlatten_MatchesResolvableLeaves(t *testing.T) {
	t.Parallel()

	nodes := sampleTree()
	for _, id := range Flatten(nodes) {
		_, ok := Resolve(nodes, id)
		assert.True(t, ok, "every flattened id must resolve: %s", id)
	}
}
