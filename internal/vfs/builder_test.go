package vfs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termfolio/internal/content"
)

func sampleTree(t *testing.T) *Tree {
	t.Helper()
	tree := Build(content.Default())
	require.Empty(t, tree.Missing)
	require.Empty(t, tree.Skipped)
	return tree
}

func TestBuild_RootInDeclaredOrder(t *testing.T) {
	tree := sampleTree(t)

	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, KindDir, root.Kind)
	assert.Equal(t, []string{"about", "education", "skills", "projects", "contact"}, root.Children)
}

func TestBuild_EveryNodeHasDirectoryParent(t *testing.T) {
	tree := sampleTree(t)

	count := 0
	tree.Walk(func(n *Node) {
		count++
		if n.Path == Root {
			return
		}
		parentPath, ok := Parent(n.Path)
		require.True(t, ok)
		parent, ok := tree.Lookup(parentPath)
		require.True(t, ok, "parent of %s missing", n.Path)
		assert.True(t, parent.IsDir(), "parent of %s is not a directory", n.Path)
		assert.Contains(t, parent.Children, n.Name)
	})
	assert.Equal(t, tree.Len(), count, "walk must reach every node")
}

func TestBuild_RecordsInSourceOrder(t *testing.T) {
	tree := sampleTree(t)

	projects, ok := tree.Lookup("~/projects")
	require.True(t, ok)
	assert.Equal(t, []string{"termfolio", "solitaire", "sorting-visualizer"}, projects.Children)

	edu, ok := tree.Lookup("~/education")
	require.True(t, ok)
	assert.Equal(t, []string{"uct", "highschool"}, edu.Children)
}

func TestBuild_FileContents(t *testing.T) {
	snap := &content.Snapshot{
		Personal: &content.Personal{Name: "Ada", Age: 36, Location: "London", Description: "First programmer."},
		Education: []content.Education{
			{ID: "home", Institution: "Private tutors", Year: "1830", Degree: "Mathematics", Details: "Taught by De Morgan."},
		},
		Skills: []content.Skill{{Name: "Maths", Level: 95, Years: 20, Projects: 3}},
		Technologies: []content.TechGroup{
			{Label: "Machines", Items: []string{"Difference Engine", "Analytical Engine"}},
		},
		Projects: []content.Project{
			{ID: "note-g", Title: "Note G", Tech: []string{"Punch cards"}, Lines: 25, Time: "1843", Description: "Bernoulli numbers."},
		},
		Contact: &content.Contact{Email: "ada@example.com", GitHub: "ada", Note: "Letters only."},
	}
	tree := Build(snap)

	tests := []struct {
		path string
		want []string
	}{
		{"~/about", []string{"Name: Ada", "Age: 36", "Location: London", "", "First programmer."}},
		{"~/education/home", []string{
			"Private tutors (1830)", "",
			"Degree: Mathematics",
			"", "Taught by De Morgan.",
		}},
		{"~/skills", []string{
			"Programming Languages:",
			"  • Maths        [█████████░] 95% - 20 years, 3+ projects",
			"",
			"Technologies:",
			"  Machines: Difference Engine, Analytical Engine",
		}},
		{"~/projects/note-g", []string{
			"Note G", "",
			"Language: Punch cards",
			"Lines of Code: ~25",
			"Time: 1843",
			"", "Description: Bernoulli numbers.",
		}},
		{"~/contact", []string{"Email: ada@example.com", "GitHub: github.com/ada", "", "Letters only."}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, ok := tree.Lookup(tt.path)
			require.True(t, ok)
			assert.Equal(t, KindFile, n.Kind)
			if diff := cmp.Diff(tt.want, n.Lines); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_DegradesOnMissingCategories(t *testing.T) {
	tree := Build(&content.Snapshot{
		Personal: &content.Personal{Name: "Ada"},
		Projects: []content.Project{{ID: "p", Title: "P"}},
	})

	assert.Equal(t, []string{"about", "projects"}, tree.Root().Children)
	assert.Equal(t, []string{"education", "skills", "contact"}, tree.Missing)

	_, ok := tree.Lookup("~/education")
	assert.False(t, ok)
}

func TestBuild_NilSnapshot(t *testing.T) {
	tree := Build(nil)

	require.NotNil(t, tree.Root())
	assert.Empty(t, tree.Root().Children)
	assert.Equal(t, content.Categories, tree.Missing)
	assert.Equal(t, 1, tree.Len())
}

func TestBuild_SkipsUnusableIDs(t *testing.T) {
	tree := Build(&content.Snapshot{
		Projects: []content.Project{
			{ID: "ok", Title: "Fine"},
			{ID: "", Title: "No id"},
			{ID: "a/b", Title: "Slash"},
			{ID: "..", Title: "Dots"},
			{ID: "ok", Title: "Duplicate"},
		},
	})

	projects, ok := tree.Lookup("~/projects")
	require.True(t, ok)
	assert.Equal(t, []string{"ok"}, projects.Children)
	require.Len(t, tree.Skipped, 4)
	for _, s := range tree.Skipped {
		assert.True(t, strings.HasPrefix(s, "projects: "), s)
	}

	n, _ := tree.Lookup("~/projects/ok")
	assert.Equal(t, "Fine", n.Label)
}

func TestSkillBar_Clamps(t *testing.T) {
	assert.Equal(t, "[░░░░░░░░░░]", skillBar(-5))
	assert.Equal(t, "[█████░░░░░]", skillBar(59))
	assert.Equal(t, "[██████████]", skillBar(140))
}
