package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightOf(inv *Inventory, name string) (float64, bool) {
	for _, s := range inv.Skills() {
		if s.Name == name {
			return s.Weight, s.Weighted
		}
	}
	return 0, false
}

func TestDefault(t *testing.T) {
	inv := Default()

	assert.Equal(t, 20, inv.Len())

	testCases := []struct {
		skill        string
		wantWeight   float64
		wantWeighted bool
	}{
		{skill: "python", wantWeight: 1.5, wantWeighted: true},
		{skill: "aws", wantWeight: 1.3, wantWeighted: true},
		{skill: "machine learning", wantWeight: 2.0, wantWeighted: true},
		{skill: "html", wantWeight: 1.0, wantWeighted: true},
		{skill: "java", wantWeight: DefaultWeight},
		{skill: "c", wantWeight: DefaultWeight},
	}
	for _, tc := range testCases {
		weight, weighted := weightOf(inv, tc.skill)
		assert.Equal(t, tc.wantWeight, weight, tc.skill)
		assert.Equal(t, tc.wantWeighted, weighted, tc.skill)
	}

	assert.Len(t, inv.WeightedSkills(), 12)
	assert.Equal(t, "Complete advanced Python (OOP, DSA)", inv.Hint("python"))
	assert.Equal(t, "", inv.Hint("java"))
	assert.Len(t, inv.Rules(), 7)
}

func TestMentions(t *testing.T) {
	testCases := []struct {
		name string
		text string
		term string
		want bool
	}{
		{name: "plain word", text: "python developer", term: "python", want: true},
		{name: "end of text", text: "we use aws", term: "aws", want: true},
		{name: "multi word term", text: "some machine learning work", term: "machine learning", want: true},
		{name: "framework suffix", text: "reactjs and nodejs", term: "react", want: true},
		{name: "version suffix", text: "html5, css3", term: "html", want: true},
		{name: "inside a longer word", text: "javascript", term: "java", want: true},
		{name: "absent", text: "golang and rust", term: "python", want: false},
		{name: "empty term", text: "anything", term: "", want: false},
		{name: "empty text", text: "", term: "sql", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Mentions(tc.text, tc.term))
		})
	}
}

func TestInventory_Detect(t *testing.T) {
	inv := Default()

	got := inv.Detect("Senior Python engineer with AWS, PostgreSQL and ReactJS. HTML5 too.")
	assert.Equal(t, []string{"python", "c", "react", "sql", "aws", "html"}, got)

	assert.Equal(t, []string{"java", "c", "javascript"}, inv.Detect("JavaScript"))

	assert.Empty(t, inv.Detect(""))
	assert.NotNil(t, inv.Detect(""))
}

func TestNew_NormalizesAndDedupes(t *testing.T) {
	inv := New([]Skill{
		{Name: " Go "},
		{Name: "go", Weight: 3},
		{Name: ""},
		{Name: "Kubernetes", Weight: 1.7},
	}, []Rule{{Keyword: "KUBE", Hint: "Deploy a cluster"}})

	require.Equal(t, 2, inv.Len())
	weight, weighted := weightOf(inv, "go")
	assert.Equal(t, DefaultWeight, weight)
	assert.False(t, weighted)
	weight, weighted = weightOf(inv, "kubernetes")
	assert.Equal(t, 1.7, weight)
	assert.True(t, weighted)
	assert.Equal(t, []Skill{{Name: "kubernetes", Weight: 1.7, Weighted: true, Hint: "Deploy a cluster"}}, inv.WeightedSkills())
	assert.Equal(t, "Deploy a cluster", inv.Hint("kubernetes"))
	assert.Equal(t, "Deploy a cluster", inv.Hint("kube-proxy"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "skills.yaml")
	require.NoError(t, os.WriteFile(valid, []byte("skills:\n  - name: rust\n    weight: 2\n"), 0o644))

	inv, err := Load(valid)
	require.NoError(t, err)
	weight, _ := weightOf(inv, "rust")
	assert.Equal(t, 2.0, weight)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("roadmap: []\n"), 0o644))
	_, err = Load(empty)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	inv, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), inv.Len())
}
