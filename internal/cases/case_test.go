package cases

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/anamnesis/internal/pack"
	"github.com/abhisek/anamnesis/internal/questions"
)

func TestBinding(t *testing.T) {
	c := &Case{
		ChiefComplaint: "chest pain",
		Bindings:       map[string]string{"duration": "two hours", "location": ""},
	}

	tests := []struct {
		key       string
		want      string
		wantBound bool
	}{
		{"duration", "two hours", true},
		{"chief_complaint", "chest pain", true},
		{"location", DefaultBindings["location"], false},
		{"medication", "nothing regularly", false},
		{"no_such_key", GenericBinding, false},
	}
	for _, tt := range tests {
		got, bound := c.Binding(tt.key)
		if got != tt.want || bound != tt.wantBound {
			t.Errorf("Binding(%q) = %q, %v; want %q, %v", tt.key, got, bound, tt.want, tt.wantBound)
		}
	}
}

func TestMissingDurationDefault(t *testing.T) {
	got, bound := (&Case{}).Binding("duration")
	if bound || got != "a while" {
		t.Errorf("got %q, %v; want \"a while\", false", got, bound)
	}
}

func TestEveryQuestionPlaceholderHasDefault(t *testing.T) {
	for _, d := range questions.Default().All() {
		for _, p := range questions.Placeholders(d) {
			if _, ok := DefaultBindings[p]; !ok && p != "chief_complaint" {
				t.Errorf("%s uses {%s} which has no default binding", d.ID, p)
			}
		}
	}
}

func TestDefaultLibrary(t *testing.T) {
	lib := Default()
	require.NotEmpty(t, lib.All())

	c := lib.Get("fatigue")
	require.NotNil(t, c)
	require.NotNil(t, c.Doorknob)
	assert.Equal(t, "chest discomfort", c.Doorknob.Symptom)
	assert.True(t, c.Doorknob.RedFlag)
	assert.True(t, c.HasScenarioTag("Chronic"))

	ids := lib.IDs()
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	packYAML := `schema_version: "1.0.0"
cases:
  - id: chest-pain
    chief_complaint: chest tightness
  - id: cough
    chief_complaint: cough
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(packYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	lib, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "chest tightness", lib.Get("chest-pain").ChiefComplaint)
	assert.NotNil(t, lib.Get("cough"))
	assert.NotNil(t, lib.Get("fatigue"))
}

func TestLoad_InvalidPack(t *testing.T) {
	dir := t.TempDir()
	bad := "schema_version: \"2.0.0\"\ncases: []\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte(bad), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pack.ErrIncompatibleVersion))
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
