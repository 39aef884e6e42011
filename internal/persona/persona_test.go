package persona

import (
	"regexp"
	"strings"
	"testing"

	"github.com/abhisek/anamnesis/internal/rng"
)

func TestNeutralIsIdentity(t *testing.T) {
	p, ok := Default().Lookup(NeutralID)
	if !ok {
		t.Fatal("neutral missing from default set")
	}
	if len(p.Rules) != 0 {
		t.Fatalf("neutral has %d rules", len(p.Rules))
	}
	inputs := []string{"", "It's a bit sore.", "I'm really bad, very scared.", "  spaced  "}
	for _, in := range inputs {
		if got := p.Transform(in, rng.Always(0)); got != in {
			t.Errorf("Transform(%q) = %q", in, got)
		}
	}
}

func TestLookup_UnknownFallsBackToNeutral(t *testing.T) {
	p, ok := Default().Lookup("pirate")
	if ok {
		t.Error("unknown id reported as found")
	}
	if p.ID != NeutralID {
		t.Errorf("fallback = %s, want neutral", p.ID)
	}
}

func TestSubstitution(t *testing.T) {
	r := Substitution{Pattern: regexp.MustCompile(`\bvery\b`), Replacement: "somewhat"}
	if got := r.Apply("very very sore, everything", nil); got != "somewhat somewhat sore, everything" {
		t.Errorf("got %q", got)
	}
}

func TestClause(t *testing.T) {
	c := Clause{Probability: 0.5, Clauses: []string{"A.", "B."}}

	if got := c.Apply("Yes.", &rng.Scripted{Floats: []float64{0.9}}); got != "Yes." {
		t.Errorf("missed draw changed text: %q", got)
	}
	if got := c.Apply("Yes.", &rng.Scripted{Floats: []float64{0.1}, Ints: []int{1}}); got != "Yes. B." {
		t.Errorf("got %q, want %q", got, "Yes. B.")
	}

	c.Prepend = true
	if got := c.Apply("Yes.", &rng.Scripted{Floats: []float64{0.1}}); got != "A. Yes." {
		t.Errorf("got %q, want %q", got, "A. Yes.")
	}
}

func TestStoicSoftens(t *testing.T) {
	p, _ := Default().Lookup("stoic")
	got := p.Transform("It's really bad and I'm very scared.", &rng.Scripted{})
	if strings.Contains(got, "really bad") || strings.Contains(got, "very") {
		t.Errorf("stoic did not soften: %q", got)
	}
}

func TestSubstitutionsIgnoreCase(t *testing.T) {
	tests := []struct {
		persona, in, gone, want string
	}{
		{"stoic", "Very sharp.", "Very", "somewhat sharp."},
		{"stoic", "It hurts A lot.", "A lot", "It hurts a little."},
		{"anxious", "Sometimes it aches.", "Sometimes", "more and more it aches."},
		{"anxious", "A bit sore.", "A bit", "really sore."},
	}
	for _, tt := range tests {
		p, _ := Default().Lookup(tt.persona)
		got := p.Transform(tt.in, &rng.Scripted{})
		if strings.Contains(got, tt.gone) || !strings.HasPrefix(got, tt.want) {
			t.Errorf("%s: Transform(%q) = %q, want prefix %q", tt.persona, tt.in, got, tt.want)
		}
	}
}

func TestTransformReproducible(t *testing.T) {
	set := Default()
	for _, p := range set.All() {
		a := p.Transform("I sweat a lot and it hurts a bit.", rng.New(99))
		b := p.Transform("I sweat a lot and it hurts a bit.", rng.New(99))
		if a != b {
			t.Errorf("%s: %q != %q with the same seed", p.ID, a, b)
		}
	}
}

func TestAssign(t *testing.T) {
	set, err := NewSet(
		&Profile{ID: "a", Weight: 1},
		&Profile{ID: "zero", Weight: 0},
		&Profile{ID: "b", Weight: 3},
	)
	if err != nil {
		t.Fatal(err)
	}
	// NewSet appends neutral with weight 1, so the buckets are
	// a [0,1) b [1,4) neutral [4,5).
	tests := []struct {
		draw float64
		want string
	}{
		{0.0, "a"},
		{0.19, "a"},
		{0.2, "b"},
		{0.79, "b"},
		{0.8, NeutralID},
		{0.999999, NeutralID},
	}
	for _, tt := range tests {
		if got := set.Assign(rng.Always(tt.draw)); got.ID != tt.want {
			t.Errorf("Assign(%v) = %s, want %s", tt.draw, got.ID, tt.want)
		}
	}
}

func TestAssignDistribution(t *testing.T) {
	set := Default()
	src := rng.New(3)
	counts := map[string]int{}
	for range 2000 {
		counts[set.Assign(src).ID]++
	}
	for _, p := range set.All() {
		if p.Weight > 0 && counts[p.ID] == 0 {
			t.Errorf("%s never assigned in 2000 draws", p.ID)
		}
	}
}

func TestNewSet_Duplicate(t *testing.T) {
	if _, err := NewSet(&Profile{ID: "x"}, &Profile{ID: "x"}); err == nil {
		t.Error("expected duplicate error")
	}
}

func TestParse_BadPattern(t *testing.T) {
	doc := []byte(`schema_version: "1.0.0"
personas:
  - id: broken
    weight: 1
    rules:
      - pattern: '(unclosed'
        replace: x
`)
	if _, err := Parse("bad.yaml", doc); err == nil {
		t.Error("expected compile error")
	}
}
