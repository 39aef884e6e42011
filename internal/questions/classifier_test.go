package questions

import "testing"

func TestClassify_CanonicalSelfMatch(t *testing.T) {
	c := NewClassifier(Default())
	for _, d := range Default().All() {
		m := c.Classify(d.Text)
		if !m.Found() {
			t.Errorf("%s: canonical %q did not match (score %d)", d.ID, d.Text, m.Score)
			continue
		}
		if m.Definition.ID != d.ID {
			t.Errorf("%s: canonical %q matched %s", d.ID, d.Text, m.Definition.ID)
		}
		if m.Score < DefaultMinScore {
			t.Errorf("%s: score %d below threshold", d.ID, m.Score)
		}
	}
}

func TestClassify_Phrasings(t *testing.T) {
	c := NewClassifier(Default())
	for _, d := range Default().All() {
		for _, p := range d.Phrasings {
			m := c.Classify(p)
			if !m.Found() || m.Definition.ID != d.ID {
				got := "<none>"
				if m.Found() {
					got = m.Definition.ID
				}
				t.Errorf("%s: phrasing %q matched %s", d.ID, p, got)
			}
		}
	}
}

func TestClassify_Examples(t *testing.T) {
	c := NewClassifier(Default())
	tests := []struct {
		input  string
		wantID string
		score  int
	}{
		{"When did this start?", "onset", ExactScore},
		{"  WHEN did this START!!  ", "onset", ExactScore},
		{"Do you take blood thinners?", "medications", 2},
		{"Tell me, do you smoke at all?", "smoking", ExactScore},
		{"Any family history of heart disease?", "family-cardiac", ExactScore},
		{"What's your job?", "occupation", ExactScore},
	}
	for _, tt := range tests {
		m := c.Classify(tt.input)
		if !m.Found() {
			t.Errorf("Classify(%q): no match, want %s", tt.input, tt.wantID)
			continue
		}
		if m.Definition.ID != tt.wantID {
			t.Errorf("Classify(%q) = %s, want %s", tt.input, m.Definition.ID, tt.wantID)
		}
		if m.Score != tt.score {
			t.Errorf("Classify(%q) score = %d, want %d", tt.input, m.Score, tt.score)
		}
	}
}

func TestClassify_NoMatch(t *testing.T) {
	c := NewClassifier(Default())
	for _, input := range []string{"", "   ", "?!", "hello", "ok"} {
		if m := c.Classify(input); m.Found() {
			t.Errorf("Classify(%q) matched %s", input, m.Definition.ID)
		}
	}
}

func TestClassify_NearMiss(t *testing.T) {
	table, err := NewTable([]Definition{
		{ID: "a", Text: "where is the pain", Responses: map[string][]string{"default": {"x"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := NewClassifier(table).Classify("pain")
	if m.Found() {
		t.Fatal("single word hit should not match")
	}
	if m.NearMiss != "a" || m.Score != 1 {
		t.Errorf("got near miss %q score %d, want a/1", m.NearMiss, m.Score)
	}
}

func TestClassify_TieFirstDeclaredWins(t *testing.T) {
	table, err := NewTable([]Definition{
		{ID: "first", Text: "chest pain", Responses: map[string][]string{"default": {"x"}}},
		{ID: "second", Text: "pain chest", Responses: map[string][]string{"default": {"y"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := NewClassifier(table).Classify("my pain in the chest")
	if !m.Found() || m.Definition.ID != "first" {
		t.Fatalf("got %+v, want first", m)
	}
	if m.Score != 2 {
		t.Errorf("score = %d, want 2", m.Score)
	}
}

func TestClassify_ShortInputWords(t *testing.T) {
	table, err := NewTable([]Definition{
		{ID: "a", Text: "alcohol intake", Responses: map[string][]string{"default": {"x"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	// "a" and "in" are contained in both phrasing words.
	c := NewClassifier(table)
	if m := c.Classify("a in"); !m.Found() || m.Score != 2 {
		t.Errorf("default: got %+v, want a/2", m)
	}

	c.MinInputWordLen = 3
	if m := c.Classify("a in"); m.Score != 0 {
		t.Errorf("min input word len 3: score = %d, want 0", m.Score)
	}
}

func TestClassify_ShortPhrasingWordsIgnored(t *testing.T) {
	table, err := NewTable([]Definition{
		{ID: "a", Text: "is it in", Responses: map[string][]string{"default": {"x"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if m := NewClassifier(table).Classify("it is inside"); m.Score != 0 {
		t.Errorf("score = %d, want 0", m.Score)
	}
}

func TestClassify_CommonWordings(t *testing.T) {
	c := NewClassifier(Default())
	tests := []struct{ input, wantID string }{
		{"What brings you in today?", "chief-complaint"},
		{"What seems to be the problem?", "chief-complaint"},
		{"How long have you had this pain?", "onset"},
		{"When did the pain start?", "onset"},
		{"How long has this been going on?", "onset"},
		{"Where exactly does it hurt?", "location"},
		{"Can you describe the pain?", "character"},
		{"What kind of pain is it?", "character"},
		{"Does the pain go anywhere else?", "radiation"},
		{"On a scale of one to ten, how bad is it?", "severity"},
		{"How much does it hurt out of ten?", "severity"},
		{"Is it there all the time?", "timing"},
		{"Does it come and go?", "timing"},
		{"How long does each episode last?", "duration"},
		{"Does your chest hurt when you walk upstairs?", "aggravating"},
		{"What makes it worse?", "aggravating"},
		{"Does anything make it better?", "alleviating"},
		{"Any other symptoms?", "associated"},
		{"Have you had this before?", "prior-episodes"},
		{"Do you have any medical problems?", "pmh"},
		{"Have you ever had an operation?", "surgeries"},
		{"Have you ever been admitted to hospital?", "hospitalizations"},
		{"What medicines are you on?", "medications"},
		{"Are you allergic to anything?", "allergies"},
		{"Does anyone in your family have heart problems?", "family-cardiac"},
		{"How much alcohol do you drink?", "alcohol"},
		{"What do you do for a living?", "occupation"},
		{"Who do you live with?", "living-situation"},
		{"Any fevers?", "fever"},
		{"Have you lost any weight?", "weight-change"},
		{"Any trouble breathing?", "breathing"},
		{"Any nausea?", "nausea"},
		{"Any change in your bowels?", "bowel"},
		{"Any pain when you pee?", "urinary"},
		{"Do you get headaches?", "headache"},
		{"What are you most worried about?", "concerns"},
	}
	for _, tt := range tests {
		m := c.Classify(tt.input)
		if !m.Found() || m.Definition.ID != tt.wantID {
			t.Errorf("Classify(%q) = %+v, want %s", tt.input, m, tt.wantID)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewClassifier(Default())
	inputs := []string{"where does it hurt", "any allergies to meds", "how are you", "what else"}
	for _, in := range inputs {
		first := c.Classify(in)
		for range 20 {
			if got := c.Classify(in); got != first {
				t.Fatalf("Classify(%q) changed: %+v then %+v", in, first, got)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"What's   wrong?", "whats wrong"},
		{"Pain—sharp, or dull?", "pain sharp or dull"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
