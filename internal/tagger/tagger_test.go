package tagger

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultRules(t *testing.T) {
	tg := Default()
	tests := []struct {
		input string
		want  Tag
	}{
		{"Any family history of heart disease?", Tag{DomainRiskFactorsCardiac, "family_history"}},
		{"Did your father have a heart attack?", Tag{DomainRiskFactorsCardiac, "family_history"}},
		{"Any family history of illness?", Tag{DomainFamilyHistory, "general"}},
		{"Any heart disease yourself?", Tag{DomainPastMedical, "conditions"}},
		{"Do you have high blood pressure?", Tag{DomainRiskFactorsCardiac, "hypertension"}},
		{"When did this start?", Tag{DomainHPI, "onset"}},
		{"Where is the pain?", Tag{DomainHPI, "location"}},
		{"Does the pain spread anywhere?", Tag{DomainHPI, "radiation"}},
		{"What does it feel like?", Tag{DomainHPI, "character"}},
		{"How severe is the pain?", Tag{DomainHPI, "severity"}},
		{"How long does it last?", Tag{DomainHPI, "timing"}},
		{"What makes it worse?", Tag{DomainHPI, "aggravating"}},
		{"What makes it better?", Tag{DomainHPI, "alleviating"}},
		{"Any burning when peeing?", Tag{DomainROS, "genitourinary"}},
		{"Are you short of breath?", Tag{DomainROS, "respiratory"}},
		{"Do you smoke?", Tag{DomainSocialHistory, "smoking"}},
		{"Do you drink alcohol?", Tag{DomainSocialHistory, "alcohol"}},
		{"What do you do for work?", Tag{DomainSocialHistory, "occupation"}},
		{"What do you do for a living?", Tag{DomainSocialHistory, "occupation"}},
		{"Who do you live with?", Tag{DomainSocialHistory, "living"}},
		{"How long have you had this pain?", Tag{DomainHPI, "onset"}},
		{"How long has this been going on?", Tag{DomainHPI, "onset"}},
		{"Does your chest hurt when you walk upstairs?", Tag{DomainHPI, "aggravating"}},
		{"Is it worse on exertion?", Tag{DomainHPI, "aggravating"}},
		{"Do you have any medical problems?", Tag{DomainPastMedical, "conditions"}},
		{"Any pain when you pee?", Tag{DomainROS, "genitourinary"}},
		{"Do you have any allergies?", Tag{DomainMedications, "allergies"}},
		{"What medications do you take?", Tag{DomainMedications, "current"}},
		{"What brings you in today?", Tag{DomainChiefComplaint, "opening"}},
		{"anything else?", Tag{Other, Other}},
		{"", Tag{Other, Other}},
	}
	for _, tt := range tests {
		if got := tg.Tag(tt.input); got != tt.want {
			t.Errorf("Tag(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestFirstMatchWins(t *testing.T) {
	tg := New([]Rule{
		{Name: "specific", Match: All(Any("family"), Any("heart")), Tag: Tag{"a", "1"}},
		{Name: "general", Match: Any("family"), Tag: Tag{"b", "1"}},
		{Name: "heart", Match: Any("heart"), Tag: Tag{"c", "1"}},
	})

	tag, rule := tg.TagWithRule("Family HEART history")
	if rule != "specific" || tag != (Tag{"a", "1"}) {
		t.Errorf("got %s via %q, want a/1 via specific", tag, rule)
	}
	if got := tg.Tag("family stuff"); got != (Tag{"b", "1"}) {
		t.Errorf("got %s, want b/1", got)
	}
	if got := tg.Tag("heart"); got != (Tag{"c", "1"}) {
		t.Errorf("got %s, want c/1", got)
	}
	if _, rule := tg.TagWithRule("nothing"); rule != "" {
		t.Errorf("fallback rule name = %q, want empty", rule)
	}
}

func TestChecklist(t *testing.T) {
	tg := New([]Rule{
		{Name: "x", Match: Any("x"), Tag: Tag{"d1", "e1"}},
		{Name: "x2", Match: Any("xx"), Tag: Tag{"d1", "e1"}},
		{Name: "o", Match: Any("o"), Tag: Tag{Other, Other}},
		{Name: "y", Match: Any("y"), Tag: Tag{"d2", "e1"}},
	})
	want := []Tag{{"d1", "e1"}, {"d2", "e1"}}
	if diff := cmp.Diff(want, tg.Checklist()); diff != "" {
		t.Errorf("Checklist() mismatch (-want +got):\n%s", diff)
	}
}

func TestDomainLabelsCoverChecklist(t *testing.T) {
	for _, tag := range Default().Checklist() {
		if DomainLabels[tag.Domain] == "" {
			t.Errorf("domain %q has no label", tag.Domain)
		}
	}
}

func TestNot(t *testing.T) {
	p := All(Any("pain"), Not(Any("chest")))
	if !p("back pain") || p("chest pain") {
		t.Error("Not did not invert")
	}
}

func TestParseTag(t *testing.T) {
	for _, tag := range Default().Checklist() {
		if got := ParseTag(tag.String()); got != tag {
			t.Errorf("ParseTag(%q) = %v", tag.String(), got)
		}
	}
	for _, in := range []string{"", "hpi", "/onset", "hpi/"} {
		if got := ParseTag(in); !got.IsOther() {
			t.Errorf("ParseTag(%q) = %v, want other", in, got)
		}
	}
}
