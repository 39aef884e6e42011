package doorknob

import "strings"

// Category is a chief-complaint family used to pick a routine pool.
type Category string

const (
	CategoryCardiac Category = "cardiac"
	CategoryNeuro   Category = "neuro"
	CategoryGI      Category = "gi"
	CategoryGeneral Category = "general"
)

// categoryKeywords is checked in order; the first category with a keyword
// in the chief complaint wins.
var categoryKeywords = []struct {
	cat      Category
	keywords []string
}{
	{CategoryCardiac, []string{"chest", "heart", "palpitation", "cardiac"}},
	{CategoryNeuro, []string{"head", "dizz", "numb", "weak", "seizure", "vision", "faint"}},
	{CategoryGI, []string{"stomach", "abdom", "belly", "nausea", "vomit", "bowel", "diarrh"}},
}

// Categorize maps a chief complaint onto a routine pool category.
func Categorize(chiefComplaint string) Category {
	lower := strings.ToLower(chiefComplaint)
	for _, ck := range categoryKeywords {
		for _, k := range ck.keywords {
			if strings.Contains(lower, k) {
				return ck.cat
			}
		}
	}
	return CategoryGeneral
}

var routinePools = map[Category][]string{
	CategoryCardiac: {
		"some swelling in my ankles by the evening",
		"a fluttering feeling in my chest now and then",
		"trouble sleeping flat, I need two pillows",
	},
	CategoryNeuro: {
		"some trouble finding words when I'm tired",
		"a bit of ringing in my ears",
		"more trouble sleeping than usual",
	},
	CategoryGI: {
		"some heartburn after big meals",
		"a bit of bloating most evenings",
		"my appetite hasn't been great",
	},
	CategoryGeneral: {
		"a lot of stress at work lately",
		"trouble sleeping",
		"some aches in my knees",
	},
}

type redFlag struct {
	Symptom      string
	TeachingNote string
}

var redFlagPool = []redFlag{
	{
		Symptom:      "chest pain when I walk uphill",
		TeachingNote: "Exertional chest pain disclosed late: screen for stable angina before closing the encounter.",
	},
	{
		Symptom:      "blood in my stool",
		TeachingNote: "Rectal bleeding is a red flag for colorectal pathology and needs further history and examination.",
	},
	{
		Symptom:      "weight loss without trying",
		TeachingNote: "Unintentional weight loss warrants a malignancy and endocrine workup.",
	},
	{
		Symptom:      "thoughts that everyone would be better off without me",
		TeachingNote: "Passive suicidal ideation requires an immediate, direct risk assessment.",
	},
}
