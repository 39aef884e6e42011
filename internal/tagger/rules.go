package tagger

// Coverage domains.
const (
	DomainChiefComplaint     = "chief_complaint"
	DomainHPI                = "hpi"
	DomainRiskFactorsCardiac = "risk_factors_cardiac"
	DomainPastMedical        = "past_medical"
	DomainMedications        = "medications"
	DomainFamilyHistory      = "family_history"
	DomainSocialHistory      = "social_history"
	DomainROS                = "review_of_systems"
	DomainICE                = "patient_perspective"
)

// DomainLabels holds display names for each coverage domain.
var DomainLabels = map[string]string{
	DomainChiefComplaint:     "Chief Complaint",
	DomainHPI:                "History of Present Illness",
	DomainRiskFactorsCardiac: "Cardiac Risk Factors",
	DomainPastMedical:        "Past Medical History",
	DomainMedications:        "Medications & Allergies",
	DomainFamilyHistory:      "Family History",
	DomainSocialHistory:      "Social History",
	DomainROS:                "Review of Systems",
	DomainICE:                "Patient Perspective",
}

var familyWords = Any("family", "father", "mother", "dad", "mom", "parent",
	"brother", "sister", "sibling", "relative", "grandparent", "run in")

// DefaultRules returns the built-in rule cascade. Order matters; see the
// package documentation.
func DefaultRules() []Rule {
	return []Rule{
		// Cardiac risk factors precede family, past medical, and symptom rules.
		{
			Name:  "family-cardiac",
			Match: All(familyWords, Any("heart", "cardiac", "coronary", "stroke", "sudden death")),
			Tag:   Tag{DomainRiskFactorsCardiac, "family_history"},
		},
		{
			Name:  "hypertension",
			Match: Any("blood pressure", "hypertension"),
			Tag:   Tag{DomainRiskFactorsCardiac, "hypertension"},
		},
		{
			Name:  "diabetes",
			Match: Any("diabet", "blood sugar", "sugar level"),
			Tag:   Tag{DomainRiskFactorsCardiac, "diabetes"},
		},
		{
			Name:  "cholesterol",
			Match: Any("cholesterol", "lipid"),
			Tag:   Tag{DomainRiskFactorsCardiac, "cholesterol"},
		},

		{Name: "family", Match: familyWords, Tag: Tag{DomainFamilyHistory, "general"}},

		// Social history.
		{Name: "smoking", Match: Any("smok", "cigar", "tobacco", "vape", "vaping"), Tag: Tag{DomainSocialHistory, "smoking"}},
		{Name: "alcohol", Match: Any("alcohol", "drink", "beer", "wine", "liquor"), Tag: Tag{DomainSocialHistory, "alcohol"}},
		{Name: "recreational-drugs", Match: Any("recreational", "street drug", "illicit", "cannabis", "marijuana", "cocaine", "heroin"), Tag: Tag{DomainSocialHistory, "drugs"}},
		{Name: "occupation", Match: Any("work", "job", "occupation", "employ", "for a living"), Tag: Tag{DomainSocialHistory, "occupation"}},
		{Name: "living", Match: All(Any("live with", "living", "live alone", "home life"), Not(Any("for a living"))), Tag: Tag{DomainSocialHistory, "living"}},

		// Medications and allergies.
		{Name: "allergies", Match: Any("allerg"), Tag: Tag{DomainMedications, "allergies"}},
		{Name: "medications", Match: Any("medication", "medicine", "meds", "pill", "prescri", "supplement", "vitamin", "over the counter"), Tag: Tag{DomainMedications, "current"}},

		// Past medical history.
		{Name: "surgeries", Match: Any("surger", "operation"), Tag: Tag{DomainPastMedical, "surgeries"}},
		{Name: "hospitalizations", Match: Any("hospital", "admitted"), Tag: Tag{DomainPastMedical, "hospitalizations"}},
		{Name: "conditions", Match: Any("medical condition", "medical history", "medical problem", "health problem", "illness", "conditions", "disease", "diagnosed"), Tag: Tag{DomainPastMedical, "conditions"}},

		// Review of systems precedes HPI so "burning when peeing" is urinary.
		{Name: "ros-gu", Match: Any("urin", "peeing", "to pee", "when you pee", "bladder"), Tag: Tag{DomainROS, "genitourinary"}},
		{Name: "ros-gi", Match: Any("nausea", "vomit", "bowel", "stool", "diarrh", "constipat", "throw up", "throwing up", "threw up"), Tag: Tag{DomainROS, "gastrointestinal"}},
		{Name: "ros-respiratory", Match: Any("breath", "cough", "wheez", "winded"), Tag: Tag{DomainROS, "respiratory"}},
		{Name: "ros-constitutional", Match: Any("fever", "chill", "sweat", "weight", "appetite", "temperature", "fatigue", "tired"), Tag: Tag{DomainROS, "constitutional"}},
		{Name: "ros-neuro", Match: Any("headache", "migraine", "dizz", "numb", "tingl", "vision", "faint"), Tag: Tag{DomainROS, "neurological"}},

		// History of present illness. Radiation precedes location because
		// "anywhere" contains "where".
		{Name: "onset", Match: Any("when did", "start", "began", "begin", "how long ago", "how long have you", "how long has", "since when", "first notice", "onset"), Tag: Tag{DomainHPI, "onset"}},
		{Name: "radiation", Match: Any("radiat", "spread", "move anywhere", "go anywhere", "travel"), Tag: Tag{DomainHPI, "radiation"}},
		{Name: "location", Match: Any("where", "location", "point to", "which part"), Tag: Tag{DomainHPI, "location"}},
		{Name: "character", Match: Any("feel like", "describe", "sharp", "dull", "burning", "pressure", "kind of pain", "type of pain"), Tag: Tag{DomainHPI, "character"}},
		{Name: "severity", Match: Any("severe", "how bad", "scale", "out of ten", "out of 10", "rate the", "rate it"), Tag: Tag{DomainHPI, "severity"}},
		{Name: "timing", Match: Any("come and go", "comes and goes", "constant", "intermittent", "all the time", "how often", "how long does", "last"), Tag: Tag{DomainHPI, "timing"}},
		{Name: "aggravating", Match: Any("worse", "aggravat", "trigger", "when you walk", "stairs", "exert", "exercis"), Tag: Tag{DomainHPI, "aggravating"}},
		{Name: "alleviating", Match: Any("better", "reliev", "eases", "ease it", "ease the", "anything help", "helps"), Tag: Tag{DomainHPI, "alleviating"}},
		{Name: "associated", Match: Any("associated", "other symptom", "alongside"), Tag: Tag{DomainHPI, "associated_symptoms"}},
		{Name: "prior-episodes", Match: Any("before", "previous", "happened again"), Tag: Tag{DomainHPI, "prior_episodes"}},

		// Patient perspective and openers.
		{Name: "concerns", Match: Any("worr", "afraid", "concern", "expect", "ideas about", "think is going on"), Tag: Tag{DomainICE, "concerns"}},
		{Name: "chief-complaint", Match: Any("brings you", "what seems", "problem", "why are you here", "how can i help", "what happened"), Tag: Tag{DomainChiefComplaint, "opening"}},
	}
}
