// Package predict derives probabilistic insights from construct scores: a
// rule battery over the construct profile, a composite risk score/level, and
// a weekly usage estimate. Everything here is a pure function of its inputs.
package predict

import "math"

// Insight is one fired rule: a titled, probability-scored statement with a
// recommendation.
type Insight struct {
	ID             string `json:"id"`
	Category       string `json:"category"` // risk|behavior|wellbeing|positive
	Title          string `json:"title"`
	Description    string `json:"description"`
	Probability    int    `json:"probability"` // 0-100
	Severity       string `json:"severity"`    // low|moderate|high|critical
	Icon           string `json:"icon"`
	Recommendation string `json:"recommendation"`
}

// scores gives rule functions keyed access to construct means, defaulting to
// the scale midpoint-ish neutral 3 for constructs with no responses.
type scores map[string]float64

func (s scores) at(id string) float64 {
	if v, ok := s[id]; ok && v != 0 {
		return v
	}
	return 3
}

// rule is one entry of the predictive battery. Rules are independent and
// order-insensitive; the engine evaluates them uniformly. subscore computes
// the composite input, gate decides whether the rule fires (nil means
// subscore > threshold), probability and severity shape the emitted insight.
type rule struct {
	id             string
	category       string
	title          string
	description    string
	icon           string
	recommendation string
	threshold      float64
	subscore       func(s scores) float64
	gate           func(s scores, sub float64) bool
	probability    func(s scores, sub float64) int
	severity       func(s scores, sub float64) string
	riskFactor     string // appended to risk factors when fired
	protective     []string
	// missThreshold, when >0, appends missProtective if the subscore falls
	// below it (the rule's healthy counterpart).
	missThreshold  float64
	missProtective string
}

func roundProb(v float64) int { return int(math.Round(v)) }

var ruleBattery = []rule{
	{
		id:       "escalation",
		category: "risk",
		title:    "Escalation Risk",
		description: "Your pattern suggests difficulty regulating usage. Without intervention, " +
			"scrolling time may increase over the next 3 months.",
		icon:           "TrendingUp",
		recommendation: "Set daily time limits using built-in phone features and track your progress weekly.",
		threshold:      4.5,
		subscore:       func(s scores) float64 { return (s.at("control") + s.at("compulsive")) / 2 },
		probability:    func(_ scores, sub float64) int { return roundProb(45 + (sub-4.5)*20) },
		severity: func(_ scores, sub float64) string {
			if sub > 5.5 {
				return "critical"
			}
			return "high"
		},
		riskFactor:     "Low perceived control over scrolling behavior",
		missThreshold:  2.5,
		missProtective: "Strong self-regulation abilities",
	},
	{
		id:       "sleep",
		category: "behavior",
		title:    "Sleep Pattern Impact",
		description: "Based on your time distortion and life interference scores, you likely " +
			"experience delayed sleep onset or reduced sleep quality.",
		icon:           "Moon",
		recommendation: "Establish a phone-free period 1 hour before bed. Keep your phone outside the bedroom.",
		threshold:      4.0,
		subscore:       func(s scores) float64 { return s.at("interference")*0.6 + s.at("time")*0.4 },
		probability:    func(_ scores, sub float64) int { return roundProb(40 + (sub-4.0)*15) },
		severity: func(_ scores, sub float64) string {
			if sub > 5.0 {
				return "high"
			}
			return "moderate"
		},
		riskFactor: "Evening/nighttime scrolling affecting sleep",
	},
	{
		id:       "mood",
		category: "wellbeing",
		title:    "Mood Vulnerability",
		description: "Your emotional sensitivity to content combined with coping-driven scrolling " +
			"creates a cycle that may worsen anxiety or low mood.",
		icon:           "Cloud",
		recommendation: "Practice the \"STOP\" technique: Stop, Take a breath, Observe your feelings, Proceed mindfully.",
		threshold:      4.0,
		subscore:       func(s scores) float64 { return s.at("emotional")*0.5 + s.at("coping")*0.5 },
		probability:    func(_ scores, sub float64) int { return roundProb(50 + (sub-4.0)*18) },
		severity: func(_ scores, sub float64) string {
			if sub > 5.0 {
				return "high"
			}
			return "moderate"
		},
		riskFactor: "Using scrolling to cope with negative emotions",
	},
	{
		id:       "fatigue",
		category: "wellbeing",
		title:    "News Fatigue Syndrome",
		description: "High emotional reactivity plus awareness of harm indicates you may be " +
			"experiencing or developing news fatigue and information overload.",
		icon:           "Battery",
		recommendation: "Schedule specific \"news windows\" (e.g., 15 min morning, 15 min evening) instead of constant checking.",
		subscore:       func(s scores) float64 { return s.at("emotional") },
		gate:           func(s scores, _ float64) bool { return s.at("emotional") > 4.0 && s.at("awareness") > 4.0 },
		probability:    func(s scores, _ float64) int { return roundProb(55 + (s.at("emotional")-4.0)*10) },
		severity: func(s scores, _ float64) string {
			if s.at("emotional") > 5.0 {
				return "high"
			}
			return "moderate"
		},
	},
	{
		id:       "productivity",
		category: "behavior",
		title:    "Productivity Impact",
		description: "Your compulsive checking patterns suggest likely work interruptions and " +
			"reduced focus during tasks.",
		icon:           "Clock",
		recommendation: "Use \"Do Not Disturb\" mode during work blocks. Try the Pomodoro technique: 25 min work, 5 min break.",
		threshold:      3.5,
		subscore:       func(s scores) float64 { return s.at("interference")*0.6 + s.at("compulsive")*0.4 },
		probability:    func(_ scores, sub float64) int { return roundProb(35 + (sub-3.5)*20) },
		severity: func(_ scores, sub float64) string {
			if sub > 4.5 {
				return "high"
			}
			return "moderate"
		},
		riskFactor: "Compulsive checking interfering with focused work",
	},
	{
		id:       "recovery",
		category: "positive",
		title:    "High Recovery Potential",
		description: "Your strong awareness combined with maintained self-control suggests " +
			"excellent potential for positive behavior change.",
		icon:           "Sunrise",
		recommendation: "Channel your awareness into action. Start with one small change this week.",
		subscore:       func(s scores) float64 { return s.at("awareness") },
		gate:           func(s scores, _ float64) bool { return s.at("awareness") > 4.0 && s.at("control") < 3.5 },
		probability:    func(s scores, _ float64) int { return roundProb(60 + (s.at("awareness")-4.0)*15) },
		severity:       func(scores, float64) string { return "low" },
		protective: []string{
			"Strong awareness of scrolling's impact",
			"Maintained ability to self-regulate",
		},
	},
}

// healthyHabitsRule fires on the overall score rather than a construct
// composite, so the engine handles it separately from the battery.
var healthyHabitsInsight = Insight{
	ID:       "healthy",
	Category: "positive",
	Title:    "Healthy Digital Habits",
	Description: "Your scores indicate a balanced relationship with social media. " +
		"You're at low risk for problematic doomscrolling.",
	Probability:    85,
	Severity:       "low",
	Icon:           "Check",
	Recommendation: "Maintain your current habits. Consider helping friends who struggle with overuse.",
}

const healthyHabitsCutoff = 2.8

var healthyHabitsProtective = []string{
	"Balanced approach to social media",
	"Low emotional dependence on scrolling",
}

// factorRule contributes a risk or protective factor without emitting an
// insight. Kept as data alongside the battery so the whole factor surface is
// auditable in one place.
type factorRule struct {
	when       func(s scores) bool
	text       string
	protective bool
}

var factorRules = []factorRule{
	{when: func(s scores) bool { return s.at("coping") > 4.5 }, text: "Strong reliance on scrolling for emotional regulation"},
	{when: func(s scores) bool { return s.at("emotional") < 2.5 }, text: "Low emotional reactivity to content", protective: true},
	{when: func(s scores) bool { return s.at("time") < 3.0 }, text: "Good awareness of time spent scrolling", protective: true},
	{when: func(s scores) bool { return s.at("frequency") > 4.5 }, text: "Very high frequency of social media checking"},
	{when: func(s scores) bool { return s.at("awareness") > 4.5 }, text: "High self-awareness of scrolling's negative effects", protective: true},
	{when: func(s scores) bool { return s.at("awareness") < 2.5 }, text: "Low awareness of scrolling's impact on wellbeing"},
}
