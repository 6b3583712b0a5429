// Package assessment implements the deterministic scoring pipeline for the
// doomscrolling questionnaire: construct/dimension/overall aggregation,
// percentile ranking against the frozen research sample, and severity
// classification.
package assessment

// Construct is one of the 8 research-scale sub-scales (DS1..DS8).
type Construct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	Description string `json:"description"`
}

// Dimension is one of the 5 simplified, user-facing groupings built from the
// constructs. Protective marks the one dimension where a higher raw score is
// a healthy signal; every inversion in the pipeline reads this flag rather
// than matching on the id.
type Dimension struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Constructs      []string `json:"constructs"`
	Protective      bool     `json:"protective"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Question is an immutable catalog entry. A question maps to exactly one
// construct and exactly one dimension; the two groupings are independent.
type Question struct {
	ID           string `json:"id"`
	OriginalItem string `json:"original_item"` // DS block item, e.g. DS2_5
	Construct    string `json:"construct"`
	Dimension    string `json:"dimension"`
	Text         string `json:"text"`
}

// ScaleInfo describes the 1-7 Likert scale. The labels are a public contract
// for form rendering and must not change independently of the engine.
type ScaleInfo struct {
	Min      int            `json:"min"`
	Max      int            `json:"max"`
	Midpoint int            `json:"midpoint"`
	Labels   map[int]string `json:"labels"`
}

var Scale = ScaleInfo{
	Min:      1,
	Max:      7,
	Midpoint: 4,
	Labels: map[int]string{
		1: "Strongly Disagree",
		2: "Disagree",
		3: "Somewhat Disagree",
		4: "Neutral",
		5: "Somewhat Agree",
		6: "Agree",
		7: "Strongly Agree",
	},
}

var Constructs = []Construct{
	{
		ID:          "frequency",
		Name:        "Scrolling Frequency & Engagement",
		ShortName:   "Frequency",
		Description: "How often and extensively you engage with news feeds and social media content",
	},
	{
		ID:          "control",
		Name:        "Loss of Control",
		ShortName:   "Control",
		Description: "Difficulty stopping or regulating your scrolling behavior when you want to",
	},
	{
		ID:          "emotional",
		Name:        "Emotional Impact",
		ShortName:   "Emotion",
		Description: "Negative emotional consequences such as anxiety, sadness, or distress from scrolling",
	},
	{
		ID:          "time",
		Name:        "Time Distortion",
		ShortName:   "Time",
		Description: "Losing track of time or spending more time than intended while scrolling",
	},
	{
		ID:          "compulsive",
		Name:        "Compulsive Checking",
		ShortName:   "Compulsive",
		Description: "Strong urges to constantly check for updates and new content",
	},
	{
		ID:          "awareness",
		Name:        "Harm Awareness",
		ShortName:   "Awareness",
		Description: "Recognition that your scrolling habits may be harmful to your wellbeing",
	},
	{
		ID:          "interference",
		Name:        "Life Interference",
		ShortName:   "Interference",
		Description: "How scrolling affects daily activities, sleep, work, and relationships",
	},
	{
		ID:          "coping",
		Name:        "Coping Motivation",
		ShortName:   "Coping",
		Description: "Using scrolling as a way to cope with stress, boredom, or negative emotions",
	},
}

var Dimensions = []Dimension{
	{
		ID:          "behavioral_control",
		Name:        "Behavioral Control",
		Description: "Your ability to regulate and stop scrolling when you want to",
		Constructs:  []string{"control", "compulsive"},
		Recommendations: []string{
			"Set app timers to limit social media usage",
			"Use 'grayscale mode' on your phone to reduce visual appeal",
			"Create physical barriers (e.g., keep phone in another room during specific times)",
			"Practice the '5-minute delay' technique before opening social media apps",
			"Designate 'phone-free' zones in your home",
		},
	},
	{
		ID:          "emotional_wellbeing",
		Name:        "Emotional Wellbeing",
		Description: "How scrolling affects your mood and emotional state",
		Constructs:  []string{"emotional", "coping"},
		Recommendations: []string{
			"Keep a mood journal to track how you feel before and after scrolling",
			"Practice mindfulness meditation for 5-10 minutes daily",
			"Curate your feed to include more positive, uplifting content",
			"Unfollow or mute accounts that consistently trigger negative emotions",
			"Replace doom-scrolling with healthier coping activities (exercise, calling a friend)",
		},
	},
	{
		ID:          "time_management",
		Name:        "Time Management",
		Description: "Your awareness and control over time spent scrolling",
		Constructs:  []string{"time", "frequency"},
		Recommendations: []string{
			"Use screen time tracking apps to monitor your usage",
			"Schedule specific times for checking social media",
			"Set a 'closing time' for social media each evening",
			"Use the Pomodoro technique: work/life intervals with brief social media breaks",
			"Keep a time log for one week to understand your patterns",
		},
	},
	{
		ID:          "daily_functioning",
		Name:        "Daily Life Impact",
		Description: "How scrolling interferes with work, sleep, and daily activities",
		Constructs:  []string{"interference"},
		Recommendations: []string{
			"Establish a phone-free bedtime routine 1 hour before sleep",
			"Use 'Do Not Disturb' mode during work hours",
			"Replace morning phone checking with a healthier routine",
			"Set specific goals for activities that scrolling has displaced",
			"Create accountability by telling someone about your goals",
		},
	},
	{
		ID:          "self_awareness",
		Name:        "Self-Awareness",
		Description: "Your recognition of scrolling patterns and their effects (higher = more aware, which is positive)",
		Constructs:  []string{"awareness"},
		Protective:  true,
		// Shown when effective (inverted) awareness is concerning, i.e. raw awareness is low.
		Recommendations: []string{
			"Start tracking your screen time to build awareness",
			"Reflect on what triggers your scrolling episodes",
			"Notice physical sensations when you feel the urge to scroll",
			"Keep a scrolling diary noting triggers, duration, and aftermath",
			"Set intention before opening apps: 'What am I looking for?'",
		},
	},
}

// Questions holds the 24 assessment items, 3 per construct.
var Questions = []Question{
	// DS1: Scrolling Frequency & Engagement
	{ID: "q1", OriginalItem: "DS1_1", Construct: "frequency", Dimension: "time_management",
		Text: "I check social media news feeds multiple times throughout the day."},
	{ID: "q2", OriginalItem: "DS1_4", Construct: "frequency", Dimension: "time_management",
		Text: "I spend a significant portion of my free time scrolling through social media."},
	{ID: "q3", OriginalItem: "DS1_7", Construct: "frequency", Dimension: "time_management",
		Text: "Scrolling through news and social media is one of my main daily activities."},

	// DS2: Loss of Control
	{ID: "q4", OriginalItem: "DS2_2", Construct: "control", Dimension: "behavioral_control",
		Text: "I find it hard to stop scrolling even when I want to."},
	{ID: "q5", OriginalItem: "DS2_5", Construct: "control", Dimension: "behavioral_control",
		Text: "I often scroll longer than I originally planned."},
	{ID: "q6", OriginalItem: "DS2_8", Construct: "control", Dimension: "behavioral_control",
		Text: "I feel like I can't control my scrolling behavior."},

	// DS3: Emotional Impact
	{ID: "q7", OriginalItem: "DS3_1", Construct: "emotional", Dimension: "emotional_wellbeing",
		Text: "Reading negative news on social media makes me feel anxious or worried."},
	{ID: "q8", OriginalItem: "DS3_4", Construct: "emotional", Dimension: "emotional_wellbeing",
		Text: "I often feel sad or hopeless after scrolling through news feeds."},
	{ID: "q9", OriginalItem: "DS3_7", Construct: "emotional", Dimension: "emotional_wellbeing",
		Text: "My mood significantly worsens after spending time on social media."},

	// DS4: Time Distortion
	{ID: "q10", OriginalItem: "DS4_2", Construct: "time", Dimension: "time_management",
		Text: "I often lose track of time when scrolling through social media."},
	{ID: "q11", OriginalItem: "DS4_5", Construct: "time", Dimension: "time_management",
		Text: "Minutes turn into hours when I'm scrolling without me realizing it."},
	{ID: "q12", OriginalItem: "DS4_8", Construct: "time", Dimension: "time_management",
		Text: "I'm often surprised by how much time has passed while I was scrolling."},

	// DS5: Compulsive Checking
	{ID: "q13", OriginalItem: "DS5_1", Construct: "compulsive", Dimension: "behavioral_control",
		Text: "I feel a strong urge to check social media regularly."},
	{ID: "q14", OriginalItem: "DS5_4", Construct: "compulsive", Dimension: "behavioral_control",
		Text: "I check social media first thing in the morning, even before getting out of bed."},
	{ID: "q15", OriginalItem: "DS5_7", Construct: "compulsive", Dimension: "behavioral_control",
		Text: "I feel uncomfortable or anxious if I can't check social media for a while."},

	// DS6: Harm Awareness
	{ID: "q16", OriginalItem: "DS6_2", Construct: "awareness", Dimension: "self_awareness",
		Text: "I'm aware that my scrolling habits might not be good for my mental health."},
	{ID: "q17", OriginalItem: "DS6_5", Construct: "awareness", Dimension: "self_awareness",
		Text: "I recognize that constant news consumption affects my wellbeing."},
	{ID: "q18", OriginalItem: "DS6_8", Construct: "awareness", Dimension: "self_awareness",
		Text: "I know I should probably reduce my social media use."},

	// DS7: Life Interference
	{ID: "q19", OriginalItem: "DS7_2", Construct: "interference", Dimension: "daily_functioning",
		Text: "My scrolling habits interfere with completing my work or responsibilities."},
	{ID: "q20", OriginalItem: "DS7_5", Construct: "interference", Dimension: "daily_functioning",
		Text: "I've stayed up late scrolling when I should have been sleeping."},
	{ID: "q21", OriginalItem: "DS7_8", Construct: "interference", Dimension: "daily_functioning",
		Text: "Scrolling has caused me to neglect important activities or relationships."},

	// DS8: Coping Motivation
	{ID: "q22", OriginalItem: "DS8_2", Construct: "coping", Dimension: "emotional_wellbeing",
		Text: "I scroll through social media to distract myself from stress or problems."},
	{ID: "q23", OriginalItem: "DS8_5", Construct: "coping", Dimension: "emotional_wellbeing",
		Text: "I use social media as a way to cope with negative emotions."},
	{ID: "q24", OriginalItem: "DS8_8", Construct: "coping", Dimension: "emotional_wellbeing",
		Text: "When I'm bored or lonely, I automatically turn to scrolling."},
}

// ConstructByID returns the catalog entry for a construct id.
func ConstructByID(id string) (Construct, bool) {
	for _, c := range Constructs {
		if c.ID == id {
			return c, true
		}
	}
	return Construct{}, false
}

// DimensionByID returns the catalog entry for a dimension id.
func DimensionByID(id string) (Dimension, bool) {
	for _, d := range Dimensions {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}

// QuestionByID returns the catalog entry for a question id.
func QuestionByID(id string) (Question, bool) {
	for _, q := range Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionsByConstruct returns the items belonging to one construct.
func QuestionsByConstruct(constructID string) []Question {
	var out []Question
	for _, q := range Questions {
		if q.Construct == constructID {
			out = append(out, q)
		}
	}
	return out
}

// QuestionsByDimension returns the items belonging to one dimension.
func QuestionsByDimension(dimensionID string) []Question {
	var out []Question
	for _, q := range Questions {
		if q.Dimension == dimensionID {
			out = append(out, q)
		}
	}
	return out
}
