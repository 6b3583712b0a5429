package ai

// JournalAnalysis is the structured read of a single journal entry.
type JournalAnalysis struct {
	Sentiment       string   `json:"sentiment"` // positive | neutral | negative | mixed
	Emotions        []string `json:"emotions"`
	Triggers        []string `json:"triggers"`
	Patterns        []string `json:"patterns"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// TrendAnalysis summarizes direction of change across recent entries.
type TrendAnalysis struct {
	OverallTrend      string   `json:"overall_trend"` // improving | stable | declining
	SentimentTrend    string   `json:"sentiment_trend"`
	CommonTriggers    []string `json:"common_triggers"`
	EmotionalPatterns []string `json:"emotional_patterns"`
	ProgressInsights  []string `json:"progress_insights"`
	WeeklyFocus       string   `json:"weekly_focus"`
}

// Suggestions is the personalized coaching payload built from a scored result.
type Suggestions struct {
	PersonalizedMessage string   `json:"personalized_message"`
	TopPriorities       []string `json:"top_priorities"`
	DailyHabits         []string `json:"daily_habits"`
	MindsetShifts       []string `json:"mindset_shifts"`
	WeeklyGoal          string   `json:"weekly_goal"`
	Encouragement       string   `json:"encouragement"`
}
