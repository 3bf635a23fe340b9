package chronotype

// Result carries the display metadata for a scored category.
type Result struct {
	Category Category
	Title    string
	Name     string
	Desc     string
	Power    string
	Style    string // presentation tag consumed by the UI layer
}

// Mode distinguishes the multi-question base quiz from the single-question
// same-day status check. Only base results are persisted to the profile.
type Mode string

const (
	ModeBase   Mode = "base"
	ModeStatus Mode = "now"
)

var baseResults = map[Category]Result{
	Lion:    {Lion, "Lion 🦁", "Lion", "Early risers, sharpest in the morning.", "Deep work before noon.", "bg-lion"},
	Bear:    {Bear, "Bear 🐻", "Bear", "Steady energy through daylight hours.", "Peak: 10:00-14:00.", "bg-bear"},
	Wolf:    {Wolf, "Wolf 🐺", "Wolf", "Night owls. Slow mornings.", "Creativity in the evening.", "bg-wolf"},
	Dolphin: {Dolphin, "Dolphin 🐬", "Dolphin", "Light sleepers, busy minds.", "Work in short sprints.", "bg-dolphin"},
}

var statusResults = map[Category]Result{
	Lion:    {Lion, "Lion mode (focus) 🦁", "Lion", "Peak sharpness. Time to hunt.", "Attack the hardest task.", "bg-lion"},
	Bear:    {Bear, "Bear mode (steady) 🐻", "Bear", "Balanced energy.", "Good time for routine execution.", "bg-bear"},
	Wolf:    {Wolf, "Wolf mode (create) 🐺", "Wolf", "Creative, wandering mind.", "Brainstorm.", "bg-wolf"},
	Dolphin: {Dolphin, "Dolphin mode (overload) 🐬", "Dolphin", "Scattered and overloaded.", "Stop! Breathing exercise.", "bg-dolphin"},
}

// ResultFor returns the display metadata for category under mode. Unknown
// categories fall back to Default.
func ResultFor(category Category, mode Mode) Result {
	if !category.Valid() {
		category = Default
	}
	if mode == ModeStatus {
		return statusResults[category]
	}
	return baseResults[category]
}

// Option is one selectable quiz answer.
type Option struct {
	Type Category
	Text string
	Icon string
}

// Question is one base-quiz question with its four options.
type Question struct {
	Text    string
	Options []Option
}

// Questions is the base quiz. Each option maps to one category; Score
// tallies the chosen categories.
var Questions = []Question{
	{
		Text: "With total freedom, when would you wake up?",
		Options: []Option{
			{Lion, "Before 06:30", "🌅"},
			{Bear, "Between 07:00 and 09:00", "☀️"},
			{Wolf, "After 10:00, or around noon", "🌙"},
			{Dolphin, "Light sleep / insomnia", "👀"},
		},
	},
	{
		Text: "When is your focus at its peak?",
		Options: []Option{
			{Lion, "Early morning", "🦁"},
			{Bear, "Late morning to midday", "🐻"},
			{Wolf, "Evening or night", "🐺"},
			{Dolphin, "It varies / bursts of energy", "🐬"},
		},
	},
	{
		Text: "Staying out late?",
		Options: []Option{
			{Lion, "Exhausted by 21:00", "😴"},
			{Bear, "Fine, but in bed by midnight", "😌"},
			{Wolf, "I only wake up at 22:00!", "🔥"},
			{Dolphin, "Stressful / mentally draining", "🤯"},
		},
	},
}

// StatusOptions is the single-question status check.
var StatusOptions = []Option{
	{Lion, "Sharp, focused and strong", "🦁"},
	{Bear, "Steady and sociable", "🐻"},
	{Wolf, "Creative but foggy", "🐺"},
	{Dolphin, "Stressed / tired / overwhelmed", "🐬"},
}
