package core

// Credit-score milestone ladder, ascending by threshold. Labels are part of
// the product copy and render as-is.
var Milestones = []Milestone{
	{Score: 500, Label: "Starting Line"},
	{Score: 580, Label: "Warming Up"},
	{Score: 620, Label: "Getting Traction"},
	{Score: 670, Label: "Momentum"},
	{Score: 700, Label: "The Club"},
	{Score: 740, Label: "Excellent Territory"},
	{Score: 780, Label: "Elite Status"},
	{Score: 800, Label: "Legendary"},
}

// Milestone is a named credit-score threshold used for progress display.
type Milestone struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// MilestoneFor returns the highest milestone whose threshold the score
// meets. A positive score below the lowest threshold still earns the lowest
// milestone. A zero (unset) score earns none.
func MilestoneFor(score int) (Milestone, bool) {
	if score <= 0 {
		return Milestone{}, false
	}
	cur := Milestones[0]
	for _, m := range Milestones {
		if score >= m.Score {
			cur = m
		}
	}
	return cur, true
}

// NextMilestone returns the lowest milestone still above the score. A score
// at or past the highest threshold has no next milestone.
func NextMilestone(score int) (Milestone, bool) {
	for _, m := range Milestones {
		if score < m.Score {
			return m, true
		}
	}
	return Milestone{}, false
}

// ScorePercent normalizes the 300-850 credit-score range to [0,1] for
// display. Zero means "unset" and maps to 0; callers distinguish unset from
// a genuinely low score by checking the raw value, not this fraction.
func ScorePercent(score int) float64 {
	p := float64(score-300) / float64(850-300)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
