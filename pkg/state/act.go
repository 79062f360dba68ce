package state

import "strings"

// Act is one chapter of the journey: a goal and the scenes that lead to it.
type Act struct {
	Goal      string   `json:"goal"`
	Scenes    []string `json:"scenes,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Completed bool     `json:"completed"`
}

// Journey tracks the acts and which one is in progress.
type Journey struct {
	Acts    []Act `json:"acts"`
	Current int   `json:"current"`
}

// DefaultJourney is used when no act is generated.
func DefaultJourney() Journey {
	return Journey{Acts: []Act{
		{
			Goal:     "Reach the shelter on the ridge before the weather turns",
			Scenes:   []string{"A cold morning at the trailhead", "The long climb through rhododendron", "Clouds gathering over the ridge"},
			Keywords: []string{"shelter", "ridge"},
		},
		{
			Goal:     "Cross the river at the ford",
			Scenes:   []string{"A swollen creek", "The ferryman's cabin", "The old ford"},
			Keywords: []string{"ford", "cross"},
		},
		{
			Goal:     "Find the trading post in the gap",
			Scenes:   []string{"A logging road", "Smoke from a chimney", "The trading post"},
			Keywords: []string{"trading post", "gap"},
		},
	}}
}

// CurrentAct returns the act in progress, or nil when the journey is over.
func (j *Journey) CurrentAct() *Act {
	if j.Current < 0 || j.Current >= len(j.Acts) {
		return nil
	}
	return &j.Acts[j.Current]
}

// Finished reports whether every act is complete.
func (j *Journey) Finished() bool {
	return len(j.Acts) > 0 && j.Current >= len(j.Acts)
}

// CheckProgress completes the current act when the input mentions any of
// its keywords and returns the act that was completed.
func (j *Journey) CheckProgress(input string) (*Act, bool) {
	act := j.CurrentAct()
	if act == nil {
		return nil, false
	}
	text := " " + NormalizeName(input) + " "
	for _, kw := range act.Keywords {
		if strings.Contains(text, " "+NormalizeName(kw)) {
			act.Completed = true
			done := *act
			j.Current++
			return &done, true
		}
	}
	return nil, false
}

// Add appends an act.
func (j *Journey) Add(act Act) {
	j.Acts = append(j.Acts, act)
}
