package mood

import "errors"

// Mood is one label from the closed set of moods the platform understands.
// Unrecognized labels are rejected at the API boundary and never reach the
// classification or planning code.
type Mood string

const (
	Happy        Mood = "happy"
	Sad          Mood = "sad"
	Energetic    Mood = "energetic"
	Calm         Mood = "calm"
	Romantic     Mood = "romantic"
	Angry        Mood = "angry"
	Nostalgic    Mood = "nostalgic"
	Motivational Mood = "motivational"
	Relaxing     Mood = "relaxing"
	Party        Mood = "party"
	Focus        Mood = "focus"
	Workout      Mood = "workout"

	// Neutral is not a member of the enumerated set. It is the fallback
	// returned by mood prediction when a user's recent listening gives no
	// signal at all.
	Neutral Mood = "neutral"
)

// ErrUnknownMood is returned when a label outside the enumerated set (or a
// mood with no seeded profile) is used where a known mood is required.
var ErrUnknownMood = errors.New("unknown mood")

// AllMoods lists every valid mood label in declaration order.
var AllMoods = []Mood{
	Happy, Sad, Energetic, Calm, Romantic, Angry,
	Nostalgic, Motivational, Relaxing, Party, Focus, Workout,
}

var validMoods = func() map[Mood]bool {
	m := make(map[Mood]bool, len(AllMoods))
	for _, mood := range AllMoods {
		m[mood] = true
	}
	return m
}()

// IsValid reports whether m belongs to the enumerated mood set.
func (m Mood) IsValid() bool {
	return validMoods[m]
}

func (m Mood) String() string {
	return string(m)
}

// Parse converts a raw string into a Mood, rejecting labels outside the
// enumerated set.
func Parse(s string) (Mood, error) {
	m := Mood(s)
	if !m.IsValid() {
		return "", ErrUnknownMood
	}
	return m, nil
}
