package mood

import (
	"fmt"
	"math"
)

// transitionKey is an ordered (start, end) mood pair.
type transitionKey struct {
	from Mood
	to   Mood
}

// Planner turns a start/end mood pair into the ordered sequence of moods a
// journey playlist walks through. Planning is pure table lookup; fetching
// the songs for each stop happens in the recommendations service.
type Planner struct {
	profiles    *ProfileSet
	transitions map[transitionKey][]Mood
}

// NewPlanner creates a journey planner over the given profile set with the
// built-in transition table.
func NewPlanner(profiles *ProfileSet) *Planner {
	return &Planner{
		profiles: profiles,
		transitions: map[transitionKey][]Mood{
			{Sad, Happy}:      {Sad, Calm, Romantic, Happy},
			{Energetic, Calm}: {Energetic, Party, Romantic, Calm},
			{Calm, Energetic}: {Calm, Focus, Happy, Energetic},
			{Happy, Sad}:      {Happy, Romantic, Calm, Sad},
		},
	}
}

// PlanJourney returns the stop sequence from start to end. Pairs with a
// named transition get the full arc; any other pair falls back to the two
// stop sequence [start, end]. Both moods must have seeded profiles, since
// every stop is later turned into a catalog query.
func (p *Planner) PlanJourney(start, end Mood) ([]Mood, error) {
	if !p.profiles.Has(start) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMood, start)
	}
	if !p.profiles.Has(end) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMood, end)
	}

	if seq, ok := p.transitions[transitionKey{start, end}]; ok {
		out := make([]Mood, len(seq))
		copy(out, seq)
		return out, nil
	}
	return []Mood{start, end}, nil
}

// SongsPerSegment returns how many songs each journey stop should contribute
// for the requested total duration, assuming a four minute average song.
func SongsPerSegment(totalDurationMinutes int) int {
	if totalDurationMinutes < 1 {
		totalDurationMinutes = 1
	}
	return int(math.Ceil(float64(totalDurationMinutes) / 4))
}
