package mood

import "sort"

// personalizationWindow is how many of the most recent history entries are
// considered when ranking a user's likely moods. Older entries stay in
// storage but carry no weight here.
const personalizationWindow = 10

// maxRankedMoods caps how many candidate moods personalization surfaces.
const maxRankedMoods = 3

// RankRecent ranks the moods in a user's history, most likely first.
// history must be ordered oldest to newest (the append-only store order);
// only the personalization window at the tail is considered. At most three
// moods are returned. An empty history ranks to nothing, which callers
// treat as "skip personalization, surface everything".
//
// Ties between equal counts are broken deterministically: the mood seen
// more recently inside the window wins.
func RankRecent(history []Mood) []Mood {
	if len(history) == 0 {
		return nil
	}

	window := history
	if len(window) > personalizationWindow {
		window = window[len(window)-personalizationWindow:]
	}

	counts := make(map[Mood]int, len(window))
	firstSeen := make(map[Mood]int, len(window))
	order := 0
	// Newest entries first, so firstSeen encodes recency for tie-breaks.
	for i := len(window) - 1; i >= 0; i-- {
		m := window[i]
		counts[m]++
		if _, seen := firstSeen[m]; !seen {
			firstSeen[m] = order
			order++
		}
	}

	ranked := make([]Mood, 0, len(counts))
	for m := range counts {
		ranked = append(ranked, m)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return firstSeen[ranked[i]] < firstSeen[ranked[j]]
	})

	if len(ranked) > maxRankedMoods {
		ranked = ranked[:maxRankedMoods]
	}
	return ranked
}

// PredictMood classifies each recent song's stored feature vector and
// returns the mood that comes up most often. If the list is empty, or no
// song classifies to anything, the prediction is Neutral. Ties are broken
// the same way as RankRecent: the mood accumulated earlier in the scan wins.
func (c *Classifier) PredictMood(recent []FeatureVector) Mood {
	if len(recent) == 0 {
		return Neutral
	}

	counts := make(map[Mood]int)
	firstSeen := make(map[Mood]int)
	order := 0
	for _, v := range recent {
		for _, m := range c.Classify(v) {
			counts[m]++
			if _, seen := firstSeen[m]; !seen {
				firstSeen[m] = order
				order++
			}
		}
	}
	if len(counts) == 0 {
		return Neutral
	}

	best := Neutral
	bestCount := 0
	for m, n := range counts {
		if n > bestCount || (n == bestCount && firstSeen[m] < firstSeen[best]) {
			best = m
			bestCount = n
		}
	}
	return best
}
