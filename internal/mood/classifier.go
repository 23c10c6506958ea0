package mood

// matchThreshold is the fraction of a mood's considered criteria that must
// pass for the mood to be assigned. Kept as a ratio rather than "all
// criteria must match" so profiles with more than three criteria degrade
// into a genuine partial-match rule.
const matchThreshold = 0.70

// Classifier maps a song's feature vector to the set of moods it fits.
// It holds only the immutable profile set, so a single instance can serve
// any number of concurrent calls.
type Classifier struct {
	profiles *ProfileSet
}

// NewClassifier creates a classifier over the given profile set.
func NewClassifier(profiles *ProfileSet) *Classifier {
	return &Classifier{profiles: profiles}
}

// Profiles exposes the classifier's profile set.
func (c *Classifier) Profiles() *ProfileSet {
	return c.profiles
}

// Classify returns every mood whose criteria the vector satisfies, in
// profile declaration order. A criterion referencing a feature the vector
// does not define is skipped entirely: it counts neither as a match nor as
// a failure. A mood with no applicable criteria is never assigned, so an
// empty vector classifies to nothing. Classify is pure and never fails;
// out-of-range values simply miss the criteria they are tested against.
func (c *Classifier) Classify(v FeatureVector) []Mood {
	moods := make([]Mood, 0, 4)

	for _, m := range c.profiles.order {
		profile := c.profiles.profiles[m]

		matches := 0
		considered := 0
		for _, criterion := range profile.Criteria {
			value, ok := v.Get(criterion.Feature)
			if !ok {
				continue
			}
			considered++
			if criterion.Matches(value) {
				matches++
			}
		}

		if considered == 0 {
			continue
		}
		if float64(matches)/float64(considered) >= matchThreshold {
			moods = append(moods, m)
		}
	}

	return moods
}
