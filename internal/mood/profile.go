package mood

// Feature names a single numeric audio feature of a song.
type Feature string

const (
	FeatureTempo        Feature = "tempo"
	FeatureEnergy       Feature = "energy"
	FeatureValence      Feature = "valence"
	FeatureDanceability Feature = "danceability"
)

// FeatureVector holds a song's computed audio features. Every field is
// independently optional; nil means the feature was never computed for the
// song, which is different from a measured zero.
type FeatureVector struct {
	Tempo        *float64 `json:"tempo,omitempty"`
	Energy       *float64 `json:"energy,omitempty"`
	Valence      *float64 `json:"valence,omitempty"`
	Danceability *float64 `json:"danceability,omitempty"`
}

// Get returns the value for a named feature and whether it is present.
func (v FeatureVector) Get(f Feature) (float64, bool) {
	var p *float64
	switch f {
	case FeatureTempo:
		p = v.Tempo
	case FeatureEnergy:
		p = v.Energy
	case FeatureValence:
		p = v.Valence
	case FeatureDanceability:
		p = v.Danceability
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Criterion is a single closed-interval test over one feature.
type Criterion struct {
	Feature Feature `json:"feature"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Matches reports whether value falls inside the criterion's range,
// bounds inclusive.
func (c Criterion) Matches(value float64) bool {
	return value >= c.Min && value <= c.Max
}

// Profile is the seeded, immutable matching rule for one mood. Criteria
// order is the declaration order and is preserved through classification.
type Profile struct {
	Mood     Mood
	Criteria []Criterion
}

// ProfileSet is the process-wide mood → profile mapping. It is built once
// at startup and never mutated afterwards, so it is safe to share across
// goroutines; tests may construct their own smaller sets.
type ProfileSet struct {
	order    []Mood
	profiles map[Mood]Profile
}

// NewProfileSet builds a set from profiles in the given order.
func NewProfileSet(profiles ...Profile) *ProfileSet {
	ps := &ProfileSet{
		order:    make([]Mood, 0, len(profiles)),
		profiles: make(map[Mood]Profile, len(profiles)),
	}
	for _, p := range profiles {
		if _, dup := ps.profiles[p.Mood]; dup {
			continue
		}
		ps.order = append(ps.order, p.Mood)
		ps.profiles[p.Mood] = p
	}
	return ps
}

// Moods returns the seeded moods in declaration order.
func (ps *ProfileSet) Moods() []Mood {
	out := make([]Mood, len(ps.order))
	copy(out, ps.order)
	return out
}

// Get returns the profile for a mood, if one is seeded.
func (ps *ProfileSet) Get(m Mood) (Profile, bool) {
	p, ok := ps.profiles[m]
	return p, ok
}

// Has reports whether the mood has a seeded profile.
func (ps *ProfileSet) Has(m Mood) bool {
	_, ok := ps.profiles[m]
	return ok
}

// DefaultProfiles returns the seeded mood profiles. The declaration order
// here is observable: classification results come back in this order.
func DefaultProfiles() *ProfileSet {
	return NewProfileSet(
		Profile{Mood: Happy, Criteria: []Criterion{
			{Feature: FeatureValence, Min: 0.6, Max: 1.0},
			{Feature: FeatureEnergy, Min: 0.5, Max: 1.0},
			{Feature: FeatureTempo, Min: 100, Max: 180},
		}},
		Profile{Mood: Sad, Criteria: []Criterion{
			{Feature: FeatureValence, Min: 0.0, Max: 0.4},
			{Feature: FeatureEnergy, Min: 0.0, Max: 0.5},
			{Feature: FeatureTempo, Min: 60, Max: 100},
		}},
		Profile{Mood: Energetic, Criteria: []Criterion{
			{Feature: FeatureEnergy, Min: 0.7, Max: 1.0},
			{Feature: FeatureTempo, Min: 120, Max: 200},
			{Feature: FeatureDanceability, Min: 0.6, Max: 1.0},
		}},
		Profile{Mood: Calm, Criteria: []Criterion{
			{Feature: FeatureEnergy, Min: 0.0, Max: 0.4},
			{Feature: FeatureValence, Min: 0.3, Max: 0.7},
			{Feature: FeatureTempo, Min: 60, Max: 100},
		}},
		Profile{Mood: Romantic, Criteria: []Criterion{
			{Feature: FeatureValence, Min: 0.4, Max: 0.8},
			{Feature: FeatureEnergy, Min: 0.2, Max: 0.6},
			{Feature: FeatureTempo, Min: 70, Max: 120},
		}},
		Profile{Mood: Party, Criteria: []Criterion{
			{Feature: FeatureEnergy, Min: 0.8, Max: 1.0},
			{Feature: FeatureDanceability, Min: 0.7, Max: 1.0},
			{Feature: FeatureTempo, Min: 120, Max: 200},
		}},
		Profile{Mood: Focus, Criteria: []Criterion{
			{Feature: FeatureEnergy, Min: 0.3, Max: 0.7},
			{Feature: FeatureValence, Min: 0.4, Max: 0.8},
			{Feature: FeatureTempo, Min: 80, Max: 140},
		}},
		Profile{Mood: Workout, Criteria: []Criterion{
			{Feature: FeatureEnergy, Min: 0.85, Max: 1.0},
			{Feature: FeatureTempo, Min: 140, Max: 200},
			{Feature: FeatureDanceability, Min: 0.6, Max: 1.0},
		}},
	)
}
