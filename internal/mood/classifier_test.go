package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fv(tempo, energy, valence, danceability float64) FeatureVector {
	return FeatureVector{
		Tempo:        &tempo,
		Energy:       &energy,
		Valence:      &valence,
		Danceability: &danceability,
	}
}

func TestClassifyFullVector(t *testing.T) {
	c := NewClassifier(DefaultProfiles())

	moods := c.Classify(fv(150, 0.8, 0.7, 0.75))

	assert.Equal(t, []Mood{Happy, Energetic, Party}, moods)
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := NewClassifier(DefaultProfiles())
	v := fv(150, 0.8, 0.7, 0.75)

	first := c.Classify(v)
	second := c.Classify(v)

	assert.Equal(t, first, second)
}

func TestClassifyEmptyVector(t *testing.T) {
	c := NewClassifier(DefaultProfiles())

	assert.Empty(t, c.Classify(FeatureVector{}))
}

func TestClassifyAbsentFeaturesExcludedFromBothCounts(t *testing.T) {
	c := NewClassifier(DefaultProfiles())

	// Only valence and energy are defined. Happy's tempo criterion must be
	// skipped entirely, leaving 2/2 considered criteria matched.
	valence := 0.7
	energy := 0.55
	moods := c.Classify(FeatureVector{Valence: &valence, Energy: &energy})

	assert.Contains(t, moods, Happy)
	// Energetic considers only its energy criterion here, which 0.55 fails.
	assert.NotContains(t, moods, Energetic)
}

func TestClassifyPartialVectorOrderPreserved(t *testing.T) {
	c := NewClassifier(DefaultProfiles())

	valence := 0.7
	energy := 0.55
	moods := c.Classify(FeatureVector{Valence: &valence, Energy: &energy})

	// Happy, Romantic and Focus all pass on the two defined features, and
	// they must come back in profile declaration order.
	assert.Equal(t, []Mood{Happy, Romantic, Focus}, moods)
}

func TestClassifyThresholdBoundary(t *testing.T) {
	profiles := NewProfileSet(
		Profile{Mood: Focus, Criteria: []Criterion{
			{Feature: FeatureTempo, Min: 100, Max: 120},
			{Feature: FeatureEnergy, Min: 0.4, Max: 0.6},
			{Feature: FeatureValence, Min: 0.4, Max: 0.6},
		}},
	)
	c := NewClassifier(profiles)

	// 2 of 3 criteria is 0.667, below the 0.70 threshold.
	tempo, energy, valence := 110.0, 0.5, 0.9
	moods := c.Classify(FeatureVector{Tempo: &tempo, Energy: &energy, Valence: &valence})
	assert.Empty(t, moods)

	// 2 of 2 considered criteria passes once the failing feature is absent.
	moods = c.Classify(FeatureVector{Tempo: &tempo, Energy: &energy})
	assert.Equal(t, []Mood{Focus}, moods)
}

func TestClassifyOutOfRangeValuesAreNotRejected(t *testing.T) {
	c := NewClassifier(DefaultProfiles())

	// tempo=500 is outside every profile's range but must not error, it
	// just fails those criteria.
	moods := c.Classify(fv(500, 0.9, 0.9, 0.9))
	for _, m := range moods {
		require.True(t, m.IsValid())
	}
	assert.NotContains(t, moods, Workout)
}

func TestClassifyReturnsOnlySeededMoods(t *testing.T) {
	c := NewClassifier(DefaultProfiles())

	for _, v := range []FeatureVector{
		fv(150, 0.8, 0.7, 0.75),
		fv(70, 0.2, 0.2, 0.1),
		fv(90, 0.3, 0.5, 0.4),
		{},
	} {
		for _, m := range c.Classify(v) {
			assert.True(t, c.Profiles().Has(m), "classified mood %s has no profile", m)
		}
	}
}
