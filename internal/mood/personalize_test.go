package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankRecentEmptyHistory(t *testing.T) {
	assert.Nil(t, RankRecent(nil))
	assert.Nil(t, RankRecent([]Mood{}))
}

func TestRankRecentTopThreeFromWindow(t *testing.T) {
	// 12 entries, oldest first. The two oldest (focus, focus) fall outside
	// the 10-entry window, leaving happy x5, calm x3, party x2 inside it.
	history := []Mood{
		Focus, Focus,
		Happy, Calm, Happy, Party, Happy, Calm, Happy, Party, Calm, Happy,
	}

	assert.Equal(t, []Mood{Happy, Calm, Party}, RankRecent(history))
}

func TestRankRecentShortHistoryUsesAll(t *testing.T) {
	history := []Mood{Sad, Sad, Calm}

	assert.Equal(t, []Mood{Sad, Calm}, RankRecent(history))
}

func TestRankRecentCapsAtThree(t *testing.T) {
	history := []Mood{Happy, Happy, Sad, Sad, Calm, Calm, Party, Party}

	assert.Len(t, RankRecent(history), 3)
}

func TestRankRecentTieBrokenByRecency(t *testing.T) {
	// party and focus both appear twice; party's latest appearance is more
	// recent, so it ranks ahead.
	history := []Mood{Focus, Party, Focus, Happy, Party}

	assert.Equal(t, []Mood{Party, Focus, Happy}, RankRecent(history))
}

func TestPredictMoodEmptyInput(t *testing.T) {
	c := NewClassifier(DefaultProfiles())

	assert.Equal(t, Neutral, c.PredictMood(nil))
}

func TestPredictMoodNoSignal(t *testing.T) {
	c := NewClassifier(DefaultProfiles())

	// Vectors that classify to nothing still predict Neutral rather than
	// erroring.
	assert.Equal(t, Neutral, c.PredictMood([]FeatureVector{{}, {}}))
}

func TestPredictMoodDominantLabel(t *testing.T) {
	c := NewClassifier(DefaultProfiles())

	sadSong := fv(70, 0.2, 0.2, 0.1)
	happySong := fv(150, 0.8, 0.7, 0.75)

	predicted := c.PredictMood([]FeatureVector{sadSong, sadSong, happySong})
	assert.Equal(t, Sad, predicted)
}
