package catalog

import (
	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
)

// Range is a resolved closed interval over one audio feature.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SongQuery is a declarative predicate over the song catalog. Nil range
// pointers and empty slices mean "unconstrained", never "reject". Every
// query implicitly matches active songs only.
type SongQuery struct {
	// MoodTag, when set, requires the song's ingestion-time mood tags to
	// include this label.
	MoodTag *mood.Mood

	// Genres, when non-empty, requires at least one matching genre. This is
	// the template's allowlist.
	Genres []string

	// FilterGenres is a second genre condition, ANDed with Genres. Caller
	// filters go here so they narrow the allowlist instead of widening it.
	FilterGenres []string

	Tempo        *Range
	Energy       *Range
	Valence      *Range
	Danceability *Range

	// ExcludeIDs removes specific songs, e.g. ones already in a playlist.
	ExcludeIDs []string
}

// Feature value domains, used to fill the open side of a half-specified
// template override.
var featureDomains = map[mood.Feature]Range{
	mood.FeatureTempo:        {Min: 0, Max: 300},
	mood.FeatureEnergy:       {Min: 0, Max: 1},
	mood.FeatureValence:      {Min: 0, Max: 1},
	mood.FeatureDanceability: {Min: 0, Max: 1},
}

func resolveOverride(o models.RangeOverride, f mood.Feature) *Range {
	if !o.Defined() {
		return nil
	}
	r := featureDomains[f]
	if o.Min != nil {
		r.Min = *o.Min
	}
	if o.Max != nil {
		r.Max = *o.Max
	}
	return &r
}

// FromTemplate builds the catalog predicate a mood template stands for:
// songs tagged with the template's mood, optionally narrowed by the
// template's genre allowlist and feature range overrides. Overrides the
// template does not supply leave the feature unconstrained.
func FromTemplate(t *models.MoodTemplate) SongQuery {
	m := t.MoodLabel()
	q := SongQuery{MoodTag: &m}
	if len(t.Criteria.Genres) > 0 {
		q.Genres = append(q.Genres, t.Criteria.Genres...)
	}
	q.Tempo = resolveOverride(t.Criteria.Tempo, mood.FeatureTempo)
	q.Energy = resolveOverride(t.Criteria.Energy, mood.FeatureEnergy)
	q.Valence = resolveOverride(t.Criteria.Valence, mood.FeatureValence)
	return q
}

// FromProfile builds a predicate straight from a seeded mood profile,
// constraining each feature the profile has a criterion for. Used by the
// journey planner, which queries by raw feature ranges rather than through
// a stored template.
func FromProfile(p mood.Profile) SongQuery {
	var q SongQuery
	for _, c := range p.Criteria {
		r := &Range{Min: c.Min, Max: c.Max}
		switch c.Feature {
		case mood.FeatureTempo:
			q.Tempo = r
		case mood.FeatureEnergy:
			q.Energy = r
		case mood.FeatureValence:
			q.Valence = r
		case mood.FeatureDanceability:
			q.Danceability = r
		}
	}
	return q
}
