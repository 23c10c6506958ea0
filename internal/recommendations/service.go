package recommendations

import (
	"context"
	"fmt"
	"sync"

	"github.com/SaurabhKarki-25/Music-Platform/internal/catalog"
	"github.com/SaurabhKarki-25/Music-Platform/internal/logger"
	"github.com/SaurabhKarki-25/Music-Platform/internal/metrics"
	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"github.com/SaurabhKarki-25/Music-Platform/internal/repository"
	"go.uber.org/zap"
)

// Service is the mood recommendation engine: it resolves mood labels into
// catalog queries, assembles journey playlists, and personalizes template
// selection from listening history. All methods are safe for concurrent use.
type Service struct {
	templates  repository.TemplateRepository
	users      repository.UserRepository
	catalog    catalog.Store
	classifier *mood.Classifier
	planner    *mood.Planner
}

// NewService creates the recommendation engine over its collaborators.
func NewService(
	templates repository.TemplateRepository,
	users repository.UserRepository,
	songs catalog.Store,
	classifier *mood.Classifier,
	planner *mood.Planner,
) *Service {
	return &Service{
		templates:  templates,
		users:      users,
		catalog:    songs,
		classifier: classifier,
		planner:    planner,
	}
}

// Classifier exposes the engine's classifier, used at song ingestion time.
func (s *Service) Classifier() *mood.Classifier {
	return s.classifier
}

// MoodPage is the result of a songs-by-mood query.
type MoodPage struct {
	Template   *models.MoodTemplate `json:"template"`
	Songs      []models.Song        `json:"songs"`
	Pagination catalog.Pagination   `json:"pagination"`
}

// MoodQueryOptions narrow a songs-by-mood query beyond the template's own
// criteria.
type MoodQueryOptions struct {
	Genres     []string
	ExcludeIDs []string
}

// SongsForMood serves the songs matching a mood's active template.
// Pagination is validated before anything else runs; an unknown mood or a
// mood without an active template is a not-found outcome with no side
// effects. Each successful query counts one usage against the template,
// regardless of how many songs come back; a failed increment is logged and
// swallowed so the caller still gets their songs.
func (s *Service) SongsForMood(ctx context.Context, m mood.Mood, opts MoodQueryOptions, page catalog.Page) (*MoodPage, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %s", mood.ErrUnknownMood, m)
	}

	template, err := s.templates.FindByMood(ctx, m)
	if err != nil {
		return nil, err
	}

	q := catalog.FromTemplate(template)
	q.FilterGenres = append(q.FilterGenres, opts.Genres...)
	q.ExcludeIDs = append(q.ExcludeIDs, opts.ExcludeIDs...)

	songs, total, err := s.catalog.Find(ctx, q, page)
	if err != nil {
		return nil, err
	}

	if err := s.templates.IncrementUsage(ctx, template.ID); err != nil {
		metrics.Get().UsageIncrementFailures.Inc()
		logger.Log.Warn("failed to increment template usage",
			zap.String("template_id", template.ID),
			zap.String("mood", template.Mood),
			zap.Error(err),
		)
	}

	metrics.Get().MoodQueriesTotal.WithLabelValues(string(m)).Inc()

	return &MoodPage{
		Template:   template,
		Songs:      songs,
		Pagination: catalog.NewPagination(page, total),
	}, nil
}

// JourneyPlaylist assembles a playlist that transitions from start to end.
// Each planned stop contributes ceil(duration/4) songs, fetched from the
// stop's seeded profile criteria. Segment fetches run in parallel but the
// playlist is concatenated strictly in planned order, whatever order the
// fetches complete in. Once ctx is canceled no further segment queries are
// issued; segments already fetched are not rolled back.
func (s *Service) JourneyPlaylist(ctx context.Context, start, end mood.Mood, durationMinutes int) ([]models.Song, []mood.Mood, error) {
	sequence, err := s.planner.PlanJourney(start, end)
	if err != nil {
		return nil, nil, err
	}

	perSegment := mood.SongsPerSegment(durationMinutes)
	profiles := s.classifier.Profiles()

	segments := make([][]models.Song, len(sequence))
	errs := make([]error, len(sequence))

	var wg sync.WaitGroup
	for i, m := range sequence {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			break
		}

		profile, _ := profiles.Get(m)
		wg.Add(1)
		go func(idx int, p mood.Profile) {
			defer wg.Done()
			songs, _, err := s.catalog.Find(ctx, catalog.FromProfile(p), catalog.Page{Page: 1, Limit: perSegment})
			if err != nil {
				errs[idx] = err
				return
			}
			segments[idx] = songs
		}(i, profile)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("fetching journey segment %s: %w", sequence[i], err)
		}
	}

	// Merge by planned index, never by completion order.
	playlist := make([]models.Song, 0, perSegment*len(sequence))
	for _, segment := range segments {
		playlist = append(playlist, segment...)
	}

	metrics.Get().JourneysPlanned.WithLabelValues(string(start), string(end)).Inc()
	return playlist, sequence, nil
}

// PersonalizedTemplates surfaces the templates a user is most likely to
// want right now. With history, the candidate moods are the top three from
// the personalization window; with none, every active template is returned
// most-used first.
func (s *Service) PersonalizedTemplates(ctx context.Context, userID string, limit int) ([]models.MoodTemplate, []mood.Mood, error) {
	entries, err := s.users.RecentMoodHistory(ctx, userID, 10)
	if err != nil {
		return nil, nil, err
	}

	history := make([]mood.Mood, 0, len(entries))
	for _, e := range entries {
		history = append(history, e.MoodLabel())
	}
	ranked := mood.RankRecent(history)

	templates, err := s.templates.ListActive(ctx, ranked, limit)
	if err != nil {
		return nil, nil, err
	}
	return templates, ranked, nil
}

// PredictMood classifies the stored features of a user's recently played
// songs and returns the dominant mood, or mood.Neutral when there is no
// signal.
func (s *Service) PredictMood(ctx context.Context, songIDs []string) (mood.Mood, error) {
	if len(songIDs) == 0 {
		return mood.Neutral, nil
	}

	songs, err := s.catalog.FindByIDs(ctx, songIDs)
	if err != nil {
		return "", err
	}

	vectors := make([]mood.FeatureVector, 0, len(songs))
	for _, song := range songs {
		vectors = append(vectors, song.Features)
	}
	return s.classifier.PredictMood(vectors), nil
}

// TagSong assigns mood tags to a song from its feature vector. Called once
// at ingestion; tags stay fixed afterwards unless the song is re-scored.
func (s *Service) TagSong(song *models.Song) []mood.Mood {
	moods := s.classifier.Classify(song.Features)
	song.SetMoodTags(moods)
	metrics.Get().SongsClassified.Inc()
	return moods
}
