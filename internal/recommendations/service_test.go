package recommendations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SaurabhKarki-25/Music-Platform/internal/catalog"
	"github.com/SaurabhKarki-25/Music-Platform/internal/logger"
	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"github.com/SaurabhKarki-25/Music-Platform/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitializeForTests()
	os.Exit(m.Run())
}

// fakeTemplates is an in-memory TemplateRepository.
type fakeTemplates struct {
	byMood map[mood.Mood]*models.MoodTemplate
	active []models.MoodTemplate

	findByMoodCalls int
	incrementCalls  []string
	incrementErr    error
	listActiveMoods [][]mood.Mood
}

func (f *fakeTemplates) Create(ctx context.Context, t *models.MoodTemplate) error { return nil }

func (f *fakeTemplates) Get(ctx context.Context, id string) (*models.MoodTemplate, error) {
	return nil, repository.ErrTemplateNotFound
}

func (f *fakeTemplates) FindByMood(ctx context.Context, m mood.Mood) (*models.MoodTemplate, error) {
	f.findByMoodCalls++
	if t, ok := f.byMood[m]; ok {
		return t, nil
	}
	return nil, repository.ErrTemplateNotFound
}

func (f *fakeTemplates) ListActive(ctx context.Context, moods []mood.Mood, limit int) ([]models.MoodTemplate, error) {
	f.listActiveMoods = append(f.listActiveMoods, moods)
	return f.active, nil
}

func (f *fakeTemplates) IncrementUsage(ctx context.Context, id string) error {
	f.incrementCalls = append(f.incrementCalls, id)
	return f.incrementErr
}

func (f *fakeTemplates) SetActive(ctx context.Context, id string, active bool) error { return nil }

// fakeUsers is an in-memory UserRepository; only history matters here.
type fakeUsers struct {
	history []models.MoodHistoryEntry
}

func (f *fakeUsers) CreateUser(ctx context.Context, u *models.User) error { return nil }
func (f *fakeUsers) GetUser(ctx context.Context, id string) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}
func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}
func (f *fakeUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}
func (f *fakeUsers) UpdateUser(ctx context.Context, u *models.User) error { return nil }
func (f *fakeUsers) AppendMoodHistory(ctx context.Context, e *models.MoodHistoryEntry) error {
	f.history = append(f.history, *e)
	return nil
}
func (f *fakeUsers) RecentMoodHistory(ctx context.Context, userID string, limit int) ([]models.MoodHistoryEntry, error) {
	if len(f.history) > limit {
		return f.history[len(f.history)-limit:], nil
	}
	return f.history, nil
}

// fakeStore answers catalog queries through a pluggable find function.
// Journey fetches call Find from several goroutines, hence the mutex.
type fakeStore struct {
	findFunc func(q catalog.SongQuery, page catalog.Page) ([]models.Song, int64, error)
	byID     map[string]models.Song

	mu        sync.Mutex
	lastQuery catalog.SongQuery
}

func (f *fakeStore) Find(ctx context.Context, q catalog.SongQuery, page catalog.Page) ([]models.Song, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	if f.findFunc != nil {
		return f.findFunc(q, page)
	}
	return nil, 0, nil
}

func (f *fakeStore) Search(ctx context.Context, term string, page catalog.Page) ([]models.Song, int64, error) {
	return nil, 0, nil
}

func (f *fakeStore) FindByIDs(ctx context.Context, ids []string) ([]models.Song, error) {
	var songs []models.Song
	for _, id := range ids {
		if s, ok := f.byID[id]; ok {
			songs = append(songs, s)
		}
	}
	return songs, nil
}

func (f *fakeStore) Create(ctx context.Context, song *models.Song) error { return nil }
func (f *fakeStore) IncrementPlays(ctx context.Context, id string) error { return nil }
func (f *fakeStore) IncrementLikes(ctx context.Context, id string) error { return nil }

func newTestService(templates *fakeTemplates, users *fakeUsers, store *fakeStore) *Service {
	profiles := mood.DefaultProfiles()
	return NewService(templates, users, store, mood.NewClassifier(profiles), mood.NewPlanner(profiles))
}

func happyTemplate() *models.MoodTemplate {
	return &models.MoodTemplate{ID: "tpl-happy", Name: "happy mix", Mood: "happy", IsActive: true}
}

func TestSongsForMood(t *testing.T) {
	templates := &fakeTemplates{byMood: map[mood.Mood]*models.MoodTemplate{mood.Happy: happyTemplate()}}
	store := &fakeStore{
		findFunc: func(q catalog.SongQuery, page catalog.Page) ([]models.Song, int64, error) {
			return []models.Song{{Title: "a"}, {Title: "b"}}, 45, nil
		},
	}
	svc := newTestService(templates, &fakeUsers{}, store)

	result, err := svc.SongsForMood(context.Background(), mood.Happy, MoodQueryOptions{}, catalog.Page{Page: 2, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, "tpl-happy", result.Template.ID)
	assert.Len(t, result.Songs, 2)
	assert.Equal(t, int64(45), result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.Pages)

	// Exactly one usage count per served query.
	assert.Equal(t, []string{"tpl-happy"}, templates.incrementCalls)
	require.NotNil(t, store.lastQuery.MoodTag)
	assert.Equal(t, mood.Happy, *store.lastQuery.MoodTag)
}

func TestSongsForMoodUsageIncrementFailureIsSwallowed(t *testing.T) {
	templates := &fakeTemplates{
		byMood:       map[mood.Mood]*models.MoodTemplate{mood.Happy: happyTemplate()},
		incrementErr: errors.New("db gone"),
	}
	store := &fakeStore{
		findFunc: func(q catalog.SongQuery, page catalog.Page) ([]models.Song, int64, error) {
			return []models.Song{{Title: "a"}}, 1, nil
		},
	}
	svc := newTestService(templates, &fakeUsers{}, store)

	result, err := svc.SongsForMood(context.Background(), mood.Happy, MoodQueryOptions{}, catalog.DefaultPage())
	require.NoError(t, err)
	assert.Len(t, result.Songs, 1)
}

func TestSongsForMoodValidatesPaginationFirst(t *testing.T) {
	templates := &fakeTemplates{byMood: map[mood.Mood]*models.MoodTemplate{mood.Happy: happyTemplate()}}
	svc := newTestService(templates, &fakeUsers{}, &fakeStore{})

	_, err := svc.SongsForMood(context.Background(), mood.Happy, MoodQueryOptions{}, catalog.Page{Page: 0, Limit: 20})
	assert.ErrorIs(t, err, catalog.ErrInvalidPagination)
	assert.Zero(t, templates.findByMoodCalls)
	assert.Empty(t, templates.incrementCalls)
}

func TestSongsForMoodUnknownMood(t *testing.T) {
	templates := &fakeTemplates{}
	svc := newTestService(templates, &fakeUsers{}, &fakeStore{})

	_, err := svc.SongsForMood(context.Background(), mood.Mood("grumpy"), MoodQueryOptions{}, catalog.DefaultPage())
	assert.ErrorIs(t, err, mood.ErrUnknownMood)
	assert.Zero(t, templates.findByMoodCalls)
}

func TestSongsForMoodNoActiveTemplate(t *testing.T) {
	svc := newTestService(&fakeTemplates{}, &fakeUsers{}, &fakeStore{})

	_, err := svc.SongsForMood(context.Background(), mood.Happy, MoodQueryOptions{}, catalog.DefaultPage())
	assert.ErrorIs(t, err, repository.ErrTemplateNotFound)
}

func TestSongsForMoodMergesOptions(t *testing.T) {
	template := happyTemplate()
	template.Criteria.Genres = models.StringArray{"pop"}
	templates := &fakeTemplates{byMood: map[mood.Mood]*models.MoodTemplate{mood.Happy: template}}
	store := &fakeStore{}
	svc := newTestService(templates, &fakeUsers{}, store)

	opts := MoodQueryOptions{Genres: []string{"disco"}, ExcludeIDs: []string{"song-1"}}
	_, err := svc.SongsForMood(context.Background(), mood.Happy, opts, catalog.DefaultPage())
	require.NoError(t, err)

	// Caller genres land in the separate FilterGenres condition; the
	// template's allowlist is never widened by them.
	assert.Equal(t, []string{"pop"}, store.lastQuery.Genres)
	assert.Equal(t, []string{"disco"}, store.lastQuery.FilterGenres)
	assert.Equal(t, []string{"song-1"}, store.lastQuery.ExcludeIDs)
}

// moodForQuery recovers which journey stop a profile-derived query belongs
// to, by matching it against every seeded profile.
func moodForQuery(t *testing.T, q catalog.SongQuery) mood.Mood {
	t.Helper()
	profiles := mood.DefaultProfiles()
	for _, m := range mood.AllMoods {
		p, ok := profiles.Get(m)
		if !ok {
			continue
		}
		candidate := catalog.FromProfile(p)
		if fmt.Sprintf("%v%v%v%v", candidate.Tempo, candidate.Energy, candidate.Valence, candidate.Danceability) ==
			fmt.Sprintf("%v%v%v%v", q.Tempo, q.Energy, q.Valence, q.Danceability) {
			return m
		}
	}
	t.Fatalf("query matches no profile: %+v", q)
	return ""
}

func TestJourneyPlaylistMergesInPlannedOrder(t *testing.T) {
	sequence := []mood.Mood{mood.Sad, mood.Calm, mood.Romantic, mood.Happy}
	position := map[mood.Mood]int{}
	for i, m := range sequence {
		position[m] = i
	}

	store := &fakeStore{}
	store.findFunc = func(q catalog.SongQuery, page catalog.Page) ([]models.Song, int64, error) {
		m := moodForQuery(t, q)
		// Earlier stops finish last, so a completion-order merge would come
		// out reversed.
		time.Sleep(time.Duration(len(sequence)-position[m]) * 10 * time.Millisecond)

		songs := make([]models.Song, page.Limit)
		for i := range songs {
			songs[i] = models.Song{Title: fmt.Sprintf("%s-%d", m, i+1)}
		}
		return songs, int64(len(songs)), nil
	}
	svc := newTestService(&fakeTemplates{}, &fakeUsers{}, store)

	// 8 minutes across 4 stops: two songs per segment.
	playlist, gotSequence, err := svc.JourneyPlaylist(context.Background(), mood.Sad, mood.Happy, 8)
	require.NoError(t, err)

	assert.Equal(t, sequence, gotSequence)
	require.Len(t, playlist, 8)
	want := []string{"sad-1", "sad-2", "calm-1", "calm-2", "romantic-1", "romantic-2", "happy-1", "happy-2"}
	for i, song := range playlist {
		assert.Equal(t, want[i], song.Title)
	}
}

func TestJourneyPlaylistSegmentError(t *testing.T) {
	boom := errors.New("catalog down")
	store := &fakeStore{}
	store.findFunc = func(q catalog.SongQuery, page catalog.Page) ([]models.Song, int64, error) {
		if moodForQuery(t, q) == mood.Romantic {
			return nil, 0, boom
		}
		return []models.Song{{Title: "ok"}}, 1, nil
	}
	svc := newTestService(&fakeTemplates{}, &fakeUsers{}, store)

	_, _, err := svc.JourneyPlaylist(context.Background(), mood.Sad, mood.Happy, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fetching journey segment romantic")
}

func TestJourneyPlaylistUnknownMood(t *testing.T) {
	svc := newTestService(&fakeTemplates{}, &fakeUsers{}, &fakeStore{})

	_, _, err := svc.JourneyPlaylist(context.Background(), mood.Mood("grumpy"), mood.Happy, 60)
	assert.ErrorIs(t, err, mood.ErrUnknownMood)
}

func TestJourneyPlaylistCanceledContext(t *testing.T) {
	svc := newTestService(&fakeTemplates{}, &fakeUsers{}, &fakeStore{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.JourneyPlaylist(ctx, mood.Sad, mood.Happy, 60)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPersonalizedTemplatesWithHistory(t *testing.T) {
	users := &fakeUsers{}
	for _, m := range []string{"happy", "calm", "happy", "party", "happy", "calm"} {
		users.history = append(users.history, models.MoodHistoryEntry{UserID: "u1", Mood: m})
	}
	templates := &fakeTemplates{active: []models.MoodTemplate{*happyTemplate()}}
	svc := newTestService(templates, users, &fakeStore{})

	got, ranked, err := svc.PersonalizedTemplates(context.Background(), "u1", 0)
	require.NoError(t, err)

	assert.Equal(t, []mood.Mood{mood.Happy, mood.Calm, mood.Party}, ranked)
	require.Len(t, got, 1)
	// The ranked moods are the filter handed to the template lookup.
	require.Len(t, templates.listActiveMoods, 1)
	assert.Equal(t, ranked, templates.listActiveMoods[0])
}

func TestPersonalizedTemplatesEmptyHistoryFallsBack(t *testing.T) {
	templates := &fakeTemplates{active: []models.MoodTemplate{
		{ID: "a", Mood: "sad", UsageCount: 9},
		{ID: "b", Mood: "calm", UsageCount: 2},
	}}
	svc := newTestService(templates, &fakeUsers{}, &fakeStore{})

	got, ranked, err := svc.PersonalizedTemplates(context.Background(), "u1", 0)
	require.NoError(t, err)

	assert.Nil(t, ranked)
	assert.Len(t, got, 2)
	// No mood filter: every active template is on the table.
	require.Len(t, templates.listActiveMoods, 1)
	assert.Nil(t, templates.listActiveMoods[0])
}

func TestPredictMoodNoIDs(t *testing.T) {
	svc := newTestService(&fakeTemplates{}, &fakeUsers{}, &fakeStore{})

	m, err := svc.PredictMood(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, mood.Neutral, m)
}

func TestPredictMoodDominant(t *testing.T) {
	slow, low := 70.0, 0.2
	fast, high := 150.0, 0.8
	dance := 0.75
	store := &fakeStore{byID: map[string]models.Song{
		"s1": {ID: "s1", Features: mood.FeatureVector{Tempo: &slow, Energy: &low, Valence: &low}},
		"s2": {ID: "s2", Features: mood.FeatureVector{Tempo: &slow, Energy: &low, Valence: &low}},
		"s3": {ID: "s3", Features: mood.FeatureVector{Tempo: &fast, Energy: &high, Valence: &high, Danceability: &dance}},
	}}
	svc := newTestService(&fakeTemplates{}, &fakeUsers{}, store)

	m, err := svc.PredictMood(context.Background(), []string{"s1", "s2", "s3"})
	require.NoError(t, err)
	assert.Equal(t, mood.Sad, m)
}

func TestTagSong(t *testing.T) {
	svc := newTestService(&fakeTemplates{}, &fakeUsers{}, &fakeStore{})

	tempo, energy, valence, dance := 150.0, 0.8, 0.7, 0.75
	song := &models.Song{
		Title:    "uplift",
		Features: mood.FeatureVector{Tempo: &tempo, Energy: &energy, Valence: &valence, Danceability: &dance},
	}

	moods := svc.TagSong(song)

	assert.Equal(t, []mood.Mood{mood.Happy, mood.Energetic, mood.Party}, moods)
	assert.Equal(t, models.StringArray{"happy", "energetic", "party"}, song.MoodTags)
}
