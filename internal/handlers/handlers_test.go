package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/SaurabhKarki-25/Music-Platform/internal/auth"
	"github.com/SaurabhKarki-25/Music-Platform/internal/catalog"
	"github.com/SaurabhKarki-25/Music-Platform/internal/database"
	"github.com/SaurabhKarki-25/Music-Platform/internal/logger"
	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"github.com/SaurabhKarki-25/Music-Platform/internal/recommendations"
	"github.com/SaurabhKarki-25/Music-Platform/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitializeForTests()
	os.Exit(m.Run())
}

// setupTestServer wires the full API over an in-memory SQLite database.
// Tables are created manually with SQLite-compatible syntax (AutoMigrate
// would emit the PostgreSQL gen_random_uuid default).
func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, ddl := range []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			bio TEXT,
			avatar_url TEXT,
			favorite_genres TEXT,
			mood_preferences TEXT,
			liked_song_ids TEXT,
			is_admin INTEGER DEFAULT 0,
			is_active INTEGER DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE songs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			album TEXT,
			genres TEXT,
			duration INTEGER,
			audio_url TEXT,
			cover_url TEXT,
			lyrics TEXT,
			mood_tags TEXT,
			feature_tempo REAL,
			feature_energy REAL,
			feature_valence REAL,
			feature_danceability REAL,
			uploaded_by_id TEXT,
			plays INTEGER DEFAULT 0,
			likes INTEGER DEFAULT 0,
			is_active INTEGER DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE mood_templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			mood TEXT NOT NULL,
			tags TEXT,
			criteria_genres TEXT,
			criteria_tempo_min REAL,
			criteria_tempo_max REAL,
			criteria_energy_min REAL,
			criteria_energy_max REAL,
			criteria_valence_min REAL,
			criteria_valence_max REAL,
			song_ids TEXT,
			is_active INTEGER DEFAULT 1,
			usage_count INTEGER DEFAULT 0,
			created_by_id TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE mood_history_entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			mood TEXT NOT NULL,
			song_ids TEXT,
			created_at DATETIME
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	// The auth service reads through the package-level handle.
	database.DB = db

	profiles := mood.DefaultProfiles()
	templates := repository.NewTemplateRepository(db)
	users := repository.NewUserRepository(db)
	store := catalog.NewGormStore(db)
	recs := recommendations.NewService(templates, users, store,
		mood.NewClassifier(profiles), mood.NewPlanner(profiles))

	h := NewHandlers(auth.NewService([]byte("test-secret")), recs, templates, users, store)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    username + "@example.com",
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)["token"].(string)
}

// registerAdmin registers a user and flips the admin flag in the database.
func registerAdmin(t *testing.T, r *gin.Engine, db *gorm.DB, username string) string {
	t.Helper()

	token := registerUser(t, r, username)
	err := db.Model(&models.User{}).Where("username = ?", username).Update("is_admin", true).Error
	require.NoError(t, err)
	return token
}

func seedHappySong(t *testing.T, db *gorm.DB, title string, plays int64) models.Song {
	t.Helper()

	tempo, energy, valence, dance := 150.0, 0.8, 0.7, 0.75
	song := models.Song{
		ID:       uuid.New().String(),
		Title:    title,
		Artist:   "test artist",
		Genres:   models.StringArray{"pop"},
		Duration: 200,
		AudioURL: "https://cdn.example.com/" + title + ".mp3",
		MoodTags: models.StringArray{"happy", "energetic", "party"},
		Features: mood.FeatureVector{Tempo: &tempo, Energy: &energy, Valence: &valence, Danceability: &dance},
		Plays:    plays,
		IsActive: true,
	}
	require.NoError(t, db.Create(&song).Error)
	return song
}

func seedTemplate(t *testing.T, db *gorm.DB, m mood.Mood, active bool) models.MoodTemplate {
	t.Helper()

	template := models.MoodTemplate{
		ID:       uuid.New().String(),
		Name:     string(m) + " mix",
		Mood:     string(m),
		IsActive: active,
	}
	require.NoError(t, db.Create(&template).Error)
	if !active {
		// GORM omits zero-valued fields carrying a `default` tag on insert,
		// so an inactive fixture needs an explicit column update to land.
		require.NoError(t, db.Model(&template).UpdateColumn("is_active", false).Error)
		template.IsActive = false
	}
	return template
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestRegisterLoginMe(t *testing.T) {
	r, _ := setupTestServer(t)

	token := registerUser(t, r, "listener")

	// Same email again is a conflict.
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "listener@example.com",
		"username": "other",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "listener@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "listener@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "listener", decodeBody(t, w)["username"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListMoods(t *testing.T) {
	r, _ := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/moods", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	moods := decodeBody(t, w)["moods"].([]any)
	assert.Len(t, moods, len(mood.AllMoods))
}

func TestGetSongsByMood(t *testing.T) {
	r, db := setupTestServer(t)

	template := seedTemplate(t, db, mood.Happy, true)
	for i := 0; i < 3; i++ {
		seedHappySong(t, db, fmt.Sprintf("happy-%d", i), int64(100-i))
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/moods/happy/songs", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	songs := body["songs"].([]any)
	assert.Len(t, songs, 3)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(3), pagination["total"])

	// Each served query bumps the template's usage counter.
	var got models.MoodTemplate
	require.NoError(t, db.First(&got, "id = ?", template.ID).Error)
	assert.Equal(t, int64(1), got.UsageCount)
}

func TestGetSongsByMoodUnknownMood(t *testing.T) {
	r, _ := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/moods/grumpy/songs", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSongsByMoodNoActiveTemplate(t *testing.T) {
	r, db := setupTestServer(t)

	seedTemplate(t, db, mood.Happy, false)

	w := doJSON(t, r, http.MethodGet, "/api/v1/moods/happy/songs", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSongsByMoodInvalidPagination(t *testing.T) {
	r, db := setupTestServer(t)

	template := seedTemplate(t, db, mood.Happy, true)

	w := doJSON(t, r, http.MethodGet, "/api/v1/moods/happy/songs?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/moods/happy/songs?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A rejected request has no side effects.
	var got models.MoodTemplate
	require.NoError(t, db.First(&got, "id = ?", template.ID).Error)
	assert.Zero(t, got.UsageCount)
}

func TestGetJourney(t *testing.T) {
	r, _ := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/moods/journey?start=sad&end=happy&duration=8", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	sequence := body["sequence"].([]any)
	assert.Equal(t, []any{"sad", "calm", "romantic", "happy"}, sequence)
	assert.Equal(t, float64(2), body["songs_per_segment"])
	assert.Equal(t, float64(8), body["duration_minutes"])
}

func TestGetJourneyRejectsBadInput(t *testing.T) {
	r, _ := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/moods/journey?start=grumpy&end=happy", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/moods/journey?start=sad&end=happy&duration=-5", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateAdminLifecycle(t *testing.T) {
	r, db := setupTestServer(t)

	userToken := registerUser(t, r, "listener")
	adminToken := registerAdmin(t, r, db, "admin")

	payload := gin.H{
		"name":        "deep focus",
		"description": "instrumental concentration aid",
		"mood":        "focus",
		"criteria":    gin.H{"genres": []string{"ambient"}, "tempo": gin.H{"max": 115}},
	}

	// Admin only.
	w := doJSON(t, r, http.MethodPost, "/api/v1/moods/templates", userToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/moods/templates", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	templateID := decodeBody(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodGet, "/api/v1/moods/templates/"+templateID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Deactivating removes the mood from discovery without deleting it.
	w = doJSON(t, r, http.MethodPut, "/api/v1/moods/templates/"+templateID+"/active", adminToken, gin.H{"active": false})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/moods/focus/songs", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/moods/templates/"+templateID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateTemplateUnknownMood(t *testing.T) {
	r, db := setupTestServer(t)
	adminToken := registerAdmin(t, r, db, "admin")

	w := doJSON(t, r, http.MethodPost, "/api/v1/moods/templates", adminToken, gin.H{
		"name":        "bad",
		"description": "bad",
		"mood":        "grumpy",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMoodHistoryAndRecommendations(t *testing.T) {
	r, db := setupTestServer(t)
	token := registerUser(t, r, "listener")

	seedTemplate(t, db, mood.Happy, true)
	seedTemplate(t, db, mood.Calm, true)
	seedTemplate(t, db, mood.Sad, true)

	for _, m := range []string{"happy", "calm", "happy"} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/moods/history", token, gin.H{"mood": m})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/moods/recommendations", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	ranked := body["ranked_moods"].([]any)
	assert.Equal(t, []any{"happy", "calm"}, ranked)
	assert.Len(t, body["templates"].([]any), 2)
}

func TestRecommendationsWithoutHistory(t *testing.T) {
	r, db := setupTestServer(t)
	token := registerUser(t, r, "newbie")

	seedTemplate(t, db, mood.Happy, true)
	seedTemplate(t, db, mood.Sad, true)

	w := doJSON(t, r, http.MethodGet, "/api/v1/moods/recommendations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Nil(t, body["ranked_moods"])
	// No history yet: every active template comes back.
	assert.Len(t, body["templates"].([]any), 2)
}

func TestAppendHistoryRejectsUnknownMood(t *testing.T) {
	r, _ := setupTestServer(t)
	token := registerUser(t, r, "listener")

	w := doJSON(t, r, http.MethodPost, "/api/v1/moods/history", token, gin.H{"mood": "grumpy"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPredictMood(t *testing.T) {
	r, db := setupTestServer(t)
	token := registerUser(t, r, "listener")

	song := seedHappySong(t, db, "uplift", 10)

	w := doJSON(t, r, http.MethodPost, "/api/v1/moods/predict", token, gin.H{"song_ids": []string{song.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "happy", decodeBody(t, w)["mood"])

	// Nothing to classify falls back to neutral.
	w = doJSON(t, r, http.MethodPost, "/api/v1/moods/predict", token, gin.H{"song_ids": []string{}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "neutral", decodeBody(t, w)["mood"])
}

func TestPlayAndLikeSong(t *testing.T) {
	r, db := setupTestServer(t)
	token := registerUser(t, r, "listener")

	song := seedHappySong(t, db, "counted", 0)

	w := doJSON(t, r, http.MethodPost, "/api/v1/songs/"+song.ID+"/play", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Likes are idempotent per user.
	w = doJSON(t, r, http.MethodPost, "/api/v1/songs/"+song.ID+"/like", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/v1/songs/"+song.ID+"/like", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Song
	require.NoError(t, db.First(&got, "id = ?", song.ID).Error)
	assert.Equal(t, int64(1), got.Plays)
	assert.Equal(t, int64(1), got.Likes)

	w = doJSON(t, r, http.MethodPost, "/api/v1/songs/"+song.ID+"/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListAndGetSongs(t *testing.T) {
	r, db := setupTestServer(t)

	a := seedHappySong(t, db, "alpha", 100)
	seedHappySong(t, db, "beta", 50)

	w := doJSON(t, r, http.MethodGet, "/api/v1/songs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["songs"].([]any), 2)

	w = doJSON(t, r, http.MethodGet, "/api/v1/songs?q=alph", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["songs"].([]any), 1)

	w = doJSON(t, r, http.MethodGet, "/api/v1/songs/"+a.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/songs/"+uuid.New().String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
