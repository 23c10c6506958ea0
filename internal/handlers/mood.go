package handlers

import (
	"errors"
	"net/http"

	apiErrors "github.com/SaurabhKarki-25/Music-Platform/internal/errors"
	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"github.com/SaurabhKarki-25/Music-Platform/internal/recommendations"
	"github.com/SaurabhKarki-25/Music-Platform/internal/repository"
	"github.com/SaurabhKarki-25/Music-Platform/internal/util"
	"github.com/gin-gonic/gin"
)

// moodInfo describes one mood and, when seeded, its profile criteria.
type moodInfo struct {
	Mood     string          `json:"mood"`
	Profiled bool            `json:"profiled"`
	Criteria []criterionInfo `json:"criteria,omitempty"`
}

type criterionInfo struct {
	Feature string  `json:"feature"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// ListMoods handles GET /api/v1/moods
func (h *Handlers) ListMoods(c *gin.Context) {
	profiles := h.recs.Classifier().Profiles()

	infos := make([]moodInfo, 0, len(mood.AllMoods))
	for _, m := range mood.AllMoods {
		info := moodInfo{Mood: string(m)}
		if profile, ok := profiles.Get(m); ok {
			info.Profiled = true
			for _, criterion := range profile.Criteria {
				info.Criteria = append(info.Criteria, criterionInfo{
					Feature: string(criterion.Feature),
					Min:     criterion.Min,
					Max:     criterion.Max,
				})
			}
		}
		infos = append(infos, info)
	}

	c.JSON(http.StatusOK, gin.H{"moods": infos})
}

// ListTemplates handles GET /api/v1/moods/templates
func (h *Handlers) ListTemplates(c *gin.Context) {
	var moods []mood.Mood
	for _, label := range util.ParseCSV(c.Query("moods")) {
		m, err := mood.Parse(label)
		if err != nil {
			util.RespondWithAPIError(c, apiErrors.UnknownMood(label))
			return
		}
		moods = append(moods, m)
	}
	limit := util.ParseInt(c.Query("limit"), 0)

	templates, err := h.templates.ListActive(c.Request.Context(), moods, limit)
	if err != nil {
		util.RespondInternalError(c, "failed to list templates")
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// createTemplateRequest is the admin template creation payload.
type createTemplateRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description string   `json:"description" binding:"required"`
	Mood        string   `json:"mood" binding:"required"`
	Tags        []string `json:"tags"`
	Criteria    struct {
		Genres  []string             `json:"genres"`
		Tempo   models.RangeOverride `json:"tempo"`
		Energy  models.RangeOverride `json:"energy"`
		Valence models.RangeOverride `json:"valence"`
	} `json:"criteria"`
	SongIDs []string `json:"song_ids"`
}

// CreateTemplate handles POST /api/v1/moods/templates
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	m, err := mood.Parse(req.Mood)
	if err != nil {
		util.RespondWithAPIError(c, apiErrors.UnknownMood(req.Mood))
		return
	}

	userID, _ := util.GetUserIDFromContext(c)

	template := &models.MoodTemplate{
		Name:        req.Name,
		Description: req.Description,
		Mood:        string(m),
		Tags:        models.StringArray(req.Tags),
		Criteria: models.TemplateCriteria{
			Genres:  models.StringArray(req.Criteria.Genres),
			Tempo:   req.Criteria.Tempo,
			Energy:  req.Criteria.Energy,
			Valence: req.Criteria.Valence,
		},
		SongIDs:     models.StringArray(req.SongIDs),
		IsActive:    true,
		CreatedByID: userID,
	}

	if err := h.templates.Create(c.Request.Context(), template); err != nil {
		util.RespondInternalError(c, "failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

// GetTemplate handles GET /api/v1/moods/templates/:id
func (h *Handlers) GetTemplate(c *gin.Context) {
	template, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			util.RespondNotFound(c, "mood template")
			return
		}
		util.RespondInternalError(c, "failed to load template")
		return
	}

	c.JSON(http.StatusOK, template)
}

// setActiveRequest toggles a template's visibility.
type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetTemplateActive handles PUT /api/v1/moods/templates/:id/active
func (h *Handlers) SetTemplateActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	err := h.templates.SetActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			util.RespondNotFound(c, "mood template")
			return
		}
		util.RespondInternalError(c, "failed to update template")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": *req.Active})
}

// GetSongsByMood handles GET /api/v1/moods/:mood/songs
func (h *Handlers) GetSongsByMood(c *gin.Context) {
	page, ok := util.ParsePageParams(c)
	if !ok {
		return
	}

	label := c.Param("mood")
	m, err := mood.Parse(label)
	if err != nil {
		util.RespondWithAPIError(c, apiErrors.UnknownMood(label))
		return
	}

	opts := recommendations.MoodQueryOptions{
		Genres:     util.ParseCSV(c.Query("genres")),
		ExcludeIDs: util.ParseCSV(c.Query("exclude_ids")),
	}

	result, err := h.recs.SongsForMood(c.Request.Context(), m, opts, page)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTemplateNotFound):
			util.RespondNotFound(c, "active template for mood "+label)
		case errors.Is(err, mood.ErrUnknownMood):
			util.RespondWithAPIError(c, apiErrors.UnknownMood(label))
		default:
			util.RespondInternalError(c, "failed to query songs")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetJourney handles GET /api/v1/moods/journey
func (h *Handlers) GetJourney(c *gin.Context) {
	start, err := mood.Parse(c.Query("start"))
	if err != nil {
		util.RespondWithAPIError(c, apiErrors.UnknownMood(c.Query("start")))
		return
	}
	end, err := mood.Parse(c.Query("end"))
	if err != nil {
		util.RespondWithAPIError(c, apiErrors.UnknownMood(c.Query("end")))
		return
	}

	duration := util.ParseInt(c.Query("duration"), 60)
	if duration < 1 {
		util.RespondBadRequest(c, "duration must be a positive number of minutes")
		return
	}

	songs, sequence, err := h.recs.JourneyPlaylist(c.Request.Context(), start, end, duration)
	if err != nil {
		if errors.Is(err, mood.ErrUnknownMood) {
			util.RespondWithAPIError(c, apiErrors.UnknownMood(err.Error()))
			return
		}
		util.RespondInternalError(c, "failed to build journey playlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sequence":          sequence,
		"songs":             songs,
		"songs_per_segment": mood.SongsPerSegment(duration),
		"duration_minutes":  duration,
	})
}

// GetPersonalizedTemplates handles GET /api/v1/moods/recommendations
func (h *Handlers) GetPersonalizedTemplates(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	limit := util.ParseInt(c.Query("limit"), 0)

	templates, ranked, err := h.recs.PersonalizedTemplates(c.Request.Context(), userID, limit)
	if err != nil {
		util.RespondInternalError(c, "failed to personalize templates")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates":    templates,
		"ranked_moods": ranked,
	})
}

// predictMoodRequest carries the songs to classify; when empty the user's
// newest history entry is used instead.
type predictMoodRequest struct {
	SongIDs []string `json:"song_ids"`
}

// PredictMood handles POST /api/v1/moods/predict
func (h *Handlers) PredictMood(c *gin.Context) {
	var req predictMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	songIDs := req.SongIDs
	if len(songIDs) == 0 {
		userID, _ := util.GetUserIDFromContext(c)
		entries, err := h.users.RecentMoodHistory(c.Request.Context(), userID, 1)
		if err == nil && len(entries) > 0 {
			songIDs = entries[len(entries)-1].SongIDs
		}
	}

	predicted, err := h.recs.PredictMood(c.Request.Context(), songIDs)
	if err != nil {
		util.RespondInternalError(c, "failed to predict mood")
		return
	}

	c.JSON(http.StatusOK, gin.H{"mood": predicted})
}

// appendHistoryRequest records one listening session's mood.
type appendHistoryRequest struct {
	Mood    string   `json:"mood" binding:"required"`
	SongIDs []string `json:"song_ids"`
}

// AppendMoodHistory handles POST /api/v1/moods/history
func (h *Handlers) AppendMoodHistory(c *gin.Context) {
	var req appendHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	m, err := mood.Parse(req.Mood)
	if err != nil {
		util.RespondWithAPIError(c, apiErrors.UnknownMood(req.Mood))
		return
	}

	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	entry := &models.MoodHistoryEntry{
		UserID:  userID,
		Mood:    string(m),
		SongIDs: models.StringArray(req.SongIDs),
	}
	if err := h.users.AppendMoodHistory(c.Request.Context(), entry); err != nil {
		util.RespondInternalError(c, "failed to record mood history")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetMoodListeners handles GET /api/v1/moods/:mood/listeners
func (h *Handlers) GetMoodListeners(c *gin.Context) {
	label := c.Param("mood")
	m, err := mood.Parse(label)
	if err != nil {
		util.RespondWithAPIError(c, apiErrors.UnknownMood(label))
		return
	}

	listeners, err := h.presenceMgr.Listeners(c.Request.Context(), m)
	if err != nil {
		util.RespondInternalError(c, "failed to load room listeners")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mood":      m,
		"listeners": listeners,
		"count":     len(listeners),
	})
}
