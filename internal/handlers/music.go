package handlers

import (
	"io"
	"net/http"

	"github.com/SaurabhKarki-25/Music-Platform/internal/catalog"
	"github.com/SaurabhKarki-25/Music-Platform/internal/models"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"github.com/SaurabhKarki-25/Music-Platform/internal/util"
	"github.com/gin-gonic/gin"
)

// Audio files above this size are rejected before hitting S3
const maxAudioUploadBytes = 50 << 20 // 50MB

// ListSongs handles GET /api/v1/songs. With a q parameter it searches
// title/artist/album; otherwise it browses the catalog filtered by the
// optional genre and feature range parameters.
func (h *Handlers) ListSongs(c *gin.Context) {
	page, ok := util.ParsePageParams(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if term := c.Query("q"); term != "" {
		songs, total, err := h.catalog.Search(ctx, term, page)
		if err != nil {
			util.RespondInternalError(c, "search failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"songs":      songs,
			"pagination": catalog.NewPagination(page, total),
		})
		return
	}

	q := catalog.SongQuery{
		Genres:     util.ParseCSV(c.Query("genres")),
		ExcludeIDs: util.ParseCSV(c.Query("exclude_ids")),
	}
	songs, total, err := h.catalog.Find(ctx, q, page)
	if err != nil {
		util.RespondInternalError(c, "failed to list songs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"songs":      songs,
		"pagination": catalog.NewPagination(page, total),
	})
}

// GetSong handles GET /api/v1/songs/:id
func (h *Handlers) GetSong(c *gin.Context) {
	songs, err := h.catalog.FindByIDs(c.Request.Context(), []string{c.Param("id")})
	if err != nil {
		util.RespondInternalError(c, "failed to load song")
		return
	}
	if len(songs) == 0 {
		util.RespondNotFound(c, "song")
		return
	}

	c.JSON(http.StatusOK, songs[0])
}

// UploadSong handles POST /api/v1/songs. Multipart form with an "audio"
// file, optional "cover" image, and the song metadata fields. The song is
// classified into mood tags from its submitted feature values before it
// enters the catalog.
func (h *Handlers) UploadSong(c *gin.Context) {
	if h.uploader == nil {
		util.RespondInternalError(c, "uploads are not available")
		return
	}

	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	artist := c.PostForm("artist")
	if title == "" || artist == "" {
		util.RespondBadRequest(c, "title and artist are required")
		return
	}

	duration := util.ParseInt(c.PostForm("duration"), 0)
	if duration < 1 {
		util.RespondBadRequest(c, "duration must be a positive number of seconds")
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		util.RespondBadRequest(c, "audio file is required")
		return
	}
	if fileHeader.Size > maxAudioUploadBytes {
		util.RespondBadRequest(c, "audio file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.RespondInternalError(c, "failed to read audio file")
		return
	}
	audioData, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		util.RespondInternalError(c, "failed to read audio file")
		return
	}

	ctx := c.Request.Context()

	audioResult, err := h.uploader.UploadAudio(ctx, audioData, user.ID, fileHeader.Filename)
	if err != nil {
		util.RespondInternalError(c, "failed to store audio file")
		return
	}

	song := &models.Song{
		Title:    title,
		Artist:   artist,
		Album:    c.PostForm("album"),
		Genres:   models.StringArray(util.ParseCSV(c.PostForm("genres"))),
		Duration: duration,
		AudioURL: audioResult.URL,
		Lyrics:   c.PostForm("lyrics"),
		Features: mood.FeatureVector{
			Tempo:        util.ParseFloatPtr(c.PostForm("tempo")),
			Energy:       util.ParseFloatPtr(c.PostForm("energy")),
			Valence:      util.ParseFloatPtr(c.PostForm("valence")),
			Danceability: util.ParseFloatPtr(c.PostForm("danceability")),
		},
		UploadedByID: user.ID,
		IsActive:     true,
	}

	// Optional cover art, stored next to the audio key
	if coverHeader, err := c.FormFile("cover"); err == nil {
		coverFile, err := coverHeader.Open()
		if err == nil {
			coverData, readErr := io.ReadAll(coverFile)
			coverFile.Close()
			if readErr == nil {
				if coverResult, upErr := h.uploader.UploadCover(ctx, coverData, audioResult.Key, coverHeader.Filename); upErr == nil {
					song.CoverURL = coverResult.URL
				}
			}
		}
	}

	tags := h.recs.TagSong(song)

	if err := h.catalog.Create(ctx, song); err != nil {
		util.RespondInternalError(c, "failed to save song")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"song":      song,
		"mood_tags": tags,
	})
}

// PlaySong handles POST /api/v1/songs/:id/play
func (h *Handlers) PlaySong(c *gin.Context) {
	id := c.Param("id")
	if err := h.catalog.IncrementPlays(c.Request.Context(), id); err != nil {
		util.RespondInternalError(c, "failed to record play")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "played": true})
}

// LikeSong handles POST /api/v1/songs/:id/like
func (h *Handlers) LikeSong(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	id := c.Param("id")
	songs, err := h.catalog.FindByIDs(c.Request.Context(), []string{id})
	if err != nil {
		util.RespondInternalError(c, "failed to load song")
		return
	}
	if len(songs) == 0 {
		util.RespondNotFound(c, "song")
		return
	}

	if user.LikedSongIDs.Contains(id) {
		c.JSON(http.StatusOK, gin.H{"id": id, "liked": true})
		return
	}

	if err := h.catalog.IncrementLikes(c.Request.Context(), id); err != nil {
		util.RespondInternalError(c, "failed to like song")
		return
	}

	user.LikedSongIDs = append(user.LikedSongIDs, id)
	if err := h.users.UpdateUser(c.Request.Context(), user); err != nil {
		util.RespondInternalError(c, "failed to update liked songs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "liked": true})
}
