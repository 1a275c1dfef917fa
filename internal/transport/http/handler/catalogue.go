package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lsb-music/internal/app"
	"lsb-music/internal/transport/http/response"
)

type CatalogueHandler struct {
	catalogue *app.CatalogueService
}

func NewCatalogueHandler(catalogue *app.CatalogueService) *CatalogueHandler {
	return &CatalogueHandler{catalogue: catalogue}
}

// ListExercises filters by ?phase= (omitted or 0 means all) and ?name=.
func (h *CatalogueHandler) ListExercises(c *gin.Context) {
	var phase float64
	if raw := c.Query("phase"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid phase")
			return
		}
		phase = parsed
	}

	exercises, err := h.catalogue.ListExercises(c.Request.Context(), phase, c.Query("name"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list exercises failed")
		return
	}
	response.OK(c, exercises)
}

func (h *CatalogueHandler) GetExercise(c *gin.Context) {
	exercise, err := h.catalogue.LookupExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrExerciseNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "lookup exercise failed")
		}
		return
	}
	response.OK(c, exercise)
}

func (h *CatalogueHandler) SongsForExercise(c *gin.Context) {
	songs, err := h.catalogue.SongsForExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list songs failed")
		return
	}
	response.OK(c, songs)
}

func (h *CatalogueHandler) GetSong(c *gin.Context) {
	song, err := h.catalogue.LookupSong(c.Request.Context(), c.Param("ref"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSongNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "lookup song failed")
		}
		return
	}
	response.OK(c, song)
}

// SearchBySong finds exercises whose mapped songs match ?q= on title or artist.
func (h *CatalogueHandler) SearchBySong(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing search query")
		return
	}

	exercises, err := h.catalogue.SearchExercisesBySong(c.Request.Context(), query)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search exercises failed")
		return
	}
	response.OK(c, exercises)
}
