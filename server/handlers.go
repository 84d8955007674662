package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"TrackDrop/logger"
	"TrackDrop/model"
	"TrackDrop/repository"
	"TrackDrop/storage"

	"github.com/gorilla/mux"
)

// Client facing messages.
const (
	msgNoTrack       = "Geen track ontvangen"
	msgTrackNotFound = "Track niet gevonden"
	msgEmptyComment  = "Lege reactie"
	msgTooLarge      = "Bestand te groot"
	msgInternal      = "Interne serverfout"
)

// APIHandler serves the track catalog and engagement endpoints.
type APIHandler struct {
	store    *repository.TrackStore
	payloads *storage.LocalStore
	mirror   storage.Mirror
	maxBytes int64
	now      func() time.Time

	mirrorTimeout time.Duration
	mirrors       sync.WaitGroup
}

// NewAPIHandler creates a handler. A nil mirror disables mirroring.
func NewAPIHandler(store *repository.TrackStore, payloads *storage.LocalStore, mirror storage.Mirror, maxBytes int64) *APIHandler {
	if mirror == nil {
		mirror = storage.NopMirror{}
	}
	return &APIHandler{
		store:    store,
		payloads: payloads,
		mirror:   mirror,
		maxBytes: maxBytes,
		now:      time.Now,

		mirrorTimeout: 2 * time.Minute,
	}
}

type uploadResponse struct {
	Success bool         `json:"success"`
	Track   *model.Track `json:"track,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

// UploadTrackHandler handles POST /upload: a required "track" file, an optional
// "cover" file and the metadata form fields.
func (h *APIHandler) UploadTrackHandler(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Upload rejected, body too large", logger.Int64("limit", tooLarge.Limit))
			writeJSON(w, http.StatusRequestEntityTooLarge, uploadResponse{Success: false, Error: msgTooLarge})
			return
		}
		logger.Warn("Upload without a readable multipart form", logger.ErrorField(err))
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Error: msgNoTrack})
		return
	}
	defer r.MultipartForm.RemoveAll()

	trackHeader := firstFile(r.MultipartForm, "track")
	if trackHeader == nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Success: false, Error: msgNoTrack})
		return
	}

	audioFile, err := h.payloads.Save(storage.KindAudio, trackHeader)
	if err != nil {
		logger.Error("Failed to store audio payload", logger.ErrorField(err), logger.String("filename", trackHeader.Filename))
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Success: false, Error: msgInternal})
		return
	}
	h.mirrorPayload(storage.KindAudio, audioFile)

	var coverFile *string
	if coverHeader := firstFile(r.MultipartForm, "cover"); coverHeader != nil {
		name, err := h.payloads.Save(storage.KindCover, coverHeader)
		if err != nil {
			logger.Error("Failed to store cover payload", logger.ErrorField(err), logger.String("filename", coverHeader.Filename))
			writeJSON(w, http.StatusInternalServerError, uploadResponse{Success: false, Error: msgInternal})
			return
		}
		h.mirrorPayload(storage.KindCover, name)
		coverFile = &name
	}

	track := model.Track{
		ID:          strconv.FormatInt(h.now().UnixMilli(), 10),
		Title:       formValueOr(r, "title", model.DefaultTitle),
		Description: formValueOr(r, "description", ""),
		Genre:       formValueOr(r, "genre", model.DefaultGenre),
		BPM:         formValueOr(r, "bpm", ""),
		Mood:        formValueOr(r, "mood", ""),
		AudioFile:   audioFile,
		CoverFile:   coverFile,
		Likes:       0,
		Comments:    []string{},
	}

	created, err := h.store.Create(track)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Success: false, Error: msgInternal})
		return
	}

	logger.Info("Track uploaded",
		logger.String("id", created.ID),
		logger.String("title", created.Title),
		logger.String("audioFile", created.AudioFile),
		logger.Bool("cover", created.HasCover()))
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Track: &created})
}

// GetTracksHandler handles GET /tracks.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

// LikeHandler handles POST /like/{id}.
func (h *APIHandler) LikeHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	likes, err := h.store.Like(id)
	if err != nil {
		if errors.Is(err, repository.ErrTrackNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: msgTrackNotFound})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": likes})
}

// CommentHandler handles POST /comment/{id}. The text comes from a JSON body
// ({"text": "..."}) or, for non-JSON requests, from the "text" body field.
// The query string is never consulted.
func (h *APIHandler) CommentHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	comments, err := h.store.AddComment(id, commentText(r))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTrackNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: msgTrackNotFound})
		case errors.Is(err, repository.ErrEmptyComment):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgEmptyComment})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"comments": comments})
}

// GetCommentsHandler handles GET /comments/{id}. Unknown ids get an empty list
// with 200, unlike the like and comment endpoints.
func (h *APIHandler) GetCommentsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Comments(mux.Vars(r)["id"]))
}

// mirrorPayload copies a stored payload in the background. The upload never waits on it.
func (h *APIHandler) mirrorPayload(kind storage.Kind, name string) {
	path, err := h.payloads.Path(kind, name)
	if err != nil {
		return
	}

	h.mirrors.Add(1)
	go func() {
		defer h.mirrors.Done()

		ctx, cancel := context.WithTimeout(context.Background(), h.mirrorTimeout)
		defer cancel()

		start := time.Now()
		if err := h.mirror.Mirror(ctx, kind, name, path); err != nil {
			logger.Warn("Failed to mirror payload", logger.ErrorField(err), logger.String("file", name))
			return
		}
		logger.Debug("Payload mirrored", logger.String("file", name), logger.Duration("elapsed", time.Since(start)))
	}()
}

// WaitMirrors blocks until all background mirror uploads have finished.
func (h *APIHandler) WaitMirrors() {
	h.mirrors.Wait()
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}

func formValueOr(r *http.Request, key, fallback string) string {
	if v := r.PostFormValue(key); v != "" {
		return v
	}
	return fallback
}

func commentText(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logger.Debug("Unreadable comment body", logger.ErrorField(err))
			return ""
		}
		return body.Text
	}
	return r.PostFormValue("text")
}
