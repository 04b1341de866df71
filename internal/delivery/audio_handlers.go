package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/voice_bridge/internal/ports"
	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 50 << 20 // 50MB

type AudioHandler struct {
	jobs    ports.JobStore
	assets  ports.AssetStore
	starter ports.ConversionStarter
	log     *logger.ZapLogger
}

func NewAudioHandler(
	jobs ports.JobStore,
	assets ports.AssetStore,
	starter ports.ConversionStarter,
	log *logger.ZapLogger,
) *AudioHandler {
	return &AudioHandler{
		jobs:    jobs,
		assets:  assets,
		starter: starter,
		log:     log,
	}
}

func (h *AudioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// ParseMultipartForm сам по себе размер не ограничивает — только
	// порог память/диск, поэтому лимит держит MaxBytesReader.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, codeInvalidInput, "Maximum file size is 50MB")
			return
		}
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Error: err})
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid multipart: "+err.Error())
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "No audio file provided")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "audio/") {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "Only audio files are allowed")
		return
	}

	audioID, err := h.assets.Store(r.Context(), file, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrEncoding):
			writeError(w, http.StatusBadRequest, codeEncoding, "unable to decode audio")
		default:
			h.log.Log(logger.LogEntry{Level: "error", Message: "upload store fail", Error: err})
			writeError(w, http.StatusInternalServerError, codeStorage, "failed to store audio")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"audioId": audioID,
		"message": "Audio uploaded successfully",
	})
}

func (h *AudioHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AudioID        string `json:"audioId"`
		TargetLanguage string `json:"targetLanguage"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid json: "+err.Error())
		return
	}
	if req.AudioID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "Audio ID is required")
		return
	}
	if req.TargetLanguage == "" {
		req.TargetLanguage = "fr"
	}

	// исходник должен существовать до создания задачи
	rc, err := h.assets.Retrieve(r.Context(), req.AudioID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "audio not found")
			return
		}
		h.log.Log(logger.LogEntry{Level: "error", Message: "asset check fail", Error: err})
		writeError(w, http.StatusInternalServerError, codeStorage, "failed to access audio")
		return
	}
	rc.Close()

	conversionID := h.jobs.Create(req.AudioID, req.TargetLanguage)
	h.starter.Start(conversionID, req.AudioID, req.TargetLanguage)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"conversionId": conversionID,
		"message":      "Conversion started",
	})
}

func (h *AudioHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, ok := h.jobs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "conversion not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (h *AudioHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rc, err := h.assets.RetrieveOutput(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "converted audio not found")
			return
		}
		h.log.Log(logger.LogEntry{Level: "error", Message: "download fail", Error: err})
		writeError(w, http.StatusInternalServerError, codeStorage, "failed to read converted audio")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="converted_%s.wav"`, id))
	_, _ = io.Copy(w, rc)
}

func (h *AudioHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Voice Bridge API is running",
	})
}
