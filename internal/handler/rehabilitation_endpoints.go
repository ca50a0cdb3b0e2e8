package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rehab-server/internal/models"
)

const defaultAudioMimeType = "application/octet-stream"

// getRehabilitation returns the user's rehabilitation record with the audio
// recording (when present) encoded as base64.
func (h *Handler) getRehabilitation(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		handleServiceError(c, err, "Error fetching rehabilitation information")
		return
	}

	rehab, err := h.rehabs.Get(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "Error fetching rehabilitation information")
		return
	}

	c.JSON(http.StatusOK, toRehabilitationResponse(rehab))
}

func toRehabilitationResponse(rehab *models.Rehabilitation) rehabilitationResponse {
	resp := rehabilitationResponse{Description: rehab.Description}
	if rehab.HasAudio() {
		mimeType := defaultAudioMimeType
		if rehab.AudioMimeType != nil {
			mimeType = *rehab.AudioMimeType
		}
		resp.AudioRecording = &audioAttachment{
			Data:     base64.StdEncoding.EncodeToString(rehab.AudioRecording),
			MimeType: mimeType,
		}
	}
	return resp
}

// saveRehabilitation stores the rehabilitation description and, when the
// multipart form carries an audio file, its raw bytes and MIME type.
// Текстовое сохранение без файла не затирает ранее загруженное аудио.
func (h *Handler) saveRehabilitation(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		handleServiceError(c, err, "Error saving rehabilitation information")
		return
	}

	rehab := &models.Rehabilitation{
		UserID:      userID,
		Description: c.PostForm("description"),
	}

	file, err := c.FormFile("audio")
	switch {
	case err == nil:
		data, mimeType, err := readUploadedAudio(file)
		if err != nil {
			zap.L().Error("Failed to read uploaded audio file",
				zap.String("userID", userID.String()),
				zap.Error(err),
			)
			handleServiceError(c, err, "Error saving rehabilitation information")
			return
		}
		rehab.AudioRecording = data
		rehab.AudioMimeType = &mimeType
	case errors.Is(err, http.ErrMissingFile):
		// Файл необязателен
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	saved, err := h.rehabs.Upsert(c.Request.Context(), userID, rehab)
	if err != nil {
		handleServiceError(c, err, "Error saving rehabilitation information")
		return
	}

	recordUpsertsTotal.WithLabelValues("rehabilitation").Inc()
	c.JSON(http.StatusOK, toRehabilitationResponse(saved))
}

func readUploadedAudio(file *multipart.FileHeader) ([]byte, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", err
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = defaultAudioMimeType
	}
	return data, mimeType, nil
}
