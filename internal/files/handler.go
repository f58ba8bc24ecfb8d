package files

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/navidved/bucketproxy/internal/response"
	"github.com/navidved/bucketproxy/internal/upload"
)

// Handler holds HTTP handlers for file endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new file Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Mount registers the file routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/upload", h.Upload)
	r.Get("/files", h.List)
	r.Delete("/files/{filename}", h.Delete)
}

type uploadData struct {
	Message string        `json:"message" example:"File uploaded successfully"`
	File    upload.Result `json:"file"`
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Stores one JPEG or PNG image (at most 10 MiB by default) under a generated key. The object is publicly readable unless PUBLIC_READ=false.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image to upload"
//	@Success		200		{object}	uploadData
//	@Failure		400		{object}	response.ErrorBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Upload(w, r)
	if errors.Is(err, upload.ErrMissingFile) {
		slog.Warn("upload without file", "method", r.Method, "path", r.URL.Path)
		response.BadRequest(w, "No file provided", "Please select a file to upload")
		return
	}
	if err != nil {
		logError(r, "upload error", err)
		response.BadRequest(w, "Error uploading file", err.Error())
		return
	}

	slog.Info("file uploaded", "key", res.Key, "size", res.Size, "mimetype", res.MIMEType)
	response.OK(w, uploadData{Message: "File uploaded successfully", File: res})
}

// List godoc
//
//	@Summary		List files
//	@Description	Lists the bucket in backend order. A truncated backend listing is returned as-is.
//	@Tags			files
//	@Produce		json
//	@Success		200	{array}		File
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/files [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.List(r.Context())
	if err != nil {
		logError(r, "error listing objects", err)
		response.InternalError(w, "Error retrieving files", err.Error())
		return
	}

	response.OK(w, files)
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Description	Deletes the object with the given key. Succeeds whether or not the key existed.
//	@Tags			files
//	@Produce		json
//	@Param			filename	path		string	true	"Object key"
//	@Success		200			{object}	response.Message
//	@Failure		500			{object}	response.ErrorBody
//	@Router			/files/{filename} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the client escaped the path, leaving the param escaped.
	key := chi.URLParam(r, "filename")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(key); err == nil {
			key = unescaped
		}
	}

	if err := h.svc.Delete(r.Context(), key); err != nil {
		logError(r, "error deleting file", err)
		response.InternalError(w, "Error deleting file", err.Error())
		return
	}

	slog.Info("file deleted", "key", key)
	response.OK(w, response.Message{Message: "File deleted successfully"})
}

func logError(r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "method", r.Method, "path", r.URL.Path, "error", err)
}
