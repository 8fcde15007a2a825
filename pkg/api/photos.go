package api

import (
	"errors"
	"net/http"

	"github.com/mwantia/photolio/pkg/asset"
)

type renameRequest struct {
	FileName string `json:"fileName"`
}

type photoName struct {
	FileName string `json:"fileName"`
	PhotoID  uint   `json:"photoID"`
}

func (h *Handler) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.Assets.Photos(r.Context())
	if err != nil {
		h.Logger.Error("Failed to list photos: %v", err)
		writeFailure(w, err, "Error retrieving photos")
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (h *Handler) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	photos, err := single(h.Assets.Photo(r.Context(), photoID))
	if err != nil {
		writeFailure(w, err, "Error retrieving photo %d", photoID)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (h *Handler) handleListFileNames(w http.ResponseWriter, r *http.Request) {
	photos, err := h.Assets.Photos(r.Context())
	if err != nil {
		h.Logger.Error("Failed to list photo names: %v", err)
		writeFailure(w, err, "Internal Server Error")
		return
	}

	if len(photos) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"Message": "No photo found"})
		return
	}

	names := make([]photoName, 0, len(photos))
	for _, photo := range photos {
		names = append(names, photoName{FileName: photo.FileName, PhotoID: photo.PhotoID})
	}
	writeJSON(w, http.StatusOK, map[string][]photoName{"photos": names})
}

func (h *Handler) handleLastPhoto(w http.ResponseWriter, r *http.Request) {
	photos, err := single(h.Assets.LastPhoto(r.Context()))
	if err != nil {
		writeFailure(w, err, "Error retrieving last photo")
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize())

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeFailure(w, err, "Photo exceeds %d bytes", h.maxUploadSize())
			return
		}
		writeFailure(w, badRequest("%v", err), "No image provided")
		return
	}
	defer file.Close()

	photo, err := h.Assets.Upload(r.Context(), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		writeFailure(w, err, "%s", uploadMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, Result{PhotoID: photo.PhotoID, Status: StatusSuccess, Message: "Photo uploaded"})
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, asset.ErrDuplicateName):
		return "Photo already exists"
	case errors.Is(err, asset.ErrUnsupportedType):
		return "Unsupported image type"
	case errors.Is(err, asset.ErrDecode):
		return "Photo could not be decoded"
	case errors.Is(err, asset.ErrInvalidName):
		return "Invalid file name"
	}
	return "Photo not uploaded"
}

func (h *Handler) handleRenamePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err, "%v", err)
		return
	}
	if req.FileName == "" {
		writeFailure(w, badRequest("fileName is required"), "fileName is required")
		return
	}

	photo, err := h.Assets.Rename(r.Context(), photoID, req.FileName)
	switch {
	case err == nil:
		writeSuccess(w, "Photo %d: Name updated to %s", photoID, photo.FileName)
	case errors.Is(err, asset.ErrNotFound):
		writeFailure(w, err, "Photo %d not found", photoID)
	case errors.Is(err, asset.ErrDuplicateName):
		writeFailure(w, err, "Photo already exists")
	case errors.Is(err, asset.ErrBlobRename):
		writeFailure(w, err, "File name already exists.")
	case errors.Is(err, asset.ErrInvalidName):
		writeFailure(w, err, "Invalid file name")
	default:
		writeFailure(w, err, "Photo %d: Name not updated", photoID)
	}
}

func (h *Handler) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	err = h.Assets.Delete(r.Context(), photoID)
	switch {
	case err == nil:
		writeSuccess(w, "Photo %d deleted", photoID)
	case errors.Is(err, asset.ErrNotFound):
		writeFailure(w, err, "Photo %d not found", photoID)
	default:
		writeFailure(w, err, "Photo %d not deleted", photoID)
	}
}

func (h *Handler) handleDeleteAllPhotos(w http.ResponseWriter, r *http.Request) {
	err := h.Assets.DeleteAll(r.Context())
	if err == nil {
		writeSuccess(w, "All photos deleted")
		return
	}

	result := Result{Status: StatusError, Message: "Error deleting photos"}
	var partial *asset.PartialFailureError
	if errors.As(err, &partial) {
		result.Failed = partial.Failed
	}
	writeJSON(w, statusFor(err), result)
}
