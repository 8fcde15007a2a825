package api

import (
	"errors"
	"net/http"

	"github.com/mwantia/photolio/pkg/db/models"
	"github.com/mwantia/photolio/pkg/db/store"
)

type cameraRequest struct {
	Make  string `json:"make"`
	Model string `json:"model"`
}

func (c cameraRequest) validate() error {
	if c.Make == "" || c.Model == "" {
		return badRequest("make and model are required")
	}
	return nil
}

func (h *Handler) handleListCameras(w http.ResponseWriter, r *http.Request) {
	cameras, err := h.Store.ListCameras(r.Context())
	if err != nil {
		writeFailure(w, err, "Error retrieving cameras")
		return
	}
	writeJSON(w, http.StatusOK, cameras)
}

func (h *Handler) handleGetCamera(w http.ResponseWriter, r *http.Request) {
	make, model := r.PathValue("make"), r.PathValue("model")
	cameras, err := single(h.Store.GetCamera(r.Context(), make, model))
	if err != nil {
		writeFailure(w, err, "Error retrieving camera %s %s", make, model)
		return
	}
	writeJSON(w, http.StatusOK, cameras)
}

func (h *Handler) handleCreateCamera(w http.ResponseWriter, r *http.Request) {
	var req cameraRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err, "Error adding camera")
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, err, "Error adding camera")
		return
	}

	if err := h.Store.CreateCamera(r.Context(), &models.Camera{Make: req.Make, Model: req.Model}); err != nil {
		h.Logger.Warn("Failed to create camera '%s %s': %v", req.Make, req.Model, err)
		writeFailure(w, err, "Error adding camera")
		return
	}
	writeSuccess(w, "Camera %s %s added", req.Make, req.Model)
}

func (h *Handler) handleDeleteCamera(w http.ResponseWriter, r *http.Request) {
	make, model := r.PathValue("make"), r.PathValue("model")
	if err := h.Store.DeleteCamera(r.Context(), make, model); err != nil {
		writeFailure(w, err, "Error deleting camera")
		return
	}
	writeSuccess(w, "Camera %s %s removed", make, model)
}

func (h *Handler) handleDeleteAllCameras(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAllCameras(r.Context()); err != nil {
		h.Logger.Error("Failed to delete cameras: %v", err)
		writeFailure(w, err, "Error deleting cameras")
		return
	}
	writeSuccess(w, "All cameras removed")
}

func (h *Handler) handleListCameraPhotos(w http.ResponseWriter, r *http.Request) {
	make, model := r.PathValue("make"), r.PathValue("model")
	photos, err := h.Store.ListCameraPhotos(r.Context(), make, model)
	if err != nil {
		writeFailure(w, err, "Error retrieving photos of camera %s %s", make, model)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (h *Handler) handleGetPhotoCamera(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	takenWith, err := h.Store.GetPhotoCamera(r.Context(), photoID)
	if err != nil {
		writeFailure(w, err, "Error retrieving camera of photo %d", photoID)
		return
	}

	cameras := make([]cameraRequest, 0, len(takenWith))
	for _, tw := range takenWith {
		cameras = append(cameras, cameraRequest{Make: tw.Make, Model: tw.Model})
	}
	writeJSON(w, http.StatusOK, cameras)
}

func (h *Handler) handleAddPhotoCamera(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	var req cameraRequest
	if err = decodeJSON(r, &req); err == nil {
		err = req.validate()
	}
	if err != nil {
		writeFailure(w, err, "PhotoID %d: Camera not added", photoID)
		return
	}

	takenWith := &models.TakenWith{PhotoID: photoID, Make: req.Make, Model: req.Model}
	if err := h.Store.AddPhotoCamera(r.Context(), takenWith); err != nil {
		writeFailure(w, err, "PhotoID %d: Camera not added", photoID)
		return
	}
	writeSuccess(w, "PhotoID %d: Camera Added", photoID)
}

func (h *Handler) handleUpdatePhotoCamera(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	var req cameraRequest
	if err = decodeJSON(r, &req); err == nil {
		err = req.validate()
	}
	if err != nil {
		writeFailure(w, err, "Error updating camera")
		return
	}

	err = h.Store.UpdatePhotoCamera(r.Context(), photoID, req.Make, req.Model)
	switch {
	case err == nil:
		writeSuccess(w, "Photo %d: Camera Updated", photoID)
	case errors.Is(err, store.ErrNotFound):
		writeFailure(w, err, "No camera associated with this photo")
	default:
		writeFailure(w, err, "Photo %d: Camera not updated", photoID)
	}
}

func (h *Handler) handleRemovePhotoCamera(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	var req cameraRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err, "Photo %d: Camera not removed", photoID)
		return
	}

	takenWith := &models.TakenWith{PhotoID: photoID, Make: req.Make, Model: req.Model}
	if err := h.Store.RemovePhotoCamera(r.Context(), takenWith); err != nil {
		writeFailure(w, err, "Photo %d: Camera %s %s not removed", photoID, req.Make, req.Model)
		return
	}
	writeSuccess(w, "Photo %d: Camera %s %s removed", photoID, req.Make, req.Model)
}
