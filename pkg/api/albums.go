package api

import (
	"net/http"
	"time"

	"github.com/mwantia/photolio/pkg/db/models"
)

type createAlbumRequest struct {
	AlbumName string `json:"albumName"`
}

type albumRequest struct {
	AlbumID uint `json:"albumID"`
}

type albumName struct {
	AlbumName string `json:"albumName"`
}

func (h *Handler) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.Store.ListAlbums(r.Context())
	if err != nil {
		writeFailure(w, err, "Error retrieving albums")
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (h *Handler) handleFindAlbums(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("albumName")
	albums, err := h.Store.FindAlbums(r.Context(), name)
	if err != nil {
		writeFailure(w, err, "Error retrieving album %s", name)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (h *Handler) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req createAlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err, "Error creating album")
		return
	}
	if req.AlbumName == "" {
		writeFailure(w, badRequest("albumName is required"), "Error creating album")
		return
	}

	album := &models.Album{AlbumName: req.AlbumName, CreationDate: time.Now().UTC()}
	if err := h.Store.CreateAlbum(r.Context(), album); err != nil {
		h.Logger.Warn("Failed to create album '%s': %v", req.AlbumName, err)
		writeFailure(w, err, "Error creating album %s", req.AlbumName)
		return
	}
	writeSuccess(w, "Album %s created", req.AlbumName)
}

func (h *Handler) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("albumName")
	if err := h.Store.DeleteAlbum(r.Context(), name); err != nil {
		writeFailure(w, err, "Error deleting album %s", name)
		return
	}
	writeSuccess(w, "Album %s removed", name)
}

func (h *Handler) handleDeleteAllAlbums(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAllAlbums(r.Context()); err != nil {
		h.Logger.Error("Failed to delete albums: %v", err)
		writeFailure(w, err, "Error deleting albums")
		return
	}
	writeSuccess(w, "All albums removed")
}

func (h *Handler) handleListPhotoAlbums(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	albums, err := h.Store.ListPhotoAlbums(r.Context(), photoID)
	if err != nil {
		writeFailure(w, err, "Error retrieving albums of photo %d", photoID)
		return
	}

	names := make([]albumName, 0, len(albums))
	for _, album := range albums {
		names = append(names, albumName{AlbumName: album.AlbumName})
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleAddPhotoToAlbum(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err, "Photo %d: Not added to album", photoID)
		return
	}

	if err := h.Store.AddPhotoToAlbum(r.Context(), photoID, req.AlbumID, time.Now().UTC()); err != nil {
		writeFailure(w, err, "Photo %d: Not added to album %d", photoID, req.AlbumID)
		return
	}
	writeSuccess(w, "Photo %d: Added to album %d", photoID, req.AlbumID)
}

func (h *Handler) handleRemovePhotoFromAlbum(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err, "Photo %d: Not removed from album", photoID)
		return
	}

	if err := h.Store.RemovePhotoFromAlbum(r.Context(), photoID, req.AlbumID); err != nil {
		writeFailure(w, err, "Photo %d: Not removed from album %d", photoID, req.AlbumID)
		return
	}
	writeSuccess(w, "Photo %d: Removed from album %d", photoID, req.AlbumID)
}
