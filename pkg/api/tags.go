package api

import (
	"net/http"

	"github.com/mwantia/photolio/pkg/db/models"
)

type tagPhotoRequest struct {
	TagName string `json:"tagName"`
}

type untagPhotoRequest struct {
	Tags []string `json:"tags"`
}

type tagName struct {
	TagName string `json:"tagName"`
}

func (h *Handler) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Store.ListTags(r.Context())
	if err != nil {
		writeFailure(w, err, "Error retrieving tags")
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *Handler) handleGetTag(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("tagName")
	tags, err := single(h.Store.GetTag(r.Context(), name))
	if err != nil {
		writeFailure(w, err, "Error retrieving tag %s", name)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *Handler) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var tag models.Tag
	if err := decodeJSON(r, &tag); err != nil {
		writeFailure(w, err, "Tag not added")
		return
	}
	if tag.TagName == "" {
		writeFailure(w, badRequest("tagName is required"), "Tag not added")
		return
	}

	if err := h.Store.CreateTag(r.Context(), &tag); err != nil {
		h.Logger.Warn("Failed to create tag '%s': %v", tag.TagName, err)
		writeFailure(w, err, "Tag not added")
		return
	}
	writeSuccess(w, "Tag added")
}

func (h *Handler) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("tagName")
	if err := h.Store.DeleteTag(r.Context(), name); err != nil {
		writeFailure(w, err, "Error deleting tag %s", name)
		return
	}
	writeSuccess(w, "Tag %s deleted", name)
}

func (h *Handler) handleDeleteAllTags(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAllTags(r.Context()); err != nil {
		h.Logger.Error("Failed to delete tags: %v", err)
		writeFailure(w, err, "Error deleting tags")
		return
	}
	writeSuccess(w, "All tags deleted")
}

func (h *Handler) handleListPhotoTags(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	tags, err := h.Store.ListPhotoTags(r.Context(), photoID)
	if err != nil {
		writeFailure(w, err, "Error retrieving tags of photo %d", photoID)
		return
	}

	names := make([]tagName, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tagName{TagName: tag.TagName})
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) handleTagPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	var req tagPhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err, "Photo %d: Tag not added", photoID)
		return
	}

	if err := h.Store.TagPhoto(r.Context(), photoID, req.TagName); err != nil {
		writeFailure(w, err, "Photo %d: Tag %s not added", photoID, req.TagName)
		return
	}
	writeSuccess(w, "Photo %d: Tag %s added", photoID, req.TagName)
}

func (h *Handler) handleUntagPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "photoID")
	if err != nil {
		writeFailure(w, err, "%v", err)
		return
	}

	var req untagPhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err, "Tags not removed")
		return
	}

	if err := h.Store.UntagPhoto(r.Context(), photoID, req.Tags); err != nil {
		writeFailure(w, err, "Tags not removed")
		return
	}
	writeSuccess(w, "Tags removed")
}
