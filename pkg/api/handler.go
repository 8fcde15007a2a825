// Package api exposes the photo library over HTTP and JSON.
package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mwantia/photolio/pkg/asset"
	"github.com/mwantia/photolio/pkg/db/store"
	"github.com/mwantia/photolio/pkg/log"
)

const defaultMaxUploadSize = 32 << 20

// Handler wires the lifecycle manager and the metadata store to HTTP routes.
type Handler struct {
	Assets *asset.Manager
	Store  store.MetadataStore
	Logger log.LoggerService

	// Events streams lifecycle events, /ws is not routed when nil.
	Events http.Handler

	ImagesDir     string
	PublicPrefix  string
	MaxUploadSize int64
	CORSOrigins   []string
}

// Routes returns the router wrapped in the request middleware chain.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /health", h.handleHealth)
	if h.Events != nil {
		mux.Handle("GET /ws", h.Events)
	}
	if h.ImagesDir != "" {
		mux.HandleFunc("GET "+h.publicPrefix()+"/{name}", h.handleImage)
	}

	// Photos
	mux.HandleFunc("GET /Photos", h.handleListPhotos)
	mux.HandleFunc("GET /Photos/fileName", h.handleListFileNames)
	mux.HandleFunc("GET /Photos/{photoID}", h.handleGetPhoto)
	mux.HandleFunc("GET /last", h.handleLastPhoto)
	mux.HandleFunc("POST /upload", h.handleUpload)
	mux.HandleFunc("PUT /Photos/{photoID}", h.handleRenamePhoto)
	mux.HandleFunc("DELETE /Photos/{photoID}", h.handleDeletePhoto)
	mux.HandleFunc("DELETE /Photos", h.handleDeleteAllPhotos)

	// Tags
	mux.HandleFunc("GET /Tags", h.handleListTags)
	mux.HandleFunc("GET /Tags/{tagName}", h.handleGetTag)
	mux.HandleFunc("POST /Tags", h.handleCreateTag)
	mux.HandleFunc("DELETE /Tags/{tagName}", h.handleDeleteTag)
	mux.HandleFunc("DELETE /Tags", h.handleDeleteAllTags)
	mux.HandleFunc("GET /Photos/{photoID}/tags", h.handleListPhotoTags)
	mux.HandleFunc("POST /Photos/{photoID}/tags", h.handleTagPhoto)
	mux.HandleFunc("DELETE /Photos/{photoID}/tags", h.handleUntagPhoto)

	// Albums
	mux.HandleFunc("GET /Albums", h.handleListAlbums)
	mux.HandleFunc("GET /Albums/{albumName}", h.handleFindAlbums)
	mux.HandleFunc("POST /Albums", h.handleCreateAlbum)
	mux.HandleFunc("DELETE /Albums/{albumName}", h.handleDeleteAlbum)
	mux.HandleFunc("DELETE /Albums", h.handleDeleteAllAlbums)
	mux.HandleFunc("GET /Photos/{photoID}/albums", h.handleListPhotoAlbums)
	mux.HandleFunc("POST /Photos/{photoID}/albums", h.handleAddPhotoToAlbum)
	mux.HandleFunc("DELETE /Photos/{photoID}/albums", h.handleRemovePhotoFromAlbum)

	// Cameras
	mux.HandleFunc("GET /Cameras", h.handleListCameras)
	mux.HandleFunc("GET /Cameras/{make}/{model}", h.handleGetCamera)
	mux.HandleFunc("POST /Cameras", h.handleCreateCamera)
	mux.HandleFunc("DELETE /Cameras/{make}/{model}", h.handleDeleteCamera)
	mux.HandleFunc("DELETE /Cameras", h.handleDeleteAllCameras)
	mux.HandleFunc("GET /Photos/{make}/{model}", h.handleListCameraPhotos)
	mux.HandleFunc("GET /Photos/{photoID}/camera/TakenWith", h.handleGetPhotoCamera)
	mux.HandleFunc("POST /Photos/{photoID}/camera", h.handleAddPhotoCamera)
	mux.HandleFunc("PUT /Photos/{photoID}/camera", h.handleUpdatePhotoCamera)
	mux.HandleFunc("DELETE /Photos/{photoID}/cameras", h.handleRemovePhotoCamera)

	var handler http.Handler = mux
	handler = corsMiddleware(h.CORSOrigins, h.Logger, handler)
	handler = recoverMiddleware(h.Logger, handler)
	handler = loggingMiddleware(h.Logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Connected to photolio")
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Health(r.Context()); err != nil {
		h.Logger.Warn("Health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImage serves a stored blob. Hidden entries such as the upload
// staging directory are never exposed.
func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, "/\\") {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.ImagesDir, name))
}

func (h *Handler) publicPrefix() string {
	prefix := "/" + strings.Trim(h.PublicPrefix, "/")
	if prefix == "/" {
		return "/images"
	}
	return prefix
}

func (h *Handler) maxUploadSize() int64 {
	if h.MaxUploadSize > 0 {
		return h.MaxUploadSize
	}
	return defaultMaxUploadSize
}
