package post

import (
	"encoding/json"
	"net/http"
	"strings"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/posts"
	"Quill/internal/images"
)

// maxPostBody bounds post request bodies, including an uploaded image
const maxPostBody = 10 << 20

// CreatePostHandler handles post creation requests
type CreatePostHandler struct {
	service posts.Service
	store   *images.DiskStore
}

// NewCreatePostHandler creates a new create post handler
func NewCreatePostHandler(service posts.Service, store *images.DiskStore) *CreatePostHandler {
	return &CreatePostHandler{service: service, store: store}
}

// HandleCreate stores a new post owned by the caller
// POST /api/post
//
// Accepts either a JSON body or multipart form data with an optional
// image file.
func (h *CreatePostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPostBody)

	req, err := decodePostRequest(r, h.store)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), identity, posts.CreatePostRequest(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, created)
}

// decodePostRequest reads a post payload from either JSON or multipart
// form data. A multipart "image" part is saved to the store and its
// relative path becomes the post's image URL.
func decodePostRequest(r *http.Request, store *images.DiskStore) (posts.UpdatePostRequest, error) {
	var req posts.UpdatePostRequest

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errBadBody
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(maxPostBody); err != nil {
		return req, errBadBody
	}

	req.Title = r.FormValue("title")
	req.Content = r.FormValue("content")
	req.Status = r.FormValue("postStatus")
	if raw := strings.TrimSpace(r.FormValue("categories")); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.CategoryIDs = append(req.CategoryIDs, id)
			}
		}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return req, nil
		}
		return req, errBadBody
	}
	defer func() { _ = file.Close() }()

	path, err := store.Save(file, header)
	if err != nil {
		return req, err
	}
	req.ImageURL = path
	return req, nil
}
