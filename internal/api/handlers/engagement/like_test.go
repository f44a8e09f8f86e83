package engagement

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/middleware"
	"Quill/internal/core/authz"
	"Quill/internal/core/engagement"
)

// mockEngagementService implements engagement.Service for testing
type mockEngagementService struct {
	likeFunc           func(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error)
	unlikeFunc         func(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error)
	toggleFavoriteFunc func(ctx context.Context, userID, postID string) (bool, error)
}

func (m *mockEngagementService) Like(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error) {
	if m.likeFunc != nil {
		return m.likeFunc(ctx, postID, userID)
	}
	return &engagement.ReactionResult{ID: "like-1", PostID: postID}, nil
}

func (m *mockEngagementService) Unlike(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error) {
	if m.unlikeFunc != nil {
		return m.unlikeFunc(ctx, postID, userID)
	}
	return &engagement.ReactionResult{ID: "unlike-1", PostID: postID}, nil
}

func (m *mockEngagementService) AddComment(ctx context.Context, postID, userID, body string) (*engagement.Comment, error) {
	return nil, errors.New("not implemented")
}

func (m *mockEngagementService) EditComment(ctx context.Context, postID, commentID, userID, body string) (*engagement.Comment, error) {
	return nil, errors.New("not implemented")
}

func (m *mockEngagementService) DeleteComment(ctx context.Context, postID, commentID, userID string) error {
	return errors.New("not implemented")
}

func (m *mockEngagementService) ListComments(ctx context.Context, postID string) ([]*engagement.Comment, error) {
	return nil, nil
}

func (m *mockEngagementService) ToggleFavorite(ctx context.Context, userID, postID string) (bool, error) {
	if m.toggleFavoriteFunc != nil {
		return m.toggleFavoriteFunc(ctx, userID, postID)
	}
	return true, nil
}

// newReactionRequest builds an authenticated request with the postID route
// parameter resolved, as the router would.
func newReactionRequest(t *testing.T, postID string, identity *authz.Identity) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/post/"+postID+"/like", nil)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("postID", postID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	if identity != nil {
		ctx = middleware.SetTestIdentity(ctx, *identity)
	}
	return req.WithContext(ctx)
}

func TestLikeHandler_Success(t *testing.T) {
	mockService := &mockEngagementService{
		likeFunc: func(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error) {
			if postID != "p-1" || userID != "u-1" {
				t.Errorf("Unexpected arguments: postID=%s userID=%s", postID, userID)
			}
			return &engagement.ReactionResult{ID: "like-1", PostID: postID, Removed: false}, nil
		},
	}
	handler := NewLikeHandler(mockService)

	identity := authz.Identity{Authenticated: true, UserID: "u-1", Role: authz.RoleUser}
	req := newReactionRequest(t, "p-1", &identity)

	w := httptest.NewRecorder()
	handler.HandleLike(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var result engagement.ReactionResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.ID != "like-1" || result.Removed {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestLikeHandler_ToggleOff(t *testing.T) {
	mockService := &mockEngagementService{
		likeFunc: func(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error) {
			return &engagement.ReactionResult{ID: "like-1", PostID: postID, Removed: true}, nil
		},
	}
	handler := NewLikeHandler(mockService)

	identity := authz.Identity{Authenticated: true, UserID: "u-1", Role: authz.RoleUser}
	w := httptest.NewRecorder()
	handler.HandleLike(w, newReactionRequest(t, "p-1", &identity))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var result engagement.ReactionResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !result.Removed {
		t.Errorf("Expected removed=true, got %+v", result)
	}
}

func TestLikeHandler_RequiresAuth(t *testing.T) {
	handler := NewLikeHandler(&mockEngagementService{})

	w := httptest.NewRecorder()
	handler.HandleLike(w, newReactionRequest(t, "p-1", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestLikeHandler_PostNotFound(t *testing.T) {
	mockService := &mockEngagementService{
		likeFunc: func(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error) {
			return nil, engagement.ErrPostNotFound
		},
	}
	handler := NewLikeHandler(mockService)

	identity := authz.Identity{Authenticated: true, UserID: "u-1", Role: authz.RoleUser}
	w := httptest.NewRecorder()
	handler.HandleLike(w, newReactionRequest(t, "ghost", &identity))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestLikeHandler_InternalErrorIsOpaque(t *testing.T) {
	mockService := &mockEngagementService{
		likeFunc: func(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error) {
			return nil, errors.New("pq: connection refused")
		},
	}
	handler := NewLikeHandler(mockService)

	identity := authz.Identity{Authenticated: true, UserID: "u-1", Role: authz.RoleUser}
	w := httptest.NewRecorder()
	handler.HandleLike(w, newReactionRequest(t, "p-1", &identity))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Message != "An internal error occurred." {
		t.Errorf("Internal details leaked to client: %q", errResp.Message)
	}
}

func TestUnlikeHandler_Success(t *testing.T) {
	mockService := &mockEngagementService{
		unlikeFunc: func(ctx context.Context, postID, userID string) (*engagement.ReactionResult, error) {
			return &engagement.ReactionResult{ID: "unlike-1", PostID: postID}, nil
		},
	}
	handler := NewUnlikeHandler(mockService)

	identity := authz.Identity{Authenticated: true, UserID: "u-1", Role: authz.RoleUser}
	w := httptest.NewRecorder()
	handler.HandleUnlike(w, newReactionRequest(t, "p-1", &identity))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestUnlikeHandler_RequiresAuth(t *testing.T) {
	handler := NewUnlikeHandler(&mockEngagementService{})

	w := httptest.NewRecorder()
	handler.HandleUnlike(w, newReactionRequest(t, "p-1", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestFavoriteHandler_Toggle(t *testing.T) {
	state := false
	mockService := &mockEngagementService{
		toggleFavoriteFunc: func(ctx context.Context, userID, postID string) (bool, error) {
			state = !state
			return state, nil
		},
	}
	handler := NewFavoriteHandler(mockService)

	identity := authz.Identity{Authenticated: true, UserID: "u-1", Role: authz.RoleUser}

	for _, want := range []bool{true, false} {
		w := httptest.NewRecorder()
		handler.HandleToggleFavorite(w, newReactionRequest(t, "p-1", &identity))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Favorited bool `json:"favorited"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Favorited != want {
			t.Errorf("Expected favorited=%v, got %v", want, resp.Favorited)
		}
	}
}
