// Package categories manages the flat set of post categories.
package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"Quill/internal/core/authz"
)

var (
	// ErrCategoryExists indicates a category with this name already exists
	ErrCategoryExists = errors.New("category already exists")

	// ErrCategoryNotFound indicates the requested category doesn't exist
	ErrCategoryNotFound = errors.New("category not found")

	// ErrNameRequired indicates an empty category name
	ErrNameRequired = errors.New("category name is required")
)

// Category is a label posts can reference.
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"category" db:"name"`
}

// Service defines the business logic interface for categories.
type Service interface {
	// List returns all categories. Public.
	List(ctx context.Context) ([]*Category, error)

	// Create adds a category. Authenticated callers only.
	Create(ctx context.Context, identity authz.Identity, name string) (*Category, error)
}

// Repository defines the data access interface for categories.
type Repository interface {
	// Insert stores a category. ErrCategoryExists on duplicate name.
	Insert(ctx context.Context, category *Category) error

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*Category, error)
}

type categoryService struct {
	repo Repository
}

// NewCategoryService creates a new category service
func NewCategoryService(repo Repository) Service {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]*Category, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return result, nil
}

func (s *categoryService) Create(ctx context.Context, identity authz.Identity, name string) (*Category, error) {
	if !identity.Authenticated {
		return nil, authz.ErrUnauthenticated
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	category := &Category{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.repo.Insert(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
