package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"dineflow/internal/models"
	"dineflow/internal/realtime"
	"dineflow/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const presignedURLExpiry = 15 * time.Minute

// MenuServiceInterface defines the interface for menu management operations
type MenuServiceInterface interface {
	Create(ctx context.Context, food *models.Food, originID string) (*models.Food, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Food, error)
	List(ctx context.Context) ([]*models.Food, error)
	Update(ctx context.Context, food *models.Food, originID string) (*models.Food, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool, originID string) error
	UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string, reader io.Reader, size int64, originID string) (string, error)
	Delete(ctx context.Context, id uuid.UUID, originID string) error
	ImageURL(ctx context.Context, food *models.Food) (string, error)
}

type menuService struct {
	foodRepo    repositories.FoodRepository
	minio       MinioService
	imageBucket string
	hub         Broadcaster
}

// NewMenuService creates a new menu service instance
func NewMenuService(foodRepo repositories.FoodRepository, minio MinioService,
	imageBucket string, hub Broadcaster) MenuServiceInterface {
	return &menuService{
		foodRepo:    foodRepo,
		minio:       minio,
		imageBucket: imageBucket,
		hub:         hub,
	}
}

func validateFood(food *models.Food) error {
	if food.Name == "" {
		return fmt.Errorf("%w: food name is required", ErrValidation)
	}
	if food.Price <= 0 {
		return fmt.Errorf("%w: food price must be positive", ErrValidation)
	}
	return nil
}

func (s *menuService) Create(ctx context.Context, food *models.Food, originID string) (*models.Food, error) {
	if err := validateFood(food); err != nil {
		return nil, err
	}

	food.ID = uuid.New()
	now := time.Now()
	food.CreatedAt = now
	food.UpdatedAt = now
	if err := s.foodRepo.Create(ctx, food); err != nil {
		return nil, fmt.Errorf("create food: %w", err)
	}

	s.hub.Broadcast(realtime.EventMenuUpdate, food, originID)
	return food, nil
}

func (s *menuService) Get(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	food, err := s.foodRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: food %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get food: %w", err)
	}
	return food, nil
}

func (s *menuService) List(ctx context.Context) ([]*models.Food, error) {
	return s.foodRepo.List(ctx)
}

func (s *menuService) Update(ctx context.Context, food *models.Food, originID string) (*models.Food, error) {
	if err := validateFood(food); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, food.ID)
	if err != nil {
		return nil, err
	}
	food.ImageObject = existing.ImageObject
	food.CreatedAt = existing.CreatedAt
	food.UpdatedAt = time.Now()

	if err := s.foodRepo.Update(ctx, food); err != nil {
		return nil, fmt.Errorf("update food: %w", err)
	}

	s.hub.Broadcast(realtime.EventMenuUpdate, food, originID)
	return food, nil
}

func (s *menuService) SetAvailability(ctx context.Context, id uuid.UUID, available bool, originID string) error {
	found, err := s.foodRepo.SetAvailability(ctx, id, available)
	if err != nil {
		return fmt.Errorf("set food availability: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: food %s", ErrNotFound, id)
	}

	s.hub.Broadcast(realtime.EventMenuUpdate,
		map[string]any{"id": id, "available": available}, originID)
	return nil
}

// UploadImage stores the image object under the food's id so re-uploads
// overwrite instead of leaking orphaned objects.
func (s *menuService) UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string,
	reader io.Reader, size int64, originID string) (string, error) {
	food, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("foods/%s%s", id, path.Ext(filename))
	if err := s.minio.UploadImage(ctx, s.imageBucket, objectName, contentType, reader, size); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := s.foodRepo.SetImageObject(ctx, id, objectName); err != nil {
		return "", fmt.Errorf("store image key: %w", err)
	}

	food.ImageObject = &objectName
	s.hub.Broadcast(realtime.EventMenuUpdate, food, originID)

	return s.ImageURL(ctx, food)
}

func (s *menuService) Delete(ctx context.Context, id uuid.UUID, originID string) error {
	food, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.foodRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	if food.ImageObject != nil {
		if err := s.minio.DeleteImage(ctx, s.imageBucket, *food.ImageObject); err != nil {
			log.Printf("Failed to delete image object %s: %v", *food.ImageObject, err)
		}
	}

	s.hub.Broadcast(realtime.EventMenuUpdate, map[string]any{"id": id, "deleted": true}, originID)
	return nil
}

// ImageURL presigns a short-lived download link for the food's image, or
// returns empty when the food has none.
func (s *menuService) ImageURL(ctx context.Context, food *models.Food) (string, error) {
	if food.ImageObject == nil || *food.ImageObject == "" {
		return "", nil
	}
	url, err := s.minio.GetPresignedURL(ctx, s.imageBucket, *food.ImageObject, presignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign image url: %w", err)
	}
	return url, nil
}
