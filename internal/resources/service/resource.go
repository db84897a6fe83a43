package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	resourceserrors "rezerv/internal/resources/errors"
	"rezerv/internal/resources/repository"
	"rezerv/pkg/config"
	apperrors "rezerv/pkg/errors"
	"rezerv/pkg/model"
)

type ResourceService interface {
	Create(ctx context.Context, req *model.ResourceRequest) (*model.Resource, error)
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error)
}

type resourceService struct {
	cfg      *config.Config
	repo     repository.ResourceRepository
	validate *validator.Validate
}

func NewResourceService(cfg *config.Config, repo repository.ResourceRepository) ResourceService {
	return &resourceService{
		cfg:      cfg,
		repo:     repo,
		validate: validator.New(),
	}
}

func (s *resourceService) Create(ctx context.Context, req *model.ResourceRequest) (*model.Resource, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	resource := &model.Resource{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Active:      active,
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		return nil, apperrors.Internal("Failed to create resource", err)
	}

	s.cfg.Log.Info("resource created", "resource_id", resource.ID, "name", resource.Name)

	return resource, nil
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, resourceserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Resource", id)
		case errors.Is(err, resourceserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		default:
			return nil, apperrors.Internal("Failed to load resource", err)
		}
	}
	return resource, nil
}

func (s *resourceService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error) {
	var (
		wg        sync.WaitGroup
		resources []*model.Resource
		count     int64
		findErr   error
		countErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		resources, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		count, countErr = s.repo.Count(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to list resources", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count resources", countErr)
	}

	return resources, count, nil
}
