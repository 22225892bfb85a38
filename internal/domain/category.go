package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type CategoryDomain interface {
	Create(context.Context, *model.CreateCategoryRequest) (*model.CreateCategoryResponse, error)
	GetList(context.Context, *model.GetCategoriesRequest) (*model.GetCategoriesResponse, error)
}

type categoryDomain struct {
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

func NewCategoryDomain(
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
) *categoryDomain {
	return &categoryDomain{categoryRepo: categoryRepo, userRepo: userRepo}
}

func (d *categoryDomain) Create(
	ctx context.Context, req *model.CreateCategoryRequest,
) (*model.CreateCategoryResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty name")
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if user.Role != entity.AdminRole {
		return nil, errorx.New(errorx.PermissionDenied, "Only an admin can create categories")
	}

	category := &entity.Category{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      req.Name,
		CreatedBy: userID,
	}

	if err := d.categoryRepo.Create(ctx, category); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create category: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCategoryResponse{Category: model.ConvertCategory(category)}, nil
}

func (d *categoryDomain) GetList(
	ctx context.Context, req *model.GetCategoriesRequest,
) (*model.GetCategoriesResponse, error) {
	categories, err := d.categoryRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get categories: %v", err)
		return nil, errorx.Unknown
	}

	clientCategories := []model.Category{}
	for _, c := range categories {
		clientCategories = append(clientCategories, model.ConvertCategory(&c))
	}

	return &model.GetCategoriesResponse{Categories: clientCategories}, nil
}
