package domain

import (
	"testing"

	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_categoryDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx, &testutil.MockRedisClient{})

	categoryDomain := NewCategoryDomain(
		repository.NewCategoryRepository(),
		repository.NewUserRepository(),
	)

	// A regular user cannot create categories.
	ctxUser1 := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := categoryDomain.Create(ctxUser1, &model.CreateCategoryRequest{Name: "Art"})
	require.Equal(t, "Only an admin can create categories", err.Error())

	ctxAdmin := testutil.MockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = categoryDomain.Create(ctxAdmin, &model.CreateCategoryRequest{Name: ""})
	require.Equal(t, "Not allow empty name", err.Error())

	resp, err := categoryDomain.Create(ctxAdmin, &model.CreateCategoryRequest{Name: "Art"})
	require.NoError(t, err)
	require.Equal(t, "Art", resp.Category.Name)

	categories, err := categoryDomain.GetList(ctx, &model.GetCategoriesRequest{})
	require.NoError(t, err)
	require.Len(t, categories.Categories, 2)
}
