package model

type Category struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateCategoryResponse struct {
	Category Category `json:"category"`
}

type GetCategoriesRequest struct{}

type GetCategoriesResponse struct {
	Categories []Category `json:"categories"`
}
