package controllers

import (
	"lawzo/lawzo/config"
	"lawzo/lawzo/utils/types"
)

type CategoryController struct {
	catalog *config.Catalog
}

func NewCategoryController(catalog *config.Catalog) *CategoryController {
	return &CategoryController{catalog: catalog}
}

func (c *CategoryController) Categories() types.CategoryResponse {
	cats := make([]string, len(c.catalog.Categories))
	copy(cats, c.catalog.Categories)
	return types.CategoryResponse{Categories: cats}
}

func (c *CategoryController) Languages() types.LanguageResponse {
	langs := make(map[string]string, len(c.catalog.Languages))
	for name, code := range c.catalog.Languages {
		langs[name] = code
	}
	return types.LanguageResponse{Languages: langs}
}
