package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// ProductController serves the read-only product endpoints. Errors are
// returned to the router, which answers through the central error handler.
type ProductController struct {
	getAll    services.GetAllProducts
	getByCode services.GetProductByCode
}

func NewProductController(getAll services.GetAllProducts, getByCode services.GetProductByCode) *ProductController {
	return &ProductController{getAll: getAll, getByCode: getByCode}
}

// Index handles GET /api/products.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) error {
	products, err := c.getAll.Execute(r.Context())
	if err != nil {
		return err
	}

	logger.WithCtx(r.Context()).Debug("products listed", "count", len(products))
	response.Write(w, resources.ToDTOList(products))
	return nil
}

// Show handles GET /api/products/{code}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) error {
	product, err := c.getByCode.Execute(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		return err
	}

	response.Write(w, resources.ToDTO(product))
	return nil
}
