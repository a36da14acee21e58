package controllers

import (
	"go-storefront-payments/src/services/catalog"

	"github.com/gofiber/fiber/v2"
)

type CatalogController struct {
	catalogService catalog.CatalogService
}

func NewCatalogController(catalogService catalog.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

func (c *CatalogController) Route(app *fiber.App) {
	api := app.Group("/api/v1/products")
	api.Get("/", c.ListProducts)
	api.Get("/category/:id", c.ListByCategory)
	api.Get("/:id", c.GetProduct)
}

// ListProducts godoc
// @Summary      List products
// @Description  Pages through the catalog, newest first, with optional text search
// @Tags         catalog
// @Produce      json
// @Param        page    query  int     false  "Page (default 1)"
// @Param        limit   query  int     false  "Page size (default 10)"
// @Param        search  query  string  false  "Text search"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  models.MessageResponse
// @Router       /api/v1/products [get]
func (c *CatalogController) ListProducts(ctx *fiber.Ctx) error {
	query := catalog.NewProductQuery(ctx.QueryInt("page", catalog.DefaultPage), ctx.QueryInt("limit", catalog.DefaultLimit), ctx.Query("search"))

	page, err := c.catalogService.ListProducts(ctx.UserContext(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success":     true,
		"message":     "Product data",
		"data":        page.Data,
		"totalCount":  page.TotalCount,
		"totalNoPage": page.TotalNoPage,
		"page":        page.Page,
		"limit":       page.Limit,
	})
}

// GetProduct godoc
// @Summary      Get product by ID
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  models.MessageResponse
// @Router       /api/v1/products/{id} [get]
func (c *CatalogController) GetProduct(ctx *fiber.Ctx) error {
	product, err := c.catalogService.GetProduct(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Product details", "data": product})
}

// ListByCategory godoc
// @Summary      List products in a category
// @Description  Returns up to 15 products tagged with the category
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  models.MessageResponse
// @Router       /api/v1/products/category/{id} [get]
func (c *CatalogController) ListByCategory(ctx *fiber.Ctx) error {
	products, err := c.catalogService.ListByCategory(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Category product list", "data": products})
}
