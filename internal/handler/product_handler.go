package handler

import (
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Description string `json:"description"`
}

// checkProductUniqueness enforces the only global uniqueness rules in
// the system: product name and domain, both case-insensitive.
func checkProductUniqueness(name, domain string, excludeID uint) error {
	var count int64
	query := database.GetDB().Model(&model.Product{}).Where("LOWER(name) = ?", model.NormalizeName(name))
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	query.Count(&count)
	if count > 0 {
		return apperr.Conflict("a product with this name already exists")
	}

	query = database.GetDB().Model(&model.Product{}).Where("domain = ?", domain)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	query.Count(&count)
	if count > 0 {
		return apperr.Conflict("a product with this domain already exists")
	}
	return nil
}

// ListProducts returns all products for a super admin and the caller's
// assigned products for a scoped admin.
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("product", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().Order("id asc")
	if authRole(c) != model.RoleSuperAdmin {
		ids, err := assignedProductIDs(authUserID(c))
		if err != nil {
			log.Error("Failed to load product assignments", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
		}
		query = query.Where("id IN ?", ids)
	}

	var products []model.Product
	if result := query.Find(&products); result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve products"})
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct returns one product the caller has access to.
func GetProduct(c echo.Context) error {
	prometheus.RecordCatalogOperation("product", "access")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}
	if err := requireProductAccess(c, id); err != nil {
		return renderError(c, err)
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		return renderError(c, apperr.NotFound("product not found"))
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct creates a new storefront tenant. Super admin only.
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("product", "create")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Domain = model.NormalizeDomain(req.Domain)
	if req.Name == "" || req.Domain == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and domain are required"})
	}

	if err := checkProductUniqueness(req.Name, req.Domain, 0); err != nil {
		return renderError(c, err)
	}

	product := model.Product{
		Name:        req.Name,
		Domain:      req.Domain,
		Description: req.Description,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&product); result.Error != nil {
		log.Error("Failed to create product", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product creation failed"})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("domain", product.Domain))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct edits a storefront tenant. Super admin only.
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("product", "update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		return renderError(c, apperr.NotFound("product not found"))
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Domain = model.NormalizeDomain(req.Domain)
	if req.Name == "" || req.Domain == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and domain are required"})
	}

	if err := checkProductUniqueness(req.Name, req.Domain, product.ID); err != nil {
		return renderError(c, err)
	}

	product.Name = req.Name
	product.Domain = req.Domain
	product.Description = req.Description

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&product); result.Error != nil {
		log.Error("Failed to update product", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product update failed"})
	}

	log.Info("Product updated", zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a tenant; the database cascades the delete to
// all owned catalog rows, orders and user assignments. Super admin only.
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("product", "delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product deletion failed"})
	}
	if result.RowsAffected == 0 {
		return renderError(c, apperr.NotFound("product not found"))
	}

	log.Info("Product deleted", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted successfully"})
}
