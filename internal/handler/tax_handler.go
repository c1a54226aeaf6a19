package handler

import (
	"net/http"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TaxRequest defines the structure for tax creation/update requests
type TaxRequest struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	Active    *bool   `json:"active"`
}

// ListTaxes retrieves tax rows within the caller's product scope
func ListTaxes(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("tax", "list")

	ids, all, err := scopeCatalogQuery(c, c.QueryParam("product_id"))
	if err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().Order("id asc")
	if !all {
		query = query.Where("product_id IN ?", ids)
	}

	var taxes []model.Tax
	if result := query.Find(&taxes); result.Error != nil {
		log.Error("Failed to list taxes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve taxes"})
	}
	return c.JSON(http.StatusOK, taxes)
}

// CreateTax adds a tax rule to a product the caller administers
func CreateTax(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("tax", "create")

	var req TaxRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ProductID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and name are required"})
	}
	if !model.ValidTaxType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be percentage or fixed"})
	}
	if req.Value < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "value must be non-negative"})
	}
	if err := requireProductAccess(c, req.ProductID); err != nil {
		return renderError(c, err)
	}

	var count int64
	database.GetDB().Model(&model.Tax{}).
		Where("name = ? AND product_id = ?", req.Name, req.ProductID).
		Count(&count)
	if count > 0 {
		return renderError(c, apperr.Conflict("a tax with this name already exists for this product"))
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	tax := model.Tax{
		ProductID: req.ProductID,
		Name:      req.Name,
		Type:      req.Type,
		Value:     req.Value,
		Active:    active,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&tax); result.Error != nil {
		log.Error("Failed to create tax", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tax creation failed"})
	}

	log.Info("Tax created",
		zap.Uint("tax_id", tax.ID),
		zap.Uint("product_id", tax.ProductID),
		zap.String("type", tax.Type))
	return c.JSON(http.StatusCreated, tax)
}

// UpdateTax edits a tax rule. Changing a tax never rewrites historical
// orders; their monetary snapshot is frozen at creation.
func UpdateTax(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("tax", "update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var tax model.Tax
	if result := database.GetDB().First(&tax, id); result.Error != nil {
		return renderError(c, apperr.NotFound("tax not found"))
	}
	if err := requireProductAccess(c, tax.ProductID); err != nil {
		return renderError(c, err)
	}

	var req TaxRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !model.ValidTaxType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be percentage or fixed"})
	}
	if req.Value < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "value must be non-negative"})
	}

	if req.Name != tax.Name {
		var count int64
		database.GetDB().Model(&model.Tax{}).
			Where("name = ? AND product_id = ? AND id != ?", req.Name, tax.ProductID, tax.ID).
			Count(&count)
		if count > 0 {
			return renderError(c, apperr.Conflict("a tax with this name already exists for this product"))
		}
	}

	tax.Name = req.Name
	tax.Type = req.Type
	tax.Value = req.Value
	if req.Active != nil {
		tax.Active = *req.Active
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&tax); result.Error != nil {
		log.Error("Failed to update tax", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tax update failed"})
	}
	return c.JSON(http.StatusOK, tax)
}

// DeleteTax removes a tax rule within the caller's product scope
func DeleteTax(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("tax", "delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var tax model.Tax
	if result := database.GetDB().First(&tax, id); result.Error != nil {
		return renderError(c, apperr.NotFound("tax not found"))
	}
	if err := requireProductAccess(c, tax.ProductID); err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&tax); result.Error != nil {
		log.Error("Failed to delete tax", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tax deletion failed"})
	}

	log.Info("Tax deleted", zap.Uint("tax_id", tax.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "tax deleted successfully"})
}
