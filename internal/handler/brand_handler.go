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

// BrandRequest covers both brand and personality requests; the two
// entities share the same shape.
type BrandRequest struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
}

// ListBrands retrieves brands within the caller's product scope
func ListBrands(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("brand", "list")

	ids, all, err := scopeCatalogQuery(c, c.QueryParam("product_id"))
	if err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().Order("name asc")
	if !all {
		query = query.Where("product_id IN ?", ids)
	}

	var brands []model.Brand
	if result := query.Find(&brands); result.Error != nil {
		log.Error("Failed to list brands", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve brands"})
	}
	return c.JSON(http.StatusOK, brands)
}

// CreateBrand adds a brand to a product the caller administers
func CreateBrand(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("brand", "create")

	var req BrandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ProductID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and name are required"})
	}
	if err := requireProductAccess(c, req.ProductID); err != nil {
		return renderError(c, err)
	}

	var count int64
	database.GetDB().Model(&model.Brand{}).
		Where("name = ? AND product_id = ?", req.Name, req.ProductID).
		Count(&count)
	if count > 0 {
		return renderError(c, apperr.Conflict("a brand with this name already exists for this product"))
	}

	brand := model.Brand{ProductID: req.ProductID, Name: req.Name}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&brand); result.Error != nil {
		log.Error("Failed to create brand", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "brand creation failed"})
	}

	log.Info("Brand created", zap.Uint("brand_id", brand.ID), zap.Uint("product_id", brand.ProductID))
	return c.JSON(http.StatusCreated, brand)
}

// UpdateBrand edits a brand within the caller's product scope
func UpdateBrand(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("brand", "update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var brand model.Brand
	if result := database.GetDB().First(&brand, id); result.Error != nil {
		return renderError(c, apperr.NotFound("brand not found"))
	}
	if err := requireProductAccess(c, brand.ProductID); err != nil {
		return renderError(c, err)
	}

	var req BrandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if req.Name != brand.Name {
		var count int64
		database.GetDB().Model(&model.Brand{}).
			Where("name = ? AND product_id = ? AND id != ?", req.Name, brand.ProductID, brand.ID).
			Count(&count)
		if count > 0 {
			return renderError(c, apperr.Conflict("a brand with this name already exists for this product"))
		}
	}

	brand.Name = req.Name

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&brand); result.Error != nil {
		log.Error("Failed to update brand", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "brand update failed"})
	}
	return c.JSON(http.StatusOK, brand)
}

// DeleteBrand removes a brand within the caller's product scope
func DeleteBrand(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("brand", "delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var brand model.Brand
	if result := database.GetDB().First(&brand, id); result.Error != nil {
		return renderError(c, apperr.NotFound("brand not found"))
	}
	if err := requireProductAccess(c, brand.ProductID); err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&brand); result.Error != nil {
		log.Error("Failed to delete brand", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "brand deletion failed"})
	}

	log.Info("Brand deleted", zap.Uint("brand_id", brand.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "brand deleted successfully"})
}

// ListPersonalities retrieves personalities within the caller's scope
func ListPersonalities(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("personality", "list")

	ids, all, err := scopeCatalogQuery(c, c.QueryParam("product_id"))
	if err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().Order("name asc")
	if !all {
		query = query.Where("product_id IN ?", ids)
	}

	var personalities []model.Personality
	if result := query.Find(&personalities); result.Error != nil {
		log.Error("Failed to list personalities", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve personalities"})
	}
	return c.JSON(http.StatusOK, personalities)
}

// CreatePersonality adds a personality to a product the caller administers
func CreatePersonality(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("personality", "create")

	var req BrandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ProductID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and name are required"})
	}
	if err := requireProductAccess(c, req.ProductID); err != nil {
		return renderError(c, err)
	}

	var count int64
	database.GetDB().Model(&model.Personality{}).
		Where("name = ? AND product_id = ?", req.Name, req.ProductID).
		Count(&count)
	if count > 0 {
		return renderError(c, apperr.Conflict("a personality with this name already exists for this product"))
	}

	personality := model.Personality{ProductID: req.ProductID, Name: req.Name}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&personality); result.Error != nil {
		log.Error("Failed to create personality", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "personality creation failed"})
	}

	log.Info("Personality created",
		zap.Uint("personality_id", personality.ID),
		zap.Uint("product_id", personality.ProductID))
	return c.JSON(http.StatusCreated, personality)
}

// DeletePersonality removes a personality within the caller's scope
func DeletePersonality(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("personality", "delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var personality model.Personality
	if result := database.GetDB().First(&personality, id); result.Error != nil {
		return renderError(c, apperr.NotFound("personality not found"))
	}
	if err := requireProductAccess(c, personality.ProductID); err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&personality); result.Error != nil {
		log.Error("Failed to delete personality", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "personality deletion failed"})
	}

	log.Info("Personality deleted", zap.Uint("personality_id", personality.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "personality deleted successfully"})
}
