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

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	ProductID    uint   `json:"product_id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// SubCategoryRequest defines the structure for sub-category requests
type SubCategoryRequest struct {
	ProductID    uint   `json:"product_id"`
	CategoryID   uint   `json:"category_id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// ListCategories retrieves categories within the caller's product scope
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("category", "list")

	ids, all, err := scopeCatalogQuery(c, c.QueryParam("product_id"))
	if err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().Order("display_order asc, id asc")
	if !all {
		query = query.Where("product_id IN ?", ids)
	}

	var categories []model.Category
	if result := query.Find(&categories); result.Error != nil {
		log.Error("Failed to list categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve categories"})
	}
	return c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a category to a product the caller administers
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("category", "create")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ProductID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and name are required"})
	}
	if err := requireProductAccess(c, req.ProductID); err != nil {
		return renderError(c, err)
	}

	// Uniqueness is scoped to the owning product, never global
	var count int64
	database.GetDB().Model(&model.Category{}).
		Where("name = ? AND product_id = ?", req.Name, req.ProductID).
		Count(&count)
	if count > 0 {
		return renderError(c, apperr.Conflict("a category with this name already exists for this product"))
	}

	category := model.Category{
		ProductID:    req.ProductID,
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&category); result.Error != nil {
		log.Error("Failed to create category", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category creation failed"})
	}

	log.Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.Uint("product_id", category.ProductID))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory edits a category within the caller's product scope
func UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("category", "update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var category model.Category
	if result := database.GetDB().First(&category, id); result.Error != nil {
		return renderError(c, apperr.NotFound("category not found"))
	}
	if err := requireProductAccess(c, category.ProductID); err != nil {
		return renderError(c, err)
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if req.Name != category.Name {
		var count int64
		database.GetDB().Model(&model.Category{}).
			Where("name = ? AND product_id = ? AND id != ?", req.Name, category.ProductID, category.ID).
			Count(&count)
		if count > 0 {
			return renderError(c, apperr.Conflict("a category with this name already exists for this product"))
		}
	}

	category.Name = req.Name
	category.DisplayOrder = req.DisplayOrder

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&category); result.Error != nil {
		log.Error("Failed to update category", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category update failed"})
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category within the caller's product scope
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("category", "delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var category model.Category
	if result := database.GetDB().First(&category, id); result.Error != nil {
		return renderError(c, apperr.NotFound("category not found"))
	}
	if err := requireProductAccess(c, category.ProductID); err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&category); result.Error != nil {
		log.Error("Failed to delete category", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category deletion failed"})
	}

	log.Info("Category deleted", zap.Uint("category_id", category.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted successfully"})
}

// ListSubCategories retrieves sub-categories within the caller's scope
func ListSubCategories(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("sub_category", "list")

	ids, all, err := scopeCatalogQuery(c, c.QueryParam("product_id"))
	if err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().Order("display_order asc, id asc")
	if !all {
		query = query.Where("product_id IN ?", ids)
	}
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var subCategories []model.SubCategory
	if result := query.Find(&subCategories); result.Error != nil {
		log.Error("Failed to list sub-categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve sub-categories"})
	}
	return c.JSON(http.StatusOK, subCategories)
}

// CreateSubCategory adds a sub-category under a parent category
func CreateSubCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("sub_category", "create")

	var req SubCategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ProductID == 0 || req.CategoryID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id, category_id and name are required"})
	}
	if err := requireProductAccess(c, req.ProductID); err != nil {
		return renderError(c, err)
	}

	// Parent category must belong to the same product
	var parent model.Category
	result := database.GetDB().
		Where("id = ? AND product_id = ?", req.CategoryID, req.ProductID).
		First(&parent)
	if result.Error != nil {
		return renderError(c, apperr.NotFound("parent category not found for this product"))
	}

	var count int64
	database.GetDB().Model(&model.SubCategory{}).
		Where("name = ? AND product_id = ? AND category_id = ?", req.Name, req.ProductID, req.CategoryID).
		Count(&count)
	if count > 0 {
		return renderError(c, apperr.Conflict("a sub-category with this name already exists under this category"))
	}

	subCategory := model.SubCategory{
		ProductID:    req.ProductID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&subCategory); result.Error != nil {
		log.Error("Failed to create sub-category", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sub-category creation failed"})
	}

	log.Info("Sub-category created",
		zap.Uint("sub_category_id", subCategory.ID),
		zap.Uint("category_id", subCategory.CategoryID))
	return c.JSON(http.StatusCreated, subCategory)
}

// UpdateSubCategory edits a sub-category within the caller's scope
func UpdateSubCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("sub_category", "update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var subCategory model.SubCategory
	if result := database.GetDB().First(&subCategory, id); result.Error != nil {
		return renderError(c, apperr.NotFound("sub-category not found"))
	}
	if err := requireProductAccess(c, subCategory.ProductID); err != nil {
		return renderError(c, err)
	}

	var req SubCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if req.Name != subCategory.Name {
		var count int64
		database.GetDB().Model(&model.SubCategory{}).
			Where("name = ? AND product_id = ? AND category_id = ? AND id != ?",
				req.Name, subCategory.ProductID, subCategory.CategoryID, subCategory.ID).
			Count(&count)
		if count > 0 {
			return renderError(c, apperr.Conflict("a sub-category with this name already exists under this category"))
		}
	}

	subCategory.Name = req.Name
	subCategory.DisplayOrder = req.DisplayOrder

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&subCategory); result.Error != nil {
		log.Error("Failed to update sub-category", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sub-category update failed"})
	}
	return c.JSON(http.StatusOK, subCategory)
}

// DeleteSubCategory removes a sub-category within the caller's scope
func DeleteSubCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("sub_category", "delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var subCategory model.SubCategory
	if result := database.GetDB().First(&subCategory, id); result.Error != nil {
		return renderError(c, apperr.NotFound("sub-category not found"))
	}
	if err := requireProductAccess(c, subCategory.ProductID); err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&subCategory); result.Error != nil {
		log.Error("Failed to delete sub-category", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sub-category deletion failed"})
	}

	log.Info("Sub-category deleted", zap.Uint("sub_category_id", subCategory.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "sub-category deleted successfully"})
}
