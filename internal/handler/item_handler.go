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

// ItemRequest defines the structure for item creation/update requests
type ItemRequest struct {
	ProductID      uint    `json:"product_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"image_url"`
	Weight         float64 `json:"weight"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
	BrandID        *uint   `json:"brand_id"`
	PersonalityID  *uint   `json:"personality_id"`
	Active         *bool   `json:"active"`
	CategoryIDs    []uint  `json:"category_ids"`
	SubCategoryIDs []uint  `json:"sub_category_ids"`
}

// validateItemRequest checks the request against the owning product:
// weight unique per product, brand/personality/tags must belong to the
// same product.
func validateItemRequest(req *ItemRequest, excludeID uint) error {
	if req.Name == "" || req.Weight <= 0 || req.Price < 0 {
		return apperr.BadRequest("name, positive weight and non-negative price are required")
	}

	var count int64
	query := database.GetDB().Model(&model.Item{}).
		Where("weight = ? AND product_id = ?", req.Weight, req.ProductID)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	query.Count(&count)
	if count > 0 {
		return apperr.Conflict("an item with this weight already exists for this product")
	}

	if req.BrandID != nil {
		database.GetDB().Model(&model.Brand{}).
			Where("id = ? AND product_id = ?", *req.BrandID, req.ProductID).
			Count(&count)
		if count == 0 {
			return apperr.NotFound("brand not found for this product")
		}
	}
	if req.PersonalityID != nil {
		database.GetDB().Model(&model.Personality{}).
			Where("id = ? AND product_id = ?", *req.PersonalityID, req.ProductID).
			Count(&count)
		if count == 0 {
			return apperr.NotFound("personality not found for this product")
		}
	}
	if len(req.CategoryIDs) > 0 {
		database.GetDB().Model(&model.Category{}).
			Where("id IN ? AND product_id = ?", req.CategoryIDs, req.ProductID).
			Count(&count)
		if count != int64(len(req.CategoryIDs)) {
			return apperr.NotFound("one or more categories not found for this product")
		}
	}
	if len(req.SubCategoryIDs) > 0 {
		database.GetDB().Model(&model.SubCategory{}).
			Where("id IN ? AND product_id = ?", req.SubCategoryIDs, req.ProductID).
			Count(&count)
		if count != int64(len(req.SubCategoryIDs)) {
			return apperr.NotFound("one or more sub-categories not found for this product")
		}
	}
	return nil
}

func loadTagRows(categoryIDs, subCategoryIDs []uint) ([]model.Category, []model.SubCategory, error) {
	var categories []model.Category
	if len(categoryIDs) > 0 {
		if err := database.GetDB().Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return nil, nil, err
		}
	}
	var subCategories []model.SubCategory
	if len(subCategoryIDs) > 0 {
		if err := database.GetDB().Where("id IN ?", subCategoryIDs).Find(&subCategories).Error; err != nil {
			return nil, nil, err
		}
	}
	return categories, subCategories, nil
}

// ListItems retrieves items within the caller's product scope
func ListItems(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("item", "list")

	ids, all, err := scopeCatalogQuery(c, c.QueryParam("product_id"))
	if err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().
		Preload("Brand").
		Preload("Personality").
		Preload("Categories").
		Preload("SubCategories").
		Order("id asc")
	if !all {
		query = query.Where("product_id IN ?", ids)
	}

	var items []model.Item
	if result := query.Find(&items); result.Error != nil {
		log.Error("Failed to list items", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve items"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetItem retrieves one item within the caller's product scope
func GetItem(c echo.Context) error {
	prometheus.RecordCatalogOperation("item", "access")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var item model.Item
	result := database.GetDB().
		Preload("Brand").
		Preload("Personality").
		Preload("Categories").
		Preload("SubCategories").
		First(&item, id)
	if result.Error != nil {
		return renderError(c, apperr.NotFound("item not found"))
	}
	if err := requireProductAccess(c, item.ProductID); err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// CreateItem adds an item to a product the caller administers. The item
// row and its tag associations are written in one transaction.
func CreateItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("item", "create")

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id is required"})
	}
	if err := requireProductAccess(c, req.ProductID); err != nil {
		return renderError(c, err)
	}
	if err := validateItemRequest(&req, 0); err != nil {
		return renderError(c, err)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	item := model.Item{
		ProductID:     req.ProductID,
		Name:          req.Name,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Weight:        req.Weight,
		Price:         req.Price,
		Stock:         req.Stock,
		BrandID:       req.BrandID,
		PersonalityID: req.PersonalityID,
		Active:        active,
	}

	categories, subCategories, err := loadTagRows(req.CategoryIDs, req.SubCategoryIDs)
	if err != nil {
		log.Error("Failed to load tag rows", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "item creation failed"})
	}
	item.Categories = categories
	item.SubCategories = subCategories

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&item); result.Error != nil {
		log.Error("Failed to create item", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "item creation failed"})
	}

	log.Info("Item created",
		zap.Uint("item_id", item.ID),
		zap.Uint("product_id", item.ProductID),
		zap.Float64("weight", item.Weight))
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem edits an item and replaces its tag associations
func UpdateItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("item", "update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var item model.Item
	if result := database.GetDB().First(&item, id); result.Error != nil {
		return renderError(c, apperr.NotFound("item not found"))
	}
	if err := requireProductAccess(c, item.ProductID); err != nil {
		return renderError(c, err)
	}

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	req.ProductID = item.ProductID
	if err := validateItemRequest(&req, item.ID); err != nil {
		return renderError(c, err)
	}

	item.Name = req.Name
	item.Description = req.Description
	item.ImageURL = req.ImageURL
	item.Weight = req.Weight
	item.Price = req.Price
	item.Stock = req.Stock
	item.BrandID = req.BrandID
	item.PersonalityID = req.PersonalityID
	if req.Active != nil {
		item.Active = *req.Active
	}

	categories, subCategories, err := loadTagRows(req.CategoryIDs, req.SubCategoryIDs)
	if err != nil {
		log.Error("Failed to load tag rows", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "item update failed"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if result := tx.Save(&item); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to update item", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "item update failed"})
	}
	if err := tx.Model(&item).Association("Categories").Replace(categories); err != nil {
		tx.Rollback()
		log.Error("Failed to replace category tags", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "item update failed"})
	}
	if err := tx.Model(&item).Association("SubCategories").Replace(subCategories); err != nil {
		tx.Rollback()
		log.Error("Failed to replace sub-category tags", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "item update failed"})
	}
	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "item update failed"})
	}

	log.Info("Item updated", zap.Uint("item_id", item.ID))
	return c.JSON(http.StatusOK, item)
}

// DeleteItem removes an item; historical orders keep their snapshots.
func DeleteItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("item", "delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var item model.Item
	if result := database.GetDB().First(&item, id); result.Error != nil {
		return renderError(c, apperr.NotFound("item not found"))
	}
	if err := requireProductAccess(c, item.ProductID); err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Select("Categories", "SubCategories").Delete(&item); result.Error != nil {
		log.Error("Failed to delete item", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "item deletion failed"})
	}

	log.Info("Item deleted", zap.Uint("item_id", item.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "item deleted successfully"})
}
