package handler

import (
	"net/http"
	"time"

	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ResolveProductByDomain resolves an inbound domain string to its
// product. This is the entry point of every storefront session.
func ResolveProductByDomain(c echo.Context) error {
	log := logger.FromContext(c)

	domain := model.NormalizeDomain(c.QueryParam("domain"))
	if domain == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "domain query parameter is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var product model.Product
	result := database.GetDB().Where("domain = ?", domain).First(&product)
	if result.Error != nil {
		log.Warn("No product for domain", zap.String("domain", domain))
		prometheus.RecordDomainResolution(false)
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "no storefront is configured for this domain",
			"hint":  "check the domain spelling or contact the administrator",
		})
	}

	prometheus.RecordDomainResolution(true)
	log.Info("Resolved product by domain",
		zap.String("domain", domain),
		zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusOK, product)
}

// PublicCategories lists the categories of the domain-resolved product.
func PublicCategories(c echo.Context) error {
	product, err := resolveDomainProduct(c)
	if err != nil {
		return renderError(c, err)
	}

	var categories []model.Category
	result := database.GetDB().
		Where("product_id = ?", product.ID).
		Order("display_order asc, id asc").
		Find(&categories)
	if result.Error != nil {
		logger.FromContext(c).Error("Failed to list public categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve categories"})
	}
	return c.JSON(http.StatusOK, categories)
}

// PublicSubCategories lists the sub-categories of the domain-resolved
// product, optionally narrowed to one parent category.
func PublicSubCategories(c echo.Context) error {
	product, err := resolveDomainProduct(c)
	if err != nil {
		return renderError(c, err)
	}

	query := database.GetDB().Where("product_id = ?", product.ID)
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var subCategories []model.SubCategory
	result := query.Order("display_order asc, id asc").Find(&subCategories)
	if result.Error != nil {
		logger.FromContext(c).Error("Failed to list public sub-categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve sub-categories"})
	}
	return c.JSON(http.StatusOK, subCategories)
}

// PublicBrands lists the brands of the domain-resolved product.
func PublicBrands(c echo.Context) error {
	product, err := resolveDomainProduct(c)
	if err != nil {
		return renderError(c, err)
	}

	var brands []model.Brand
	result := database.GetDB().Where("product_id = ?", product.ID).Order("name asc").Find(&brands)
	if result.Error != nil {
		logger.FromContext(c).Error("Failed to list public brands", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve brands"})
	}
	return c.JSON(http.StatusOK, brands)
}

// PublicItems lists the active items of the domain-resolved product
// with brand, personality and tag associations preloaded.
func PublicItems(c echo.Context) error {
	product, err := resolveDomainProduct(c)
	if err != nil {
		return renderError(c, err)
	}

	query := database.GetDB().
		Preload("Brand").
		Preload("Personality").
		Preload("Categories").
		Preload("SubCategories").
		Where("product_id = ? AND active = ?", product.ID, true)

	var items []model.Item
	result := query.Order("id asc").Find(&items)
	if result.Error != nil {
		logger.FromContext(c).Error("Failed to list public items", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve items"})
	}
	return c.JSON(http.StatusOK, items)
}

// PublicTaxes lists the active tax rows of the domain-resolved product
// so clients can preview the checkout breakdown.
func PublicTaxes(c echo.Context) error {
	product, err := resolveDomainProduct(c)
	if err != nil {
		return renderError(c, err)
	}

	var taxes []model.Tax
	result := database.GetDB().
		Where("product_id = ? AND active = ?", product.ID, true).
		Find(&taxes)
	if result.Error != nil {
		logger.FromContext(c).Error("Failed to list public taxes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve taxes"})
	}
	return c.JSON(http.StatusOK, taxes)
}
