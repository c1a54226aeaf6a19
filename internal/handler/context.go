package handler

import (
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/model"
	"storefront-service/internal/service"
	"storefront-service/pkg/database"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
)

// authUserID returns the authenticated user's id set by AuthMiddleware.
func authUserID(c echo.Context) uint {
	id, _ := c.Get("user_id").(uint)
	return id
}

// authRole returns the authenticated user's role set by AuthMiddleware.
func authRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// renderError maps a classified error onto the HTTP response.
func renderError(c echo.Context, err error) error {
	appErr := apperr.From(err)
	return c.JSON(appErr.HTTPStatus(), echo.Map{"error": appErr.Message, "kind": appErr.Kind})
}

// assignedProductIDs loads the caller's product assignment set.
func assignedProductIDs(userID uint) ([]uint, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var ids []uint
	err := database.GetDB().Model(&model.UserProduct{}).
		Where("user_id = ?", userID).
		Pluck("product_id", &ids).Error
	return ids, err
}

// requireProductAccess verifies the caller may act on the given product.
// Super admins bypass the assignment check.
func requireProductAccess(c echo.Context, productID uint) error {
	role := authRole(c)
	if role == model.RoleSuperAdmin {
		return nil
	}
	ids, err := assignedProductIDs(authUserID(c))
	if err != nil {
		return apperr.Internal("failed to load product assignments")
	}
	if !service.CanAccessProduct(role, ids, productID) {
		return apperr.Forbidden("no access to this product")
	}
	return nil
}

// scopeCatalogQuery narrows a catalog list to the caller's product set.
// An explicit product_id query param must itself be inside the set.
func scopeCatalogQuery(c echo.Context, productIDParam string) ([]uint, bool, error) {
	role := authRole(c)
	if role == model.RoleSuperAdmin {
		if productIDParam != "" {
			id, err := parseID(productIDParam)
			if err != nil {
				return nil, false, err
			}
			return []uint{id}, false, nil
		}
		return nil, true, nil
	}

	ids, err := assignedProductIDs(authUserID(c))
	if err != nil {
		return nil, false, apperr.Internal("failed to load product assignments")
	}
	if productIDParam != "" {
		id, err := parseID(productIDParam)
		if err != nil {
			return nil, false, err
		}
		if !service.CanAccessProduct(role, ids, id) {
			return nil, false, apperr.Forbidden("no access to this product")
		}
		return []uint{id}, false, nil
	}
	return ids, false, nil
}

// resolveDomainProduct binds an unauthenticated storefront request to
// its product via the X-Product-Domain header (query param fallback).
// A miss is a distinguishable NotFound so clients can render a
// "no storefront for this domain" state instead of an empty catalog.
func resolveDomainProduct(c echo.Context) (*model.Product, error) {
	domain := c.Request().Header.Get("X-Product-Domain")
	if domain == "" {
		domain = c.QueryParam("domain")
	}
	domain = model.NormalizeDomain(domain)
	if domain == "" {
		return nil, apperr.BadRequest("domain is required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var product model.Product
	result := database.GetDB().Where("domain = ?", domain).First(&product)
	if result.Error != nil {
		prometheus.RecordDomainResolution(false)
		return nil, apperr.NotFound("no storefront is configured for this domain")
	}
	prometheus.RecordDomainResolution(true)
	return &product, nil
}

// parseID parses a numeric path or query parameter.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest("invalid id")
	}
	return uint(id), nil
}
