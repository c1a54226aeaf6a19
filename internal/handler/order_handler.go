package handler

import (
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/model"
	"storefront-service/internal/service"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// deliveryFee is the configured flat delivery fee applied to every
// checkout computation. Set once at startup.
var deliveryFee float64

// InitOrderHandler wires checkout configuration into the order handlers
func InitOrderHandler(cfg *config.Config) {
	deliveryFee = cfg.Checkout.DeliveryFee
}

// OrderLineRequest is one raw cart line submitted at checkout.
type OrderLineRequest struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// OrderRequest defines the structure for order creation requests. The
// totals block is optional; when present it is validated against the
// server recomputation, never persisted as-is.
type OrderRequest struct {
	ProductID       uint                       `json:"product_id"`
	Items           []OrderLineRequest         `json:"items"`
	DeliveryAddress string                     `json:"delivery_address"`
	AptSuite        string                     `json:"apt_suite"`
	ScheduledAt     *time.Time                 `json:"scheduled_at"`
	BagType         string                     `json:"bag_type"`
	Request         string                     `json:"request"`
	Totals          *service.CheckoutBreakdown `json:"totals"`
}

// newOrderNumber generates a unique order number. The database unique
// index remains the authority under concurrent placement.
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

// CreateOrder places an order: it recomputes the monetary breakdown
// from the authoritative catalog and tax state, snapshots the line
// items, and writes everything in one transaction.
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("create")
	userID := authUserID(c)

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse order request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if len(req.Items) == 0 {
		return renderError(c, apperr.InvalidState("cannot place an order with an empty cart"))
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return renderError(c, apperr.InvalidState("delivery address is required"))
	}
	if req.BagType == "" {
		req.BagType = model.BagTypeNormal
	}
	if !model.ValidBagType(req.BagType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bag_type must be normal or discrete"})
	}

	// Resolve the product: explicit id from the client, or the
	// storefront domain the request came through.
	productID := req.ProductID
	if productID == 0 {
		product, err := resolveDomainProduct(c)
		if err != nil {
			return renderError(c, err)
		}
		productID = product.ID
	}

	// The customer must be assigned to the storefront being ordered from
	if err := requireProductAccess(c, productID); err != nil {
		return renderError(c, err)
	}

	// Collapse duplicate lines and reject non-positive quantities
	quantities := make(map[uint]int, len(req.Items))
	itemIDs := make([]uint, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return renderError(c, apperr.InvalidState("line quantities must be positive"))
		}
		if _, seen := quantities[line.ItemID]; !seen {
			itemIDs = append(itemIDs, line.ItemID)
		}
		quantities[line.ItemID] += line.Quantity
	}

	// Load the authoritative item rows; prices come from the catalog,
	// never from the client.
	defer prometheus.TrackDBOperation("query")(time.Now())
	var items []model.Item
	result := database.GetDB().
		Where("id IN ? AND product_id = ? AND active = ?", itemIDs, productID, true).
		Find(&items)
	if result.Error != nil {
		log.Error("Failed to load order items", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order creation failed"})
	}
	if len(items) != len(itemIDs) {
		return renderError(c, apperr.NotFound("one or more items are not available in this storefront"))
	}

	lines := make([]service.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, service.CartLine{
			ItemID:   item.ID,
			Price:    item.Price,
			Quantity: quantities[item.ID],
		})
	}

	var taxes []model.Tax
	if err := database.GetDB().
		Where("product_id = ? AND active = ?", productID, true).
		Find(&taxes).Error; err != nil {
		log.Error("Failed to load taxes", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order creation failed"})
	}

	breakdown := service.ComputeCheckout(lines, taxes, deliveryFee)

	// Client totals are a checksum only: reject on mismatch, persist
	// the server figures regardless.
	if req.Totals != nil && !service.MatchesBreakdown(*req.Totals, breakdown) {
		log.Warn("Client totals mismatch",
			zap.Float64("client_total", req.Totals.Total),
			zap.Float64("server_total", breakdown.Total))
		prometheus.RecordAuthError("order_totals_mismatch")
		return renderError(c, apperr.InvalidState("submitted totals do not match the computed breakdown"))
	}

	order := model.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		ProductID:       productID,
		Status:          model.OrderStatusPending,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		AptSuite:        req.AptSuite,
		ScheduledAt:     req.ScheduledAt,
		BagType:         req.BagType,
		Request:         req.Request,
		Subtotal:        breakdown.Subtotal,
		Taxes:           breakdown.Taxes,
		DeliveryFee:     breakdown.DeliveryFee,
		Total:           breakdown.Total,
	}
	for _, item := range items {
		quantity := quantities[item.ID]
		order.Items = append(order.Items, model.OrderItem{
			Name:        item.Name,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			Price:       item.Price,
			Quantity:    quantity,
			Subtotal:    item.Price * float64(quantity),
		})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if result := tx.Create(&order); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create order", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order creation failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order creation failed"})
	}

	log.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
		zap.Float64("total", order.Total))
	return c.JSON(http.StatusCreated, order)
}

// ListMyOrders returns the authenticated user's own orders.
func ListMyOrders(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().
		Preload("Items").
		Where("user_id = ?", authUserID(c)).
		Order("created_at desc")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if result := query.Find(&orders); result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order, visible to its owner and to admins whose
// product scope covers the owning storefront.
func GetOrder(c echo.Context) error {
	prometheus.RecordOrderOperation("access")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var order model.Order
	result := database.GetDB().Preload("Items").First(&order, id)
	if result.Error != nil {
		return renderError(c, apperr.NotFound("order not found"))
	}

	if order.UserID != authUserID(c) {
		if !service.IsAdminRole(authRole(c)) {
			return renderError(c, apperr.Forbidden("not your order"))
		}
		if err := requireProductAccess(c, order.ProductID); err != nil {
			return renderError(c, err)
		}
	}
	return c.JSON(http.StatusOK, order)
}

// CancelOrder is the customer self-service cancellation transition.
// Allowed from pending, confirmed, preparing and arriving only.
func CancelOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("cancel")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var order model.Order
	if result := database.GetDB().First(&order, id); result.Error != nil {
		return renderError(c, apperr.NotFound("order not found"))
	}
	if order.UserID != authUserID(c) {
		return renderError(c, apperr.Forbidden("not your order"))
	}
	if err := service.CanCancel(order.Status); err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&order).Update("status", model.OrderStatusCancelled).Error; err != nil {
		log.Error("Failed to cancel order", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order cancellation failed"})
	}

	log.Info("Order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.Uint("user_id", order.UserID))
	order.Status = model.OrderStatusCancelled
	return c.JSON(http.StatusOK, order)
}

// ListOrders is the admin order listing, scoped to the caller's
// products.
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("list")

	ids, all, err := scopeCatalogQuery(c, c.QueryParam("product_id"))
	if err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().Preload("Items").Order("created_at desc")
	if !all {
		query = query.Where("product_id IN ?", ids)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if result := query.Find(&orders); result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus is the admin transition path. The state machine
// permits one forward step along the happy path, or a terminal branch
// (cancelled, rejected) from any non-terminal state. Rejection is only
// reachable here, making it admin-only.
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrderOperation("status_update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var order model.Order
	if result := database.GetDB().First(&order, id); result.Error != nil {
		return renderError(c, apperr.NotFound("order not found"))
	}
	if err := requireProductAccess(c, order.ProductID); err != nil {
		return renderError(c, err)
	}
	if err := service.CanTransition(order.Status, req.Status); err != nil {
		return renderError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&order).Update("status", req.Status).Error; err != nil {
		log.Error("Failed to update order status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status update failed"})
	}

	log.Info("Order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(order.Status)),
		zap.String("to", string(req.Status)))
	order.Status = req.Status
	return c.JSON(http.StatusOK, order)
}
