package handler

import (
	"net/http"
	"time"

	"storefront-service/internal/apperr"
	"storefront-service/internal/model"
	"storefront-service/internal/service"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// userResponse is the admin-facing view of a user account.
type userResponse struct {
	ID         uint    `json:"id"`
	Username   string  `json:"username"`
	Email      *string `json:"email,omitempty"`
	Role       string  `json:"role"`
	ProductIDs []uint  `json:"product_ids"`
}

func toUserResponse(user model.User, productIDs []uint) userResponse {
	if productIDs == nil {
		productIDs = []uint{}
	}
	return userResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		ProductIDs: productIDs,
	}
}

// manageGate loads the target user and verifies the caller may manage
// it under the full-coverage rule. Super admins bypass coverage.
func manageGate(c echo.Context, targetID uint) (*model.User, []uint, error) {
	var target model.User
	if result := database.GetDB().First(&target, targetID); result.Error != nil {
		return nil, nil, apperr.NotFound("user not found")
	}

	targetProducts, err := assignedProductIDs(target.ID)
	if err != nil {
		return nil, nil, apperr.Internal("failed to load product assignments")
	}

	callerRole := authRole(c)
	if callerRole == model.RoleSuperAdmin {
		return &target, targetProducts, nil
	}

	callerProducts, err := assignedProductIDs(authUserID(c))
	if err != nil {
		return nil, nil, apperr.Internal("failed to load product assignments")
	}
	if !service.CanManageUser(callerRole, callerProducts, target.Role, targetProducts) {
		return nil, nil, apperr.Forbidden("user is outside your product scope")
	}
	return &target, targetProducts, nil
}

// countExistingProducts verifies that every requested product id exists.
func countExistingProducts(tx *gorm.DB, ids []uint) (bool, error) {
	var count int64
	if err := tx.Model(&model.Product{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(ids)), nil
}

// replaceAssignments atomically swaps a user's full assignment set
// inside the caller's transaction. Delete-then-insert as one unit, so a
// failure leaves the prior assignments intact.
func replaceAssignments(tx *gorm.DB, userID uint, productIDs []uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&model.UserProduct{}).Error; err != nil {
		return err
	}
	for _, productID := range productIDs {
		assignment := model.UserProduct{UserID: userID, ProductID: productID}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
	}
	return nil
}

// validateAssignmentRequest applies the assignment contract: product ids
// must exist and be unique, scoped admins may only hand out products
// from their own set, and the resulting set must be non-empty unless
// the target is a super admin.
func validateAssignmentRequest(c echo.Context, tx *gorm.DB, targetRole string, productIDs []uint) error {
	seen := make(map[uint]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, dup := seen[id]; dup {
			return apperr.BadRequest("duplicate product id in assignment set")
		}
		seen[id] = struct{}{}
	}

	if len(productIDs) == 0 {
		if targetRole != model.RoleSuperAdmin {
			return apperr.InvalidState("a non-super-admin user must keep at least one product")
		}
		return nil
	}

	ok, err := countExistingProducts(tx, productIDs)
	if err != nil {
		return apperr.Internal("failed to validate products")
	}
	if !ok {
		return apperr.NotFound("one or more products do not exist")
	}

	if authRole(c) != model.RoleSuperAdmin {
		callerProducts, err := assignedProductIDs(authUserID(c))
		if err != nil {
			return apperr.Internal("failed to load product assignments")
		}
		if !service.CoversAll(callerProducts, productIDs) {
			return apperr.Forbidden("cannot assign products outside your own scope")
		}
	}
	return nil
}

// ListUsers returns the users visible to the caller: all of them for a
// super admin, and only fully-covered users for a scoped admin.
func ListUsers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	var users []model.User
	if result := database.GetDB().Order("id asc").Find(&users); result.Error != nil {
		log.Error("Failed to list users", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve users"})
	}

	callerRole := authRole(c)
	var callerProducts []uint
	if callerRole != model.RoleSuperAdmin {
		var err error
		callerProducts, err = assignedProductIDs(authUserID(c))
		if err != nil {
			log.Error("Failed to load caller assignments", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve users"})
		}
	}

	response := make([]userResponse, 0, len(users))
	for _, user := range users {
		productIDs, err := assignedProductIDs(user.ID)
		if err != nil {
			log.Error("Failed to load user assignments", zap.Uint("user_id", user.ID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve users"})
		}
		if callerRole != model.RoleSuperAdmin &&
			!service.CanManageUser(callerRole, callerProducts, user.Role, productIDs) {
			continue
		}
		response = append(response, toUserResponse(user, productIDs))
	}

	return c.JSON(http.StatusOK, response)
}

// GetUser returns one user, coverage-gated.
func GetUser(c echo.Context) error {
	prometheus.RecordUserOperation("access")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	target, targetProducts, err := manageGate(c, id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(*target, targetProducts))
}

// CreateUser creates an account with a role and an initial product
// assignment set in one transaction. Only super admins may mint other
// super admins; everyone else must start with at least one product.
func CreateUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("create")

	var req struct {
		Username   string `json:"username"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		ProductIDs []uint `json:"product_ids"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse user creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}
	if req.Role == model.RoleSuperAdmin && authRole(c) != model.RoleSuperAdmin {
		prometheus.RecordAuthError("super_admin_grant_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only a super admin may grant the super_admin role"})
	}
	if req.Role == model.RoleSuperAdmin && len(req.ProductIDs) > 0 {
		return renderError(c, apperr.InvalidState("a super admin cannot hold product assignments"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	database.GetDB().Model(&model.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return renderError(c, apperr.Conflict("username already registered"))
	}
	if req.Email != "" {
		database.GetDB().Model(&model.User{}).Where("email = ?", req.Email).Count(&count)
		if count > 0 {
			return renderError(c, apperr.Conflict("email already registered"))
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	user := model.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Role:     req.Role,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := validateAssignmentRequest(c, tx, req.Role, req.ProductIDs); err != nil {
		tx.Rollback()
		return renderError(c, err)
	}

	if result := tx.Create(&user); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	if err := replaceAssignments(tx, user.ID, req.ProductIDs); err != nil {
		tx.Rollback()
		log.Error("Failed to create product assignments", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	log.Info("User created",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
		zap.Int("product_count", len(req.ProductIDs)))
	return c.JSON(http.StatusCreated, toUserResponse(user, req.ProductIDs))
}

// UpdateUser edits a user's account fields, coverage-gated. Role and
// assignment changes go through their dedicated endpoints.
func UpdateUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("update")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	target, targetProducts, err := manageGate(c, id)
	if err != nil {
		return renderError(c, err)
	}
	if target.Role == model.RoleSuperAdmin && authRole(c) != model.RoleSuperAdmin {
		return renderError(c, apperr.Forbidden("only a super admin may modify a super admin account"))
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updates := map[string]interface{}{}
	if req.Username != nil && *req.Username != "" && *req.Username != target.Username {
		var count int64
		database.GetDB().Model(&model.User{}).
			Where("username = ? AND id != ?", *req.Username, target.ID).
			Count(&count)
		if count > 0 {
			return renderError(c, apperr.Conflict("username already registered"))
		}
		updates["username"] = *req.Username
	}
	if req.Email != nil {
		if *req.Email != "" {
			var count int64
			database.GetDB().Model(&model.User{}).
				Where("email = ? AND id != ?", *req.Email, target.ID).
				Count(&count)
			if count > 0 {
				return renderError(c, apperr.Conflict("email already registered"))
			}
			updates["email"] = *req.Email
		} else {
			updates["email"] = nil
		}
	}
	if req.Password != nil && *req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash password", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user update failed"})
		}
		updates["password"] = string(hashedPassword)
	}

	if len(updates) > 0 {
		defer prometheus.TrackDBOperation("update")(time.Now())
		if err := database.GetDB().Model(target).Updates(updates).Error; err != nil {
			log.Error("Failed to update user", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user update failed"})
		}
	}

	log.Info("User updated", zap.Uint("user_id", target.ID))
	return c.JSON(http.StatusOK, toUserResponse(*target, targetProducts))
}

// DeleteUser removes a user and, via cascade, its assignments.
func DeleteUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("delete")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}
	if id == authUserID(c) {
		return renderError(c, apperr.InvalidState("cannot delete your own account"))
	}

	target, _, err := manageGate(c, id)
	if err != nil {
		return renderError(c, err)
	}
	if target.Role == model.RoleSuperAdmin && authRole(c) != model.RoleSuperAdmin {
		return renderError(c, apperr.Forbidden("only a super admin may delete a super admin account"))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&model.User{}, target.ID); result.Error != nil {
		log.Error("Failed to delete user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user deletion failed"})
	}

	log.Info("User deleted", zap.Uint("user_id", target.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted successfully"})
}

// UpdateUserRole changes a user's role under the role-change contract.
// Promotion to super_admin strips all product assignments in the same
// transaction; demotion away from super_admin requires a non-empty
// replacement assignment set validated like any other assignment.
func UpdateUserRole(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("role_change")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var req struct {
		Role       string `json:"role"`
		ProductIDs []uint `json:"product_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if !model.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	target, targetProducts, err := manageGate(c, id)
	if err != nil {
		return renderError(c, err)
	}

	// Only a super admin may grant or revoke super_admin, or touch an
	// existing super admin's account.
	if (req.Role == model.RoleSuperAdmin || target.Role == model.RoleSuperAdmin) &&
		authRole(c) != model.RoleSuperAdmin {
		prometheus.RecordAuthError("super_admin_role_change_denied")
		return renderError(c, apperr.Forbidden("only a super admin may grant or revoke the super_admin role"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var resultingProducts []uint
	if req.Role == model.RoleSuperAdmin {
		// Role and product scope are mutually exclusive: promotion
		// empties the assignment set.
		if err := tx.Where("user_id = ?", target.ID).Delete(&model.UserProduct{}).Error; err != nil {
			tx.Rollback()
			log.Error("Failed to strip product assignments", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role change failed"})
		}
		resultingProducts = []uint{}
	} else {
		resultingProducts = targetProducts
		if len(req.ProductIDs) > 0 || target.Role == model.RoleSuperAdmin {
			if err := validateAssignmentRequest(c, tx, req.Role, req.ProductIDs); err != nil {
				tx.Rollback()
				return renderError(c, err)
			}
			if err := replaceAssignments(tx, target.ID, req.ProductIDs); err != nil {
				tx.Rollback()
				log.Error("Failed to replace product assignments", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role change failed"})
			}
			resultingProducts = req.ProductIDs
		}
		if len(resultingProducts) == 0 {
			tx.Rollback()
			return renderError(c, apperr.InvalidState("a non-super-admin user must keep at least one product"))
		}
	}

	if err := tx.Model(&model.User{}).Where("id = ?", target.ID).Update("role", req.Role).Error; err != nil {
		tx.Rollback()
		log.Error("Failed to update role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role change failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role change failed"})
	}

	target.Role = req.Role
	log.Info("User role changed",
		zap.Uint("user_id", target.ID),
		zap.String("role", req.Role))
	return c.JSON(http.StatusOK, toUserResponse(*target, resultingProducts))
}

// AssignProducts atomically replaces a user's full product assignment
// set. All-or-nothing: a failing validation or insert leaves the prior
// assignments untouched.
func AssignProducts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordUserOperation("assign_products")

	id, err := parseID(c.Param("id"))
	if err != nil {
		return renderError(c, err)
	}

	var req struct {
		ProductIDs []uint `json:"product_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	target, _, err := manageGate(c, id)
	if err != nil {
		return renderError(c, err)
	}
	if target.Role == model.RoleSuperAdmin {
		return renderError(c, apperr.InvalidState("a super admin cannot hold product assignments"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	tx := database.GetDB().Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := validateAssignmentRequest(c, tx, target.Role, req.ProductIDs); err != nil {
		tx.Rollback()
		return renderError(c, err)
	}

	if err := replaceAssignments(tx, target.ID, req.ProductIDs); err != nil {
		tx.Rollback()
		log.Error("Failed to replace product assignments", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product assignment failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "product assignment failed"})
	}

	log.Info("Product assignments replaced",
		zap.Uint("user_id", target.ID),
		zap.Int("product_count", len(req.ProductIDs)))
	return c.JSON(http.StatusOK, toUserResponse(*target, req.ProductIDs))
}
