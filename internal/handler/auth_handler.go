package handler

import (
	"net/http"
	"time"

	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a user against the storefront domain the request
// came from. Super admins may log in through any domain; everyone else
// must hold an assignment for the product the domain resolves to.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Domain   string `json:"domain"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	// Find user by username or email
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Where("username = ? OR email = ?", identifier, identifier).First(&user)
	if result.Error != nil {
		log.Warn("User not found", zap.String("identifier", identifier))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("username", user.Username))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Non-super-admins may only enter through a domain they are assigned to
	if user.Role != model.RoleSuperAdmin {
		domain := model.NormalizeDomain(req.Domain)
		if domain == "" {
			prometheus.RecordAuthError("missing_domain")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "domain is required"})
		}

		var product model.Product
		if result := database.GetDB().Where("domain = ?", domain).First(&product); result.Error != nil {
			log.Warn("Login against unknown domain", zap.String("domain", domain))
			prometheus.RecordAuthError("domain_not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no storefront is configured for this domain"})
		}

		var count int64
		database.GetDB().Model(&model.UserProduct{}).
			Where("user_id = ? AND product_id = ?", user.ID, product.ID).
			Count(&count)
		if count == 0 {
			log.Warn("Login denied: user not assigned to domain's product",
				zap.String("username", user.Username),
				zap.Uint("product_id", product.ID))
			prometheus.RecordAuthError("domain_access_denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied for this storefront"})
		}
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	token, err := jwtutil.GenerateToken(user.ID, user.Username, email, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Register creates a customer account bound to the storefront the
// domain resolves to. The user row and its product assignment are
// written in one transaction so the at-least-one-product invariant
// holds from the first commit.
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Domain   string `json:"domain"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Username == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	domain := model.NormalizeDomain(req.Domain)
	if domain == "" {
		prometheus.RecordAuthError("missing_domain")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "domain is required"})
	}

	var product model.Product
	if result := database.GetDB().Where("domain = ?", domain).First(&product); result.Error != nil {
		log.Warn("Registration against unknown domain", zap.String("domain", domain))
		prometheus.RecordAuthError("domain_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no storefront is configured for this domain"})
	}

	// Check uniqueness of username and email
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	database.GetDB().Model(&model.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		prometheus.RecordAuthError("username_taken")
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already registered"})
	}
	if req.Email != "" {
		database.GetDB().Model(&model.User{}).Where("email = ?", req.Email).Count(&count)
		if count > 0 {
			prometheus.RecordAuthError("email_taken")
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Role:     model.RoleUser,
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

	if result := tx.Create(&user); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	assignment := model.UserProduct{UserID: user.ID, ProductID: product.ID}
	if result := tx.Create(&assignment); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create product assignment", zap.Error(result.Error))
		prometheus.RecordAuthError("assignment_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("Customer registered",
		zap.String("username", user.Username),
		zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// GetProfile returns the authenticated user's account and assignments.
func GetProfile(c echo.Context) error {
	log := logger.FromContext(c)
	userID := authUserID(c)

	var user model.User
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		log.Error("User not found", zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	ids, err := assignedProductIDs(userID)
	if err != nil {
		log.Error("Failed to load product assignments", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":        user,
		"product_ids": ids,
	})
}

// UpdateProfile lets the authenticated user change their own username
// or email. Role and product assignments are admin territory.
func UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)
	userID := authUserID(c)

	var user model.User
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updates := map[string]interface{}{}
	if req.Username != nil && *req.Username != "" && *req.Username != user.Username {
		var count int64
		database.GetDB().Model(&model.User{}).
			Where("username = ? AND id != ?", *req.Username, user.ID).
			Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already registered"})
		}
		updates["username"] = *req.Username
	}
	if req.Email != nil {
		if *req.Email != "" {
			var count int64
			database.GetDB().Model(&model.User{}).
				Where("email = ? AND id != ?", *req.Email, user.ID).
				Count(&count)
			if count > 0 {
				return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
			}
			updates["email"] = *req.Email
		} else {
			updates["email"] = nil
		}
	}

	if len(updates) > 0 {
		defer prometheus.TrackDBOperation("update")(time.Now())
		if err := database.GetDB().Model(&user).Updates(updates).Error; err != nil {
			log.Error("Failed to update profile", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "profile update failed"})
		}
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, user)
}

// ChangePassword rotates the authenticated user's password.
func ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)
	userID := authUserID(c)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current and new passwords are required"})
	}

	var user model.User
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is incorrect"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password change failed"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Error("Failed to update password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password change failed"})
	}

	log.Info("Password changed", zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed successfully"})
}
