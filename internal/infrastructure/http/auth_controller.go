package http

import (
	"encoding/json"
	"net/http"

	"softball-scorebook/internal/infrastructure/auth"
	"softball-scorebook/pkg/errors"
	jwtutil "softball-scorebook/pkg/jwt"
	"softball-scorebook/pkg/middleware"
	"softball-scorebook/pkg/response"
)

// AuthController handles scorer registration and login
type AuthController struct {
	store      *auth.ScorerStore
	jwtManager *jwtutil.JWTManager
}

// NewAuthController creates a new auth controller
func NewAuthController(store *auth.ScorerStore, jwtManager *jwtutil.JWTManager) *AuthController {
	return &AuthController{
		store:      store,
		jwtManager: jwtManager,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=viewer scorer admin"`
}

// Register handles POST /auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError(err.Error()))
		return
	}

	account, err := c.store.Register(req.Username, req.Password, req.Name, req.Role)
	if err != nil {
		if err == auth.ErrUsernameTaken {
			middleware.HandleError(w, r, errors.NewConflictError("Username is already taken"))
			return
		}
		middleware.HandleError(w, r, errors.NewInternalError("Failed to register scorer"))
		return
	}

	responseData := map[string]interface{}{
		"user_id":  account.ID,
		"username": account.Username,
		"role":     account.Role,
	}
	response.SendCreated(w, r, responseData)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError(err.Error()))
		return
	}

	account, err := c.store.Authenticate(req.Username, req.Password)
	if err != nil {
		response.SendUnauthorized(w, r, "Invalid username or password")
		return
	}

	token, err := c.jwtManager.GenerateToken(account.ID, account.Name, account.Role)
	if err != nil {
		middleware.HandleError(w, r, errors.NewInternalError("Failed to generate token"))
		return
	}

	responseData := map[string]interface{}{
		"token":    token,
		"user_id":  account.ID,
		"username": account.Username,
		"role":     account.Role,
	}
	response.SendSuccess(w, r, responseData)
}
