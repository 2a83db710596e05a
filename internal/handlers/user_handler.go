package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/videotube/backend/internal/auth"
	"github.com/videotube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for account and session business logic.
type UserService interface {
	// Method Register creates a user account, uploading the avatar and the optional cover image to the media store.
	//
	// "req" carries the text fields and the local paths of the uploaded images.
	// If an upload or the insert fails, uploaded images are deleted again and the error is returned together with "nil" value.
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	// Method Login checks the credentials and issues a new pair of tokens.
	//
	// "req.Login" may be a username or an email.
	// If the user does not exist or the password does not match, the error will be returned together with "nil" value.
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	// Method Refresh rotates the token pair of the user identified by the refresh token.
	//
	// The refresh token must be the one currently stored for the user; it can be used only once.
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error)
	// Method Logout forgets the stored refresh token of the user.
	Logout(ctx context.Context, userID primitive.ObjectID) error
	// Method GetByID retrieve a user by its ID.
	GetByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

// CookieSettings configures the lifetime of the token cookies
type CookieSettings struct {
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// UserHandler handles HTTP requests for accounts and sessions
type UserHandler struct {
	BaseHandler
	userService UserService
	cookies     CookieSettings
	tempDir     string
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc UserService, cookies CookieSettings, tempDir string, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{logger: logger},
		userService: svc,
		cookies:     cookies,
		tempDir:     tempDir,
	}
}

// RegisterRoutes registers all user handler routes
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})
}

// Register handles POST /users/register
// @Summary Register user
// @Description Register a new user. The avatar is required, the cover image is optional. Both are uploaded to the media store.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param fullName formData string true "Full name"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} models.APIResponse{data=models.User} "User registered"
// @Failure 400 {object} models.APIResponse "Missing fields or avatar"
// @Failure 409 {object} models.APIResponse "Username or email already taken"
// @Failure 500 {object} models.APIResponse "Upload or persistence failure"
// @Router /users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	intake := newUploadIntake(h.tempDir, h.logger)
	defer intake.cleanup(r)

	if err := intake.parse(r); err != nil {
		h.logger.Error("failed to parse register form", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	req := models.RegisterRequest{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		FullName: r.FormValue("fullName"),
		Password: r.FormValue("password"),
	}

	var err error
	if req.AvatarPath, err = intake.save(r, "avatar"); err != nil {
		h.logger.Error("failed to save avatar", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to process avatar file")
		return
	}
	if req.CoverImagePath, err = intake.save(r, "coverImage"); err != nil {
		h.logger.Error("failed to save cover image", zap.Error(err))
		h.respondError(w, http.StatusBadRequest, "failed to process cover image file")
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, user, "user registered successfully")
}

// Login handles POST /users/login
// @Summary Login user
// @Description Authenticate with username or email and password. Tokens are returned in the body and as HTTP-only cookies.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.APIResponse{data=models.AuthResult} "Logged in"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 404 {object} models.APIResponse "User does not exist"
// @Router /users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.userService.Login(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.setTokenCookies(w, result.AccessToken, result.RefreshToken)
	h.respondJSON(w, http.StatusOK, result, "user logged in successfully")
}

// Refresh handles POST /users/refresh
// @Summary Refresh tokens
// @Description Rotate the token pair. The refresh token can be provided in the request body or as a cookie.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest false "Refresh token (optional if using cookie)"
// @Success 200 {object} models.APIResponse{data=models.AuthResult} "Tokens refreshed"
// @Failure 401 {object} models.APIResponse "Invalid or used refresh token"
// @Router /users/refresh [post]
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	refreshToken := ""
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		refreshToken = req.RefreshToken
	} else if cookie, err := r.Cookie(auth.RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	result, err := h.userService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.setTokenCookies(w, result.AccessToken, result.RefreshToken)
	h.respondJSON(w, http.StatusOK, result, "access token refreshed")
}

// Logout handles POST /users/logout
// @Summary Logout user
// @Description Forget the stored refresh token and clear the token cookies. Requires authentication.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.APIResponse "Logged out"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /users/logout [post]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.userService.Logout(r.Context(), userID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.clearTokenCookies(w)
	h.respondJSON(w, http.StatusOK, struct{}{}, "user logged out")
}

// Me handles GET /users/me
// @Summary Current user
// @Description Get the authenticated user. Requires authentication.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.APIResponse{data=models.User} "Current user"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user, "current user fetched successfully")
}

// setTokenCookies sets access and refresh tokens as HTTP-only cookies
func (h *UserHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, tokenCookie(auth.AccessTokenCookie, accessToken, int(h.cookies.AccessMaxAge.Seconds())))
	http.SetCookie(w, tokenCookie(auth.RefreshTokenCookie, refreshToken, int(h.cookies.RefreshMaxAge.Seconds())))
}

// clearTokenCookies expires both token cookies
func (h *UserHandler) clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, tokenCookie(auth.AccessTokenCookie, "", -1))
	http.SetCookie(w, tokenCookie(auth.RefreshTokenCookie, "", -1))
}

func tokenCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
