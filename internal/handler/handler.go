package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"account_service/internal/logger"
	"account_service/internal/service"
	"account_service/internal/storage"
)

type Options struct {
	StaticDir      string
	AllowedOrigins []string
}

type Handler struct {
	serviceLayer service.Service
	tokens       tokenParser
	log          *slog.Logger
	opts         Options
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func newErrorResponse(c *gin.Context, statusCode int, errMessage string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{Error: errMessage})
}

func NewHandler(srvc service.Service, tokens tokenParser, lgr *slog.Logger, opts Options) *Handler {
	return &Handler{
		serviceLayer: srvc,
		tokens:       tokens,
		log:          lgr,
		opts:         opts,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery(), RequestLogger(h.log), cors.New(corsConfig(h.opts.AllowedOrigins)))

	router.GET("/healthz", h.Health)

	users := router.Group("/api/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("/me", AuthMiddleware(h.tokens), h.Me)
	}

	if info, err := os.Stat(h.opts.StaticDir); err == nil && info.IsDir() {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(h.opts.StaticDir))))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		MaxAge:       12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	return cfg
}

func (h *Handler) opLogger(c *gin.Context, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", c.GetString(ctxRequestID)),
	)
}

// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /api/users/register
func (h *Handler) Register(c *gin.Context) {
	const op = "handler.Register"

	log := h.opLogger(c, op)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("failed to read request body", logger.Err(err))

		newErrorResponse(c, http.StatusBadRequest, "invalid request")

		return
	}

	if err := h.serviceLayer.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			log.Warn("email already registered", slog.String("email", req.Email))
		} else {
			log.Error("failed to register account", logger.Err(err))
		}

		newErrorResponse(c, http.StatusInternalServerError, "Registration failed.")

		return
	}

	log.Info("account registered", slog.String("email", req.Email))

	c.JSON(http.StatusCreated, messageResponse{Message: "User registered successfully."})
}

// POST /api/users/login
func (h *Handler) Login(c *gin.Context) {
	const op = "handler.Login"

	log := h.opLogger(c, op)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("failed to read request body", logger.Err(err))

		newErrorResponse(c, http.StatusBadRequest, "invalid request")

		return
	}

	token, err := h.serviceLayer.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			log.Info("login for unknown email", slog.String("email", req.Email))

			newErrorResponse(c, http.StatusNotFound, "User not found.")
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Info("login with invalid credentials", slog.String("email", req.Email))

			newErrorResponse(c, http.StatusUnauthorized, "Invalid credentials.")
		default:
			log.Error("failed to login", logger.Err(err))

			newErrorResponse(c, http.StatusInternalServerError, "Login failed.")
		}

		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// GET /api/users/me
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"id": c.GetString(ctxUserID)})
}
