package http

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"users-api/internal/apperr"
	"users-api/internal/service"
	"users-api/internal/validator"
)

// Handler wires HTTP routes to the user service.
//
// The record store behind the service is not safe for concurrent use, so
// handlers run their service calls one at a time. Request bodies are read
// before the lock is taken.
type Handler struct {
	users  service.UserService
	logger *logrus.Logger
	mu     sync.Mutex
}

func NewHandler(users service.UserService, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:  users,
		logger: logger,
	}
}

// RegisterRoutes installs middleware and the users routes on router. Paths
// that do not match a registered route are dispatched by fallback, which
// accepts any .../api/users/<id> path and answers 404 or 501 otherwise.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = false

	router.Use(requestLogger(h.logger), recovery(h.logger))

	api := router.Group("/api")
	{
		api.GET("/users", h.listUsers)
		api.POST("/users", h.createUser)
		api.GET("/users/:id", h.getUser)
		api.PUT("/users/:id", h.updateUser)
		api.DELETE("/users/:id", h.deleteUser)
	}

	router.NoRoute(h.fallback)
}

func (h *Handler) fallback(c *gin.Context) {
	shaped := validator.HasUUIDShape(c.Request.URL.Path)

	switch c.Request.Method {
	case http.MethodGet:
		if shaped {
			h.getUser(c)
			return
		}
	case http.MethodPut:
		if shaped {
			h.updateUser(c)
			return
		}
	case http.MethodDelete:
		if shaped {
			h.deleteUser(c)
			return
		}
	case http.MethodPost:
	default:
		h.respondError(c, apperr.New(apperr.MethodNotImplemented, fmt.Errorf("method %s", c.Request.Method)))
		return
	}

	h.respondError(c, apperr.New(apperr.NotFoundURL, fmt.Errorf("path %s", c.Request.URL.Path)))
}

func (h *Handler) listUsers(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) createUser(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	user, err := h.users.CreateUser(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	body, err := readBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	user, err := h.users.UpdateUser(c.Request.Context(), id, body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// userID validates the id segment of the request path and answers 400 when
// it is not a UUID.
func (h *Handler) userID(c *gin.Context) (string, bool) {
	path := c.Request.URL.Path
	if !validator.IsValidUUID(path) {
		h.respondError(c, apperr.New(apperr.InvalidID, fmt.Errorf("id %q", validator.ExtractID(path))))
		return "", false
	}
	return validator.ExtractID(path), true
}

// readBody buffers the whole request body; validation never sees a partial
// payload.
func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return body, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.InternalServerError {
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.Status(), ErrorResponse{Message: kind.Message()})
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}
