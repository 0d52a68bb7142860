package handler

import (
	"time"

	"school-service/internal/repository"
	"school-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs the bearer tokens returned by signup and signin
type TokenIssuer interface {
	GenerateSignupToken(profile jwtutil.Profile) (string, error)
	GenerateToken(email string) (string, error)
}

// Handler serves the user and school endpoints
type Handler struct {
	users      repository.UserRepository
	schools    repository.SchoolRepository
	tokens     TokenIssuer
	bcryptCost int
	now        func() time.Time
}

// New creates a Handler. A bcryptCost outside bcrypt's range falls back to bcrypt.DefaultCost.
func New(users repository.UserRepository, schools repository.SchoolRepository, tokens TokenIssuer, bcryptCost int) *Handler {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Handler{
		users:      users,
		schools:    schools,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register mounts every route, including the catch-all fallback
func (h *Handler) Register(e *echo.Echo) {
	users := e.Group("/user")
	users.POST("/signup", h.Signup)
	users.POST("/signin", h.Signin)
	users.GET("/get", h.ListUsers)
	users.PATCH("/:id", h.UpdateUser)

	schools := e.Group("/school")
	schools.GET("/get", h.ListSchools)
	schools.GET("/:id/students", h.ListStudents)
	schools.POST("/:id", h.CreateSchool)

	e.GET("/health", HealthCheck)
	e.Any("/*", Fallback)
}

// timestamp returns the current time at the precision the document store keeps
func (h *Handler) timestamp() time.Time {
	return h.now().UTC().Truncate(time.Millisecond)
}
