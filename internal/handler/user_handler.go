package handler

import (
	"errors"
	"net/http"

	"school-service/internal/model"
	"school-service/internal/repository"
	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"
	"school-service/pkg/validation"
	"school-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Mobile    string `json:"mobile" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=5"`
}

func (r *signupRequest) sanitize() {
	r.FirstName = validation.Clean(r.FirstName)
	r.LastName = validation.Clean(r.LastName)
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *signinRequest) sanitize() {}

type updateUserRequest struct {
	ID       string  `param:"id" json:"-"`
	SchoolID *string `json:"schoolId"`
}

func (r *updateUserRequest) sanitize() {}

type signupResponse struct {
	Status bool   `json:"status"`
	Token  string `json:"token"`
}

type signinContent struct {
	Data  model.UserView `json:"data"`
	Token string         `json:"token"`
}

type signinResponse struct {
	Status  bool          `json:"status"`
	Content signinContent `json:"content"`
}

// Signup registers a user and returns a bearer token
func (h *Handler) Signup(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.SignupCounter.Inc()

	var req signupRequest
	if err := bindRequest(c, &req); err != nil {
		return invalid(c, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordError("password_hash_failed")
		return fail(c, http.StatusNotImplemented, "")
	}

	schoolID := primitive.NewObjectID().Hex()
	user := model.User{
		ID:        primitive.NewObjectID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Mobile:    req.Mobile,
		Password:  string(hash),
		Created:   h.timestamp(),
		SchoolID:  &schoolID,
	}

	if err := h.users.Create(c.Request().Context(), &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Warn("User already exists", zap.String("email", req.Email))
			prometheus.RecordError("user_exists")
			return fail(c, http.StatusBadRequest, "User already exists")
		}
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordError("db_error")
		return fail(c, http.StatusNotImplemented, "")
	}

	view := user.View()
	token, err := h.tokens.GenerateSignupToken(jwtutil.Profile(view))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordError("token_generation_failed")
		return fail(c, http.StatusNotImplemented, "")
	}
	prometheus.RecordTokenIssued("signup")

	log.Info("User registered", zap.String("email", user.Email), zap.String("user_id", view.ID))
	return c.JSON(http.StatusCreated, signupResponse{Status: true, Token: token})
}

// Signin checks the credentials and returns the profile with a bearer token
func (h *Handler) Signin(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.SigninCounter.Inc()

	var req signinRequest
	if err := bindRequest(c, &req); err != nil {
		return invalid(c, err)
	}

	user, err := h.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("User not found", zap.String("email", req.Email))
			prometheus.RecordError("user_not_found")
			return fail(c, http.StatusConflict, "User doesn't exist")
		}
		log.Error("Failed to look up user", zap.Error(err))
		prometheus.RecordError("db_error")
		return fail(c, http.StatusInternalServerError, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Warn("Invalid password", zap.String("email", req.Email))
			prometheus.RecordError("invalid_password")
			return fail(c, http.StatusUnauthorized, "Password Incorrect")
		}
		log.Error("Failed to compare password hash", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordError("password_compare_failed")
		return fail(c, http.StatusUnauthorized, "")
	}

	token, err := h.tokens.GenerateToken(user.Email)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordError("token_generation_failed")
		return fail(c, http.StatusInternalServerError, "")
	}
	prometheus.RecordTokenIssued("signin")

	log.Info("User signed in", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, signinResponse{
		Status: true,
		Content: signinContent{
			Data:  user.View(),
			Token: token,
		},
	})
}

// ListUsers returns every user's public fields
func (h *Handler) ListUsers(c echo.Context) error {
	log := logger.FromContext(c)

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		prometheus.RecordError("db_error")
		return fail(c, http.StatusNotImplemented, "")
	}

	log.Debug("Users retrieved", zap.Int("count", len(users)))
	return list(c, model.UserViews(users))
}

// UpdateUser associates a user with a school. The user and school are not
// checked for existence; a write that matches nothing still succeeds.
func (h *Handler) UpdateUser(c echo.Context) error {
	log := logger.FromContext(c)

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return invalid(c, err)
	}

	matched, err := h.users.SetSchool(c.Request().Context(), req.ID, req.SchoolID, h.timestamp())
	if err != nil {
		log.Error("Failed to update user school", zap.String("user_id", req.ID), zap.Error(err))
		prometheus.RecordError("db_error")
		return fail(c, http.StatusNotImplemented, "")
	}

	if matched == 0 {
		log.Warn("School association matched no user", zap.String("user_id", req.ID))
	} else {
		log.Info("User school updated", zap.String("user_id", req.ID))
	}
	return c.JSON(http.StatusCreated, statusResponse{Status: true})
}
