package handler

import (
	"net/http"

	"school-service/internal/model"
	"school-service/pkg/logger"
	"school-service/pkg/validation"
	"school-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createSchoolRequest struct {
	ID      string `param:"id" json:"-" validate:"required,mongodb"`
	Name    string `json:"name" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Country string `json:"country" validate:"required"`
}

func (r *createSchoolRequest) sanitize() {
	r.Name = validation.Clean(r.Name)
	r.City = validation.Clean(r.City)
	r.State = validation.Clean(r.State)
	r.Country = validation.Clean(r.Country)
}

// ListSchools returns every school
func (h *Handler) ListSchools(c echo.Context) error {
	log := logger.FromContext(c)

	schools, err := h.schools.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list schools", zap.Error(err))
		prometheus.RecordError("db_error")
		return fail(c, http.StatusNotImplemented, "")
	}
	prometheus.RecordSchoolOperation("list")

	log.Debug("Schools retrieved", zap.Int("count", len(schools)))
	return list(c, model.SchoolViews(schools))
}

// ListStudents returns the users whose schoolId equals the path id
func (h *Handler) ListStudents(c echo.Context) error {
	log := logger.FromContext(c)
	schoolID := c.Param("id")

	users, err := h.users.ListBySchool(c.Request().Context(), schoolID)
	if err != nil {
		log.Error("Failed to list students", zap.String("school_id", schoolID), zap.Error(err))
		prometheus.RecordError("db_error")
		return fail(c, http.StatusNotImplemented, "")
	}
	prometheus.RecordSchoolOperation("students")

	return list(c, model.UserViews(users))
}

// CreateSchool stores a school under the caller-supplied id
func (h *Handler) CreateSchool(c echo.Context) error {
	log := logger.FromContext(c)

	var req createSchoolRequest
	if err := bindRequest(c, &req); err != nil {
		return invalid(c, err)
	}

	id, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return invalid(c, err)
	}

	school := model.School{
		ID:       id,
		PublicID: model.GeneratePublicID(),
		Name:     req.Name,
		City:     req.City,
		State:    req.State,
		Country:  req.Country,
		Created:  h.timestamp(),
	}

	if err := h.schools.Create(c.Request().Context(), &school); err != nil {
		log.Error("Failed to create school", zap.String("school_id", req.ID), zap.Error(err))
		prometheus.RecordError("db_error")
		return fail(c, http.StatusNotImplemented, "")
	}
	prometheus.RecordSchoolOperation("create")

	log.Info("School created", zap.String("school_id", req.ID), zap.String("public_id", school.PublicID))
	return c.JSON(http.StatusCreated, statusResponse{Status: true})
}
