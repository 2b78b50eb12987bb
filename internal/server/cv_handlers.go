// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"cvhub/internal/models"
	"cvhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCV handles POST /api/cvs
// @Summary Create a CV
// @Description Create a CV owned by the authenticated user
// @Tags cvs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateCVInput true "CV to create"
// @Success 201 {object} models.CV
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /cvs [post]
func (s *Server) CreateCV(c *fiber.Ctx) error {
	var req struct {
		Title       string              `json:"title"`
		Summary     string              `json:"summary"`
		Skills      []string            `json:"skills"`
		Experiences []models.Experience `json:"experiences"`
		Education   []models.Education  `json:"education"`
		Visibility  models.Visibility   `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	cv, err := s.cvService.CreateCV(c.Context(), currentUser(c), service.CreateCVInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Skills:      req.Skills,
		Experiences: req.Experiences,
		Education:   req.Education,
		Visibility:  req.Visibility,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(cv)
}

// ListPublicCVs handles GET /api/cvs
// @Summary List public CVs
// @Description List publicly visible CVs, newest first
// @Tags cvs
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.CV
// @Router /cvs [get]
func (s *Server) ListPublicCVs(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	cvs, err := s.cvService.ListPublicCVs(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(cvs)
}

// GetMyCVs handles GET /api/cvs/me
// @Summary List own CVs
// @Description List the authenticated user's CVs regardless of visibility
// @Tags cvs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CV
// @Failure 401 {object} models.ErrorResponse
// @Router /cvs/me [get]
func (s *Server) GetMyCVs(c *fiber.Ctx) error {
	cvs, err := s.cvService.ListMyCVs(c.Context(), currentUser(c))
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(cvs)
}

// GetCV handles GET /api/cvs/:id
// @Summary Get a CV
// @Description Get a CV by ID; private CVs are only visible to their owner
// @Tags cvs
// @Produce json
// @Param id path int true "CV ID"
// @Success 200 {object} models.CV
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cvs/{id} [get]
func (s *Server) GetCV(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// Anonymous requests can read public CVs; a token widens access to the
	// requester's own private ones.
	requester := s.optionalUser(c)

	cv, err := s.cvService.GetCV(c.Context(), id, requester)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(cv)
}

// UpdateCV handles PUT /api/cvs/:id
// @Summary Update a CV
// @Description Partially update a CV; only the owner may update, and ownership cannot be transferred
// @Tags cvs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "CV ID"
// @Param request body service.UpdateCVInput true "Fields to update"
// @Success 200 {object} models.CV
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cvs/{id} [put]
func (s *Server) UpdateCV(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string              `json:"title"`
		Summary     *string              `json:"summary"`
		Skills      *[]string            `json:"skills"`
		Experiences *[]models.Experience `json:"experiences"`
		Education   *[]models.Education  `json:"education"`
		Visibility  *models.Visibility   `json:"visibility"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	cv, err := s.cvService.UpdateCV(c.Context(), id, currentUser(c), service.UpdateCVInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Skills:      req.Skills,
		Experiences: req.Experiences,
		Education:   req.Education,
		Visibility:  req.Visibility,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(cv)
}

// DeleteCV handles DELETE /api/cvs/:id
// @Summary Delete a CV
// @Description Delete a CV; only the owner may delete
// @Tags cvs
// @Produce json
// @Security BearerAuth
// @Param id path int true "CV ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cvs/{id} [delete]
func (s *Server) DeleteCV(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.cvService.DeleteCV(c.Context(), id, currentUser(c)); err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "CV deleted",
	})
}
