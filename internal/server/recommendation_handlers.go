// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"cvhub/internal/models"
	"cvhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateRecommendation handles POST /api/recommendations
// @Summary Create a recommendation
// @Description Leave a recommendation with a 1-5 rating on an existing CV
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{cv_id=int,content=string,rating=int} true "Recommendation to create"
// @Success 201 {object} models.Recommendation
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recommendations [post]
func (s *Server) CreateRecommendation(c *fiber.Ctx) error {
	var req struct {
		CVID    uint   `json:"cv_id"`
		Content string `json:"content"`
		Rating  int    `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rec, err := s.recService.Create(c.Context(), currentUser(c), service.CreateRecommendationInput{
		CVID:    req.CVID,
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GetMyRecommendations handles GET /api/recommendations/me
// @Summary List own recommendations
// @Description List recommendations authored by the authenticated user
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Recommendation
// @Failure 401 {object} models.ErrorResponse
// @Router /recommendations/me [get]
func (s *Server) GetMyRecommendations(c *fiber.Ctx) error {
	recs, err := s.recService.ListMine(c.Context(), currentUser(c))
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(recs)
}

// GetCVRecommendations handles GET /api/cvs/:id/recommendations
// @Summary List recommendations on a CV
// @Description List all recommendations left on the given CV
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param id path int true "CV ID"
// @Success 200 {array} models.Recommendation
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cvs/{id}/recommendations [get]
func (s *Server) GetCVRecommendations(c *fiber.Ctx) error {
	cvID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	recs, err := s.recService.ListByCV(c.Context(), cvID)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(recs)
}

// GetRecommendation handles GET /api/recommendations/:id
// @Summary Get a recommendation
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Success 200 {object} models.Recommendation
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recommendations/{id} [get]
func (s *Server) GetRecommendation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	rec, err := s.recService.Get(c.Context(), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(rec)
}

// UpdateRecommendation handles PUT /api/recommendations/:id
// @Summary Update a recommendation
// @Description Partially update a recommendation; only its author may update, not the CV's owner
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Param request body object{content=string,rating=int} true "Fields to update"
// @Success 200 {object} models.Recommendation
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recommendations/{id} [put]
func (s *Server) UpdateRecommendation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content *string `json:"content"`
		Rating  *int    `json:"rating"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rec, err := s.recService.Update(c.Context(), id, currentUser(c), service.UpdateRecommendationInput{
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(rec)
}

// DeleteRecommendation handles DELETE /api/recommendations/:id
// @Summary Delete a recommendation
// @Description Delete a recommendation; only its author may delete, not the CV's owner
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recommendation ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recommendations/{id} [delete]
func (s *Server) DeleteRecommendation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.recService.Delete(c.Context(), id, currentUser(c)); err != nil {
		return s.mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Recommendation deleted",
	})
}
