package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookworm/internal/auth"
	"github.com/mrlokans/bookworm/internal/notify"
	"github.com/mrlokans/bookworm/internal/reviews"
)

// ReviewsController handles the review and rating write endpoints.
type ReviewsController struct {
	service  *reviews.Service
	notifier notify.Notifier
}

func NewReviewsController(service *reviews.Service, notifier notify.Notifier) *ReviewsController {
	return &ReviewsController{service: service, notifier: notifier}
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type ratingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

func (ctrl *ReviewsController) SubmitReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
		return
	}

	userID := auth.CurrentUserID(c)
	err := ctrl.service.SubmitReview(c.Request.Context(), userID, c.Param("isbn"), req.Rating, req.Comment)
	if err != nil {
		ctrl.respondWriteError(c, err)
		return
	}

	ctrl.notifier.Success("Review submitted successfully!")
	c.JSON(http.StatusCreated, gin.H{"message": "review submitted"})
}

func (ctrl *ReviewsController) SubmitRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
		return
	}

	userID := auth.CurrentUserID(c)
	err := ctrl.service.SubmitRating(c.Request.Context(), userID, c.Param("isbn"), req.Rating)
	if err != nil {
		ctrl.respondWriteError(c, err)
		return
	}

	ctrl.notifier.Success("Rating submitted!")
	c.JSON(http.StatusCreated, gin.H{"message": "rating submitted"})
}

// respondWriteError maps write-path errors onto user-actionable responses.
// Unlike the read path there is no fallback here: the user sees exactly what
// failed and must resubmit.
func (ctrl *ReviewsController) respondWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reviews.ErrSignInRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, reviews.ErrInvalidRating), errors.Is(err, reviews.ErrMissingISBN):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, reviews.ErrBookCreateFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": reviews.ErrBookCreateFailed.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": reviews.ErrReviewSaveFailed.Error()})
	}
}
