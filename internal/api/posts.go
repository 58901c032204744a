package api

import (
	"errors"
	"net/http"

	apperrors "github.com/varun4-here/PaperShare/internal/errors"
	"github.com/varun4-here/PaperShare/internal/services"

	"github.com/gin-gonic/gin"
)

func generatePostsHandler(posts PostGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			URL string `json:"url" form:"url" binding:"required"`
		}

		if err := c.ShouldBind(&request); err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Please enter a paper URL"))
			return
		}

		bundle, err := posts.GeneratePosts(c.Request.Context(), request.URL)
		if err != nil {
			apperrors.HandleError(c, classifyError(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    bundle,
		})
	}
}

// classifyError maps pipeline failures onto the HTTP taxonomy: bad input is
// the caller's fault, fetch/extract failures mean the paper is unavailable,
// network trouble is temporary, everything else is opaque.
func classifyError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidURL):
		return apperrors.New400Error("Invalid arXiv URL format. Use the abstract page URL.")
	case errors.Is(err, services.ErrNetwork):
		return apperrors.New503Error("Network error reaching arXiv. Please try again shortly.")
	case errors.Is(err, services.ErrPaperUnavailable),
		errors.Is(err, services.ErrMissingTitle),
		errors.Is(err, services.ErrMissingAbstract):
		return apperrors.New404Error("Failed to fetch or parse paper details. Check the URL and arXiv status.")
	default:
		return apperrors.New500Error(err)
	}
}
