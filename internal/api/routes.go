package api

import (
	"context"

	"github.com/varun4-here/PaperShare/internal/services"

	"github.com/gin-gonic/gin"
)

// PostGenerator is the pipeline surface the HTTP layer depends on.
type PostGenerator interface {
	GeneratePosts(ctx context.Context, url string) (*services.PostBundle, error)
}

func SetupRoutes(r *gin.Engine, posts PostGenerator) {
	api := r.Group("/api")
	{
		api.POST("/posts", generatePostsHandler(posts))
	}
}
