package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/varun4-here/PaperShare/cmd/api/config"
	"github.com/varun4-here/PaperShare/internal/api"
	"github.com/varun4-here/PaperShare/internal/database"
	"github.com/varun4-here/PaperShare/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using process environment")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()

	database.InitDB()

	ctx := context.Background()

	// The generator stays nil without a usable credential; the analyzer
	// then runs template-only instead of failing requests.
	var generator services.ContentGenerator
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, generative analysis disabled")
	} else {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Error().Err(err).Msg("Failed to create GenAI client, generative analysis disabled")
		} else {
			defer client.Close()
			generator = services.NewGeminiModel(client, cfg.GeminiModel)
			log.Info().Str("model", cfg.GeminiModel).Msg("Gemini model configured")
		}
	}

	arxivService := services.NewArxivService(cfg.FetchTimeout)
	paperService := services.NewPaperService(database.DB)
	analysisService := services.NewAnalysisService(generator)
	renderService := services.NewRenderService(nil)
	postService := services.NewPostService(arxivService, paperService, analysisService, renderService)

	r := gin.Default()

	// CORS middleware configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.LoadHTMLGlob("web/templates/*")
	r.Static("/static", "./web/static")
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", nil)
	})

	api.SetupRoutes(r, postService)

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
