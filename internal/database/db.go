package database

import (
	"fmt"
	"os"

	"github.com/varun4-here/PaperShare/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	// TranslateError so a unique-constraint violation surfaces as
	// gorm.ErrDuplicatedKey, which the paper insert path recovers from.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto Migrate the schema
	err = DB.AutoMigrate(&models.Paper{}, &models.Analysis{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate")
	}
}
