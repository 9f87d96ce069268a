package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	authadapters "github.com/giapdoan01/BEArtGallery/internal/feature/auth/adapters"
	authentity "github.com/giapdoan01/BEArtGallery/internal/feature/auth/domain/entity"
	galleryentity "github.com/giapdoan01/BEArtGallery/internal/feature/gallery/domain/entity"
	"github.com/giapdoan01/BEArtGallery/internal/platform/config"
)

// OpenDB はPostgreSQLへの接続を確立し、必要に応じてマイグレーションを実行します。
// コンテナ起動直後はDBが未準備の場合があるため、60秒までリトライします。
func OpenDB(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if cfg.RunMigrations {
		// マイグレーション（User, Painting, Session）
		if err := db.AutoMigrate(
			&authentity.User{},
			&galleryentity.Painting{},
			&authadapters.SessionModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
