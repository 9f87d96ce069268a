package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"github.com/giapdoan01/BEArtGallery/internal/app/di"
	"github.com/giapdoan01/BEArtGallery/internal/app/router"
	authadapters "github.com/giapdoan01/BEArtGallery/internal/feature/auth/adapters"
	authhandler "github.com/giapdoan01/BEArtGallery/internal/feature/auth/transport/handler"
	authusecase "github.com/giapdoan01/BEArtGallery/internal/feature/auth/usecase"
	galleryadapters "github.com/giapdoan01/BEArtGallery/internal/feature/gallery/adapters"
	galleryhandler "github.com/giapdoan01/BEArtGallery/internal/feature/gallery/transport/handler"
	galleryusecase "github.com/giapdoan01/BEArtGallery/internal/feature/gallery/usecase"
	"github.com/giapdoan01/BEArtGallery/internal/feature/insights/adapters/gemini"
	"github.com/giapdoan01/BEArtGallery/internal/feature/insights/adapters/vision"
	insightshandler "github.com/giapdoan01/BEArtGallery/internal/feature/insights/transport/handler"
	insightsusecase "github.com/giapdoan01/BEArtGallery/internal/feature/insights/usecase"
	"github.com/giapdoan01/BEArtGallery/internal/platform/config"
	platformdb "github.com/giapdoan01/BEArtGallery/internal/platform/db"
	platformhttp "github.com/giapdoan01/BEArtGallery/internal/platform/http"
	jwtmw "github.com/giapdoan01/BEArtGallery/internal/platform/jwt"
	"github.com/giapdoan01/BEArtGallery/internal/platform/media/cloudinary"
	platformredis "github.com/giapdoan01/BEArtGallery/internal/platform/redis"
)

func main() {
	ctx := context.Background()

	// .envはローカル開発用。本番では環境変数を直接設定する
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// db
	db := platformdb.OpenDB(cfg)

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(cfg.Redis); err != nil {
		slog.Warn("redis unavailable, falling back to database sessions", "error", err)
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	paintingRepo := galleryadapters.NewPaintingGorm(db)

	// Cloudinaryクライアント（画像ストレージ）
	mediaRepo := cloudinary.NewClient(cloudinary.Config{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Timeout:   cfg.Cloudinary.Timeout,
	}, platformhttp.NewHTTPClient(cfg.Cloudinary.Timeout))

	// JWT
	tokens := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, tokens)
	paintingUC := galleryusecase.NewPaintingUsecase(paintingRepo, mediaRepo)

	// 期限切れセッションの定期掃除。RedisはTTLで揮発するため、実質RDBフォールバック用
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := authUC.PurgeExpiredSessions(ctx)
			if err != nil {
				slog.Error("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions purged", "count", n)
			}
		}
	}()

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	paintingH := galleryhandler.NewPaintingHandler(paintingUC)

	// insightsは任意機能: Vision/GeminiのADCが構成されていない環境では起動を妨げない
	var insightsH *insightshandler.InsightsHandler
	labelDetector, err := vision.NewVisionLabelDetector(ctx)
	if err != nil {
		slog.Warn("vision client unavailable, insights endpoints disabled", "error", err)
	} else {
		defer func() {
			if err := labelDetector.Close(); err != nil {
				slog.Warn("failed to close vision client", "error", err)
			}
		}()
		generator, err := gemini.NewGeminiGenerator(ctx)
		if err != nil {
			slog.Warn("gemini client unavailable, insights endpoints disabled", "error", err)
		} else {
			insightsH = insightshandler.NewInsightsHandler(
				insightsusecase.NewInsightsUsecase(labelDetector, generator))
		}
	}

	// ルータ生成
	r := router.NewRouter(authH, paintingH, insightsH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		slog.Warn("JWT_SECRET is not set, set a strong secret in production")
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
