package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "github.com/giapdoan01/BEArtGallery/internal/feature/auth/transport/handler"
	galleryhandler "github.com/giapdoan01/BEArtGallery/internal/feature/gallery/transport/handler"
	insightshandler "github.com/giapdoan01/BEArtGallery/internal/feature/insights/transport/handler"
	"github.com/giapdoan01/BEArtGallery/internal/platform/http/handler"
	jwtmw "github.com/giapdoan01/BEArtGallery/internal/platform/jwt"
)

// NewRouter はAPIの全ルートを登録したginエンジンを生成します。
// insightsHandlerはnil可です（外部AIクライアントが構成されていない場合）。
func NewRouter(authHandler *authhandler.AuthHandler, paintings *galleryhandler.PaintingHandler,
	insights *insightshandler.InsightsHandler) *gin.Engine {
	r := gin.Default()

	// ブラウザのSPAフロントエンドから呼ばれるためCORSを許可
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// 認証不要
	// 導通確認用
	r.GET("/health", handler.Health)
	r.HEAD("/health", handler.Health)
	// 新規ユーザー登録
	r.POST("/register", authHandler.Register)
	// ログイン（JWT 発行）
	r.POST("/login", authHandler.Login)
	// アクセストークン再発行
	r.POST("/token/refresh", authHandler.Refresh)

	// 閲覧系ルート: 認証は任意
	// 未認証でも公開フレームは閲覧でき、認証済みなら自分の非公開フレームも見える
	public := r.Group("/")
	public.Use(jwtmw.AuthOptional())
	{
		public.GET("/paintings", paintings.List)
		public.GET("/paintings/:frameNumber", paintings.GetDetail)
	}

	// 認証必須のルート
	auth := r.Group("/")
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired())
	{
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/logout-all", authHandler.LogoutAll)

		auth.POST("/paintings/create-frame", paintings.CreateFrame)
		auth.POST("/paintings/:frameNumber/upload-image", paintings.UploadImage)
		auth.DELETE("/paintings/:frameNumber/delete-image", paintings.DeleteImage)
		auth.PUT("/paintings/:frameNumber/update", paintings.Update)
		auth.DELETE("/paintings/:frameNumber/delete", paintings.Delete)

		// AIクライアント未構成の場合はルート自体を登録しない
		if insights != nil {
			auth.POST("/insights/suggest-tags", insights.SuggestTags)
			auth.POST("/insights/describe", insights.Describe)
		}
	}

	return r
}
