package router

import (
	"github.com/gin-gonic/gin"

	authhandler "fonds_backend/internal/feature/auth/transport/handler"
	fondshandler "fonds_backend/internal/feature/fonds/transport/handler"
	taskshandler "fonds_backend/internal/feature/tasks/transport/handler"
	"fonds_backend/internal/platform/http/handler"
	jwtmw "fonds_backend/internal/platform/jwt"
)

func NewRouter(auth *authhandler.AuthHandler, fonds *fondshandler.FondsHandler,
	tasks *taskshandler.TaskHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", auth.Signup)
	// ログイン（トークンペア発行）
	r.POST("/login", auth.Login)
	// リフレッシュトークンのローテーション
	r.POST("/refresh", auth.Refresh)
	// ログアウト（セッション失効）
	r.POST("/logout", auth.Logout)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	authed := r.Group("/")
	authed.Use(jwtmw.AuthRequired())
	{
		authed.GET("/fonds/sectors", fonds.Sectors)
		authed.GET("/fonds/shares", fonds.SharesBySector)
		authed.GET("/fonds/fundamentals/:asset_uid", fonds.FundamentalsByAsset)
		authed.GET("/fonds/search", fonds.Search)
		authed.GET("/fonds/top", fonds.TopBySector)
		authed.GET("/portfolio/positions", fonds.Positions)

		authed.POST("/tasks", tasks.Add)
		authed.GET("/tasks", tasks.List)
		authed.DELETE("/tasks/:id", tasks.Delete)
		authed.POST("/tasks/report", tasks.Report)
	}

	return r
}
