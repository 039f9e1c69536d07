package router

import (
	"github.com/gin-gonic/gin"

	swothandler "swot_backend/internal/feature/swot/transport/handler"
	"swot_backend/internal/platform/http/handler"
)

// NewRouter はヘルスチェック、SWOT分析ページ、JSON APIのルートを登録したエンジンを返します。
func NewRouter(swot *swothandler.SwotHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(swothandler.LoadTemplates())

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)

	// ブラウザ向けページ
	r.GET("/", swot.Index)
	r.POST("/analyze", swot.AnalyzePage)

	v1 := r.Group("/v1/swot")
	{
		v1.POST("/analyze", swot.Analyze)
		v1.POST("/parse", swot.Parse)
	}

	return r
}
