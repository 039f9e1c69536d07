package handler

import (
	"embed"
	"html/template"
)

// PageTemplate はSWOT分析ページのテンプレート名です。
const PageTemplate = "index.html"

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates は埋め込みのHTMLテンプレートをパースします。
// ルーターで gin.Engine.SetHTMLTemplate に渡して使用します。
func LoadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}
