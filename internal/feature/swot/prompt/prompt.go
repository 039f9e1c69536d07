// Package prompt はSWOT分析用のプロンプトを組み立てます。
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/swot.md
var swotTemplateRaw string

// SwotTemplate はパッケージ初期化時に一度だけパースされ、全リクエストで再利用されます。
var SwotTemplate = template.Must(template.New("swot").Parse(swotTemplateRaw))

type swotData struct {
	Context string
}

// Build は企業情報をテンプレートに埋め込んだプロンプトを返します。
// 入力の長さや内容は検証しません。
func Build(context string) (string, error) {
	var b strings.Builder
	if err := SwotTemplate.Execute(&b, swotData{Context: context}); err != nil {
		return "", fmt.Errorf("failed to render swot prompt: %w", err)
	}
	return b.String(), nil
}
