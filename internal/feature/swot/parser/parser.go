// Package parser はモデル出力のSWOTテキストを整形・分類し、表示用に描画します。
// すべての関数は純粋関数で、外部サービスに依存しません。
package parser

import (
	"strings"

	"swot_backend/internal/feature/swot/domain/entity"
)

const (
	// MetadataMarker 以降はモデルクライアントの内部メタデータとして切り捨てます。
	MetadataMarker = "additional_kwargs"
	// BulletMarker は分類対象となる箇条書き行の先頭文字です。
	BulletMarker = "*"
)

// Clean は応答からテキストを取り出し、表示用に整形します。
func Clean(raw entity.RawResponse) string {
	return CleanText(raw.Text())
}

// CleanText はメタデータの切り捨て、エスケープされた改行の復元、前後の空白除去を行います。
func CleanText(text string) string {
	if i := strings.Index(text, MetadataMarker); i >= 0 {
		text = text[:i]
	}
	text = strings.ReplaceAll(text, `\n`, "\n")
	return strings.TrimSpace(text)
}

// Parse は整形済みテキストを1行ずつ4カテゴリに分類します。
//
// 見出しの判定は大文字小文字を区別する部分一致で、Strengths, Weaknesses,
// Opportunities, Threats の順に評価します。見出し行自体はどのカテゴリにも入りません。
// "*" で始まる行のみを項目として扱い、見出しより前に現れた項目は捨てます。
func Parse(text string) entity.Sections {
	var (
		out     entity.Sections
		current entity.Category
		hasCat  bool
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if c, ok := headerCategory(line); ok {
			current, hasCat = c, true
			continue
		}
		if !strings.HasPrefix(line, BulletMarker) {
			continue
		}
		if !hasCat {
			continue
		}
		out.Append(current, strings.TrimSpace(line[len(BulletMarker):]))
	}
	return out
}

// headerCategory は行に含まれる最初のカテゴリ名を評価順に探します。
func headerCategory(line string) (entity.Category, bool) {
	for _, c := range entity.Categories {
		if strings.Contains(line, c.String()) {
			return c, true
		}
	}
	return 0, false
}

// KeyPoints は各カテゴリの先頭n件だけを残したコピーを返します。
func KeyPoints(s entity.Sections, n int) entity.Sections {
	return entity.Sections{
		Strengths:     head(s.Strengths, n),
		Weaknesses:    head(s.Weaknesses, n),
		Opportunities: head(s.Opportunities, n),
		Threats:       head(s.Threats, n),
	}
}

func head(items []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(items) < n {
		n = len(items)
	}
	out := make([]string, n)
	copy(out, items[:n])
	return out
}
