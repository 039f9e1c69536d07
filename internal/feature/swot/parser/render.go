package parser

import (
	"fmt"
	"strings"

	"swot_backend/internal/feature/swot/domain/entity"
)

const (
	// Placeholder は表の空セルを埋める文字列です。
	Placeholder = "-"
	// KeyPointLimit はキーポイント表示で各カテゴリから取り出す件数です。
	KeyPointLimit = 3
)

// Mode は分類結果の描画形式です。
type Mode int

const (
	// ModeList はカテゴリごとの箇条書きです。
	ModeList Mode = iota
	// ModeTable は2列のMarkdown表2つです。
	ModeTable
	// ModeKeyPoints は各カテゴリ先頭KeyPointLimit件の箇条書きです。
	ModeKeyPoints
)

// ParseMode は "list", "table", "keypoints" を Mode に変換します。
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "list", "":
		return ModeList, nil
	case "table":
		return ModeTable, nil
	case "keypoints", "key-points":
		return ModeKeyPoints, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q", s)
	}
}

// Render は分類済みのテキストを指定形式のMarkdownに描画します。
func Render(text string, mode Mode) string {
	s := Parse(text)
	switch mode {
	case ModeTable:
		return Table(s)
	case ModeKeyPoints:
		return List(KeyPoints(s, KeyPointLimit))
	default:
		return List(s)
	}
}

// EmptyLabel は項目のないカテゴリに表示する文言を返します。
func EmptyLabel(c entity.Category) string {
	return fmt.Sprintf("No %s Identified", c)
}

// List はカテゴリごとに見出しと箇条書きを出力します。空のカテゴリにはEmptyLabelを出します。
func List(s entity.Sections) string {
	var b strings.Builder
	for i, c := range entity.Categories {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "### %s\n", c)
		items := s.Get(c)
		if len(items) == 0 {
			fmt.Fprintf(&b, "- %s\n", EmptyLabel(c))
			continue
		}
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	return b.String()
}

// Pad は全カテゴリを最長カテゴリの件数までPlaceholderで埋めたコピーを返します。
func Pad(s entity.Sections) entity.Sections {
	n := s.MaxLen()
	return entity.Sections{
		Strengths:     pad(s.Strengths, n),
		Weaknesses:    pad(s.Weaknesses, n),
		Opportunities: pad(s.Opportunities, n),
		Threats:       pad(s.Threats, n),
	}
}

func pad(items []string, n int) []string {
	out := make([]string, n)
	copy(out, items)
	for i := len(items); i < n; i++ {
		out[i] = Placeholder
	}
	return out
}

// Table は Strengths|Weaknesses と Opportunities|Threats の2つのMarkdown表を出力します。
// 両方の表とも行数は4カテゴリの最大件数に揃えます。
func Table(s entity.Sections) string {
	p := Pad(s)
	var b strings.Builder
	writeTable(&b, entity.Strengths, entity.Weaknesses, p.Strengths, p.Weaknesses)
	b.WriteString("\n")
	writeTable(&b, entity.Opportunities, entity.Threats, p.Opportunities, p.Threats)
	return b.String()
}

func writeTable(b *strings.Builder, left, right entity.Category, l, r []string) {
	fmt.Fprintf(b, "| %s | %s |\n", left, right)
	b.WriteString("| --- | --- |\n")
	for i := range l {
		fmt.Fprintf(b, "| %s | %s |\n", cell(l[i]), cell(r[i]))
	}
}

// cell は表を壊さないようにパイプ文字をエスケープします。
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
