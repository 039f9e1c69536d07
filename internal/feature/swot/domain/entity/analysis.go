// Package entity はswotフィーチャーのドメインモデルを定義します。
package entity

// Category はSWOT分析の4区分のいずれかを表します。
type Category int

const (
	Strengths Category = iota
	Weaknesses
	Opportunities
	Threats
)

// Categories は表示順に並べた全カテゴリです。
var Categories = []Category{Strengths, Weaknesses, Opportunities, Threats}

// String はモデル出力の見出しと同じ綴りのカテゴリ名を返します。
func (c Category) String() string {
	switch c {
	case Strengths:
		return "Strengths"
	case Weaknesses:
		return "Weaknesses"
	case Opportunities:
		return "Opportunities"
	case Threats:
		return "Threats"
	default:
		return "Unknown"
	}
}

// AnalysisRequest はユーザーが入力した企業情報です。空文字列も許容します。
type AnalysisRequest struct {
	CompanyDetails string
}

// Sections はカテゴリ別に分類された箇条書きの行です。
// 1行は高々1つのカテゴリにのみ属します。
type Sections struct {
	Strengths     []string `json:"strengths" yaml:"strengths"`
	Weaknesses    []string `json:"weaknesses" yaml:"weaknesses"`
	Opportunities []string `json:"opportunities" yaml:"opportunities"`
	Threats       []string `json:"threats" yaml:"threats"`
}

// Get は指定カテゴリの項目を返します。
func (s Sections) Get(c Category) []string {
	switch c {
	case Strengths:
		return s.Strengths
	case Weaknesses:
		return s.Weaknesses
	case Opportunities:
		return s.Opportunities
	case Threats:
		return s.Threats
	default:
		return nil
	}
}

// Append は指定カテゴリの末尾に項目を追加します。
func (s *Sections) Append(c Category, item string) {
	switch c {
	case Strengths:
		s.Strengths = append(s.Strengths, item)
	case Weaknesses:
		s.Weaknesses = append(s.Weaknesses, item)
	case Opportunities:
		s.Opportunities = append(s.Opportunities, item)
	case Threats:
		s.Threats = append(s.Threats, item)
	}
}

// MaxLen は4カテゴリのうち最も多い項目数を返します。
func (s Sections) MaxLen() int {
	n := 0
	for _, c := range Categories {
		if l := len(s.Get(c)); l > n {
			n = l
		}
	}
	return n
}

// TokenUsage は1リクエストあたりのトークン数です。表示用途のみで処理には影響しません。
type TokenUsage struct {
	Query    int `json:"query" yaml:"query"`
	Response int `json:"response" yaml:"response"`
	Total    int `json:"total" yaml:"total"`
}

// NewTokenUsage はQueryとResponseから合計を計算してTokenUsageを生成します。
func NewTokenUsage(query, response int) TokenUsage {
	return TokenUsage{Query: query, Response: response, Total: query + response}
}

// Analysis は1回の分析リクエストの結果です。永続化されず、描画後に破棄されます。
type Analysis struct {
	ID       string          // リクエストごとのUUID
	Request  AnalysisRequest // 入力
	RawText  string          // モデル出力（整形前）
	Text     string          // メタデータ除去・改行正規化後のテキスト
	Sections Sections        // カテゴリ別の項目
	Usage    TokenUsage      // トークン数
}
