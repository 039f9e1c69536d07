// Package dto はswotフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "swot_backend/internal/feature/swot/domain/entity"

// AnalyzeReq は POST /v1/swot/analyze のリクエストボディです。
// company_details は空文字列も許容します。
type AnalyzeReq struct {
	CompanyDetails string `json:"company_details"`
}

// ParseReq は POST /v1/swot/parse のリクエストボディです。
type ParseReq struct {
	Text string `json:"text"`
}

// SectionsRes はカテゴリ別の項目です。空のカテゴリは空配列になります。
type SectionsRes struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// UsageRes はトークン数です。
type UsageRes struct {
	Query    int `json:"query"`
	Response int `json:"response"`
	Total    int `json:"total"`
}

// ParseRes は POST /v1/swot/parse のレスポンスです。
// Rendered は mode クエリを指定した場合のみ設定されます。
type ParseRes struct {
	Analysis  string      `json:"analysis"`
	Sections  SectionsRes `json:"sections"`
	KeyPoints SectionsRes `json:"key_points"`
	Table     string      `json:"table"`
	Rendered  string      `json:"rendered,omitempty"`
}

// AnalyzeRes は POST /v1/swot/analyze のレスポンスです。
type AnalyzeRes struct {
	ID string `json:"id"`
	ParseRes
	Usage UsageRes `json:"usage"`
}

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewSectionsRes はnilスライスを空配列に変換してSectionsResを生成します。
func NewSectionsRes(s entity.Sections) SectionsRes {
	return SectionsRes{
		Strengths:     nonNil(s.Strengths),
		Weaknesses:    nonNil(s.Weaknesses),
		Opportunities: nonNil(s.Opportunities),
		Threats:       nonNil(s.Threats),
	}
}

// NewUsageRes はTokenUsageからUsageResを生成します。
func NewUsageRes(u entity.TokenUsage) UsageRes {
	return UsageRes{Query: u.Query, Response: u.Response, Total: u.Total}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
