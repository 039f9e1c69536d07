// Package handler はswotフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"swot_backend/internal/feature/swot/domain"
	"swot_backend/internal/feature/swot/domain/entity"
	"swot_backend/internal/feature/swot/parser"
	"swot_backend/internal/feature/swot/transport/http/dto"
	"swot_backend/internal/feature/swot/usecase"
	"swot_backend/internal/platform/markdown"
)

// SwotUsecase はSWOT分析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SwotUsecase interface {
	Start(ctx context.Context, companyDetails string) <-chan usecase.Outcome
	Parse(rawText string) (string, entity.Sections)
}

// SwotHandler はSWOT分析のHTTPリクエストを処理します。
type SwotHandler struct {
	uc SwotUsecase
}

// NewSwotHandler はSwotHandlerの新しいインスタンスを生成します。
func NewSwotHandler(uc SwotUsecase) *SwotHandler {
	return &SwotHandler{uc: uc}
}

// Index は入力フォームのみのページを返します。
//
// エンドポイント: GET /
func (h *SwotHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, PageTemplate, pageData{})
}

// AnalyzePage はフォーム入力からSWOT分析を生成し、結果をページに描画します。
// 失敗時もフォームを残したままエラーを表示し、再試行できるようにします。
//
// エンドポイント: POST /analyze
// Content-Type: application/x-www-form-urlencoded
// フィールド: company_details
func (h *SwotHandler) AnalyzePage(c *gin.Context) {
	details := c.PostForm("company_details")

	analysis, err := h.await(c.Request.Context(), details)
	if err != nil {
		status, msg := errorStatus(err)
		slog.Error("SWOT分析に失敗", "error", err, "remote_addr", c.ClientIP())
		c.HTML(status, PageTemplate, pageData{CompanyDetails: details, Error: msg})
		return
	}

	c.HTML(http.StatusOK, PageTemplate, pageData{
		CompanyDetails: details,
		Result:         newResultView(analysis),
	})
}

// Analyze はSWOT分析を生成し、分類結果とトークン数をJSONで返します。
//
// エンドポイント: POST /v1/swot/analyze
// Content-Type: application/json
func (h *SwotHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("SWOT分析リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	analysis, err := h.await(c.Request.Context(), req.CompanyDetails)
	if err != nil {
		status, msg := errorStatus(err)
		slog.Error("SWOT分析に失敗", "error", err)
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, dto.AnalyzeRes{
		ID:       analysis.ID,
		ParseRes: newParseRes(analysis.Text, analysis.Sections),
		Usage:    dto.NewUsageRes(analysis.Usage),
	})
}

// Parse はモデルを呼び出さずに、渡されたテキストを整形・分類して返します。
// mode（list, table, keypoints）を指定すると、その形式で描画したMarkdownを rendered に含めます。
//
// エンドポイント: POST /v1/swot/parse?mode=list
// Content-Type: application/json
func (h *SwotHandler) Parse(c *gin.Context) {
	mode, hasMode := c.GetQuery("mode")
	var m parser.Mode
	if hasMode {
		var err error
		if m, err = parser.ParseMode(mode); err != nil {
			slog.Warn("不正な描画モード", "mode", mode, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "mode must be one of list, table, keypoints"})
			return
		}
	}

	var req dto.ParseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("パースリクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	text, sections := h.uc.Parse(req.Text)
	res := newParseRes(text, sections)
	if hasMode {
		res.Rendered = parser.Render(text, m)
	}
	c.JSON(http.StatusOK, res)
}

// await は分析タスクを開始し、結果かリクエストのキャンセルを待ちます。
func (h *SwotHandler) await(ctx context.Context, details string) (*entity.Analysis, error) {
	select {
	case out := <-h.uc.Start(ctx, details):
		return out.Result, out.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// errorStatus はエラーをHTTPステータスと利用者向けメッセージに変換します。
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInputTooLarge):
		return http.StatusBadRequest, "company details are too long"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "analysis timed out, please try again"
	default:
		return http.StatusBadGateway, "failed to generate SWOT analysis, please try again"
	}
}

func newParseRes(text string, s entity.Sections) dto.ParseRes {
	return dto.ParseRes{
		Analysis:  text,
		Sections:  dto.NewSectionsRes(s),
		KeyPoints: dto.NewSectionsRes(parser.KeyPoints(s, parser.KeyPointLimit)),
		Table:     parser.Table(s),
	}
}

// pageData はページテンプレートに渡す値です。
type pageData struct {
	CompanyDetails string
	Error          string
	Result         *resultView
}

// resultView は分析結果の表示用データです。
type resultView struct {
	AnalysisHTML template.HTML
	TableHTML    template.HTML
	Grid         []gridCell
	Usage        entity.TokenUsage
}

// gridCell は2x2グリッドの1マスです。
type gridCell struct {
	Title      string
	Items      []string
	EmptyLabel string
}

func newResultView(a *entity.Analysis) *resultView {
	keyPoints := parser.KeyPoints(a.Sections, parser.KeyPointLimit)
	grid := make([]gridCell, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		grid = append(grid, gridCell{
			Title:      c.String(),
			Items:      keyPoints.Get(c),
			EmptyLabel: parser.EmptyLabel(c),
		})
	}
	return &resultView{
		AnalysisHTML: renderHTML(a.Text),
		TableHTML:    renderHTML(parser.Table(a.Sections)),
		Grid:         grid,
		Usage:        a.Usage,
	}
}

// renderHTML はMarkdownをHTMLに変換します。失敗時はエスケープしたテキストを返します。
func renderHTML(src string) template.HTML {
	out, err := markdown.ToHTML(src)
	if err != nil {
		slog.Warn("Markdownの変換に失敗", "error", err)
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return out
}
