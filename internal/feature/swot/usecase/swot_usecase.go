// Package usecase はswotフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"

	"swot_backend/internal/feature/swot/domain"
	"swot_backend/internal/feature/swot/domain/entity"
	"swot_backend/internal/feature/swot/parser"
	"swot_backend/internal/feature/swot/prompt"
)

// MaxCompanyDetailsLength は企業情報の最大文字数（rune数）です。
const MaxCompanyDetailsLength = 20000

// TextGenerator はプロンプトからテキストを生成する外部サービスのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TextGenerator interface {
	// Generate はプロンプトを1回だけ送信し、応答を返します。リトライは行いません。
	Generate(ctx context.Context, prompt string) (entity.RawResponse, error)
}

// Tokenizer は文字列のトークン数を数えるインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Tokenizer interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Outcome は非同期に実行した分析の結果です。ResultとErrのどちらか一方が設定されます。
type Outcome struct {
	Result *entity.Analysis
	Err    error
}

// swotUsecase はSWOT分析のビジネスロジックを提供します。
type swotUsecase struct {
	generator TextGenerator
	tokenizer Tokenizer
	newID     func() string
}

// NewSwotUsecase はswotUsecaseの新しいインスタンスを生成します。
func NewSwotUsecase(g TextGenerator, t Tokenizer) *swotUsecase {
	return &swotUsecase{
		generator: g,
		tokenizer: t,
		newID:     func() string { return uuid.New().String() },
	}
}

// Start は分析を1回だけ実行するタスクを開始し、結果を受け取るチャネルを返します。
// チャネルには必ず1件のOutcomeが送られ、その後クローズされます。
func (u *swotUsecase) Start(ctx context.Context, companyDetails string) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := u.Analyze(ctx, companyDetails)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

// Analyze は企業情報からSWOT分析を生成し、分類まで行います。
// テキスト生成に失敗した場合は domain.ErrGenerationFailed をラップして返します。
func (u *swotUsecase) Analyze(ctx context.Context, companyDetails string) (*entity.Analysis, error) {
	if utf8.RuneCountInString(companyDetails) > MaxCompanyDetailsLength {
		return nil, fmt.Errorf("%w: maximum is %d characters", domain.ErrInputTooLarge, MaxCompanyDetailsLength)
	}
	p, err := prompt.Build(companyDetails)
	if err != nil {
		return nil, err
	}

	raw, err := u.generator.Generate(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	if !raw.HasContent() {
		slog.Debug("応答に本文がないため文字列表現を使用します")
	}
	rawText := raw.Text()
	text := parser.Clean(raw)
	analysis := &entity.Analysis{
		ID:       u.newID(),
		Request:  entity.AnalysisRequest{CompanyDetails: companyDetails},
		RawText:  rawText,
		Text:     text,
		Sections: parser.Parse(text),
	}

	queryTokens := u.count(ctx, companyDetails)
	responseTokens := u.count(ctx, rawText)
	analysis.Usage = entity.NewTokenUsage(queryTokens, responseTokens)

	slog.Info("tokens used",
		"analysis_id", analysis.ID,
		"query", queryTokens,
		"response", responseTokens,
		"total", analysis.Usage.Total,
	)
	return analysis, nil
}

// count はトークン数を返します。表示用途のため、失敗してもリクエストは失敗させません。
func (u *swotUsecase) count(ctx context.Context, text string) int {
	if u.tokenizer == nil {
		return 0
	}
	n, err := u.tokenizer.CountTokens(ctx, text)
	if err != nil {
		slog.Warn("token count failed", "error", err)
		return 0
	}
	return n
}

// Parse はモデルを呼び出さずに既存のテキストを整形・分類します。
func (u *swotUsecase) Parse(rawText string) (string, entity.Sections) {
	text := parser.CleanText(rawText)
	return text, parser.Parse(text)
}
