// Package tokencount はオフラインで使えるトークン数の概算と、
// 外部トークナイザー失敗時のフォールバックを提供します。
package tokencount

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"swot_backend/internal/feature/swot/usecase"
)

// CharsPerToken は英語テキストにおける1トークンあたりのおおよその文字数です。
const CharsPerToken = 4

// Estimator は文字数から概算のトークン数を返します。APIキーは不要です。
type Estimator struct{}

var _ usecase.Tokenizer = Estimator{}

// CountTokens は rune 数を CharsPerToken で割り、切り上げた値を返します。
func (Estimator) CountTokens(_ context.Context, text string) (int, error) {
	n := utf8.RuneCountInString(text)
	return (n + CharsPerToken - 1) / CharsPerToken, nil
}

// Fallback は Primary が失敗した場合に Secondary で数え直します。
type Fallback struct {
	Primary   usecase.Tokenizer
	Secondary usecase.Tokenizer
}

var _ usecase.Tokenizer = Fallback{}

// CountTokens は Primary の結果を返し、エラー時は Secondary の結果を返します。
func (f Fallback) CountTokens(ctx context.Context, text string) (int, error) {
	if f.Primary != nil {
		n, err := f.Primary.CountTokens(ctx, text)
		if err == nil {
			return n, nil
		}
		slog.Warn("primary tokenizer failed, using fallback", "error", err)
	}
	return f.Secondary.CountTokens(ctx, text)
}
