// Package gemini はGoogle Gemini APIを使用したSWOT生成クライアントとトークンカウンターを提供します。
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"swot_backend/internal/feature/swot/domain/entity"
	"swot_backend/internal/feature/swot/usecase"
	"swot_backend/internal/shared/ratelimiter"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// DefaultTemperature はサンプリング温度です。本サービスでは固定値を使用します。
	DefaultTemperature float32 = 0.7
)

// NewClient はAPIキーを使用してGemini API向けのgenaiクライアントを生成します。
// baseURL が空でない場合はエンドポイントを差し替えます（テスト・プロキシ用）。
func NewClient(ctx context.Context, apiKey, baseURL string, httpClient *http.Client) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

// Generator はGoogle Gemini APIを使用してSWOT分析テキストを生成します。
type Generator struct {
	client      *genai.Client
	model       string
	temperature float32
	limiter     ratelimiter.Limiter
}

// GeneratorがTextGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.TextGenerator = (*Generator)(nil)

// NewGenerator はGeneratorの新しいインスタンスを生成します。
// model が空の場合は DefaultModel を使用します。limiter は nil でも構いません。
func NewGenerator(client *genai.Client, model string, limiter ratelimiter.Limiter) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		client:      client,
		model:       model,
		temperature: DefaultTemperature,
		limiter:     limiter,
	}
}

// Generate はプロンプトを1回だけ送信します。リトライは行いません。
func (g *Generator) Generate(ctx context.Context, prompt string) (entity.RawResponse, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return entity.RawResponse{}, fmt.Errorf("rate limiter: %w", err)
		}
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return entity.RawResponse{}, fmt.Errorf("gemini API request failed: %w", err)
	}
	return toRawResponse(resp), nil
}

// toRawResponse は候補がある応答を本文付き、候補がない応答（ブロック等）を文字列表現として変換します。
func toRawResponse(resp *genai.GenerateContentResponse) entity.RawResponse {
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		return entity.NewContentResponse(resp.Text())
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return entity.NewReprResponse(fmt.Sprintf("%+v", resp))
	}
	return entity.NewReprResponse(string(b))
}

// Tokenizer はGemini APIのcountTokensでトークン数を数えます。
type Tokenizer struct {
	client *genai.Client
	model  string
}

// TokenizerがTokenizerを実装していることをコンパイル時に検証します。
var _ usecase.Tokenizer = (*Tokenizer)(nil)

// NewTokenizer はTokenizerの新しいインスタンスを生成します。
// countTokens は生成とは別枠のため、レートリミッターを通しません。
func NewTokenizer(client *genai.Client, model string) *Tokenizer {
	if model == "" {
		model = DefaultModel
	}
	return &Tokenizer{client: client, model: model}
}

// CountTokens は text のトークン数を返します。空文字列はAPIを呼ばずに0を返します。
func (t *Tokenizer) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	resp, err := t.client.Models.CountTokens(ctx, t.model, genai.Text(text), nil)
	if err != nil {
		return 0, fmt.Errorf("gemini countTokens failed: %w", err)
	}
	return int(resp.TotalTokens), nil
}
