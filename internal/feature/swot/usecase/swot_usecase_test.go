package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swot_backend/internal/feature/swot/domain"
	"swot_backend/internal/feature/swot/domain/entity"
	"swot_backend/internal/feature/swot/usecase"
)

// ErrAPI はモックと期待値の間で共有されるセンチネルエラーです。
var ErrAPI = errors.New("api error")

// mockTextGenerator はTextGeneratorインターフェースのモック実装です。
type mockTextGenerator struct {
	GenerateFunc  func(ctx context.Context, prompt string) (entity.RawResponse, error)
	GenerateCalls int
	LastPrompt    string
}

func (m *mockTextGenerator) Generate(ctx context.Context, prompt string) (entity.RawResponse, error) {
	m.GenerateCalls++
	m.LastPrompt = prompt
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return entity.RawResponse{}, errors.New("GenerateFunc is not implemented")
}

// mockTokenizer はTokenizerインターフェースのモック実装です。
type mockTokenizer struct {
	CountTokensFunc func(ctx context.Context, text string) (int, error)
}

func (m *mockTokenizer) CountTokens(ctx context.Context, text string) (int, error) {
	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(ctx, text)
	}
	return len(strings.Fields(text)), nil
}

const modelOutput = "### Strengths\n* Strong brand\n### Weaknesses\n* High costs\n### Opportunities\n* New markets\n### Threats\n* Competition\n"

func TestSwotUsecase_Analyze(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		details       string
		generateFunc  func(ctx context.Context, prompt string) (entity.RawResponse, error)
		tokenizeFunc  func(ctx context.Context, text string) (int, error)
		wantSections  entity.Sections
		wantUsage     entity.TokenUsage
		wantErr       error
		wantGenCalled int
	}{
		{
			name:    "success: content response",
			details: "Acme builds rockets",
			generateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
				return entity.NewContentResponse(modelOutput), nil
			},
			tokenizeFunc: func(ctx context.Context, text string) (int, error) {
				if text == "Acme builds rockets" {
					return 4, nil
				}
				return 30, nil
			},
			wantSections: entity.Sections{
				Strengths:     []string{"Strong brand"},
				Weaknesses:    []string{"High costs"},
				Opportunities: []string{"New markets"},
				Threats:       []string{"Competition"},
			},
			wantUsage:     entity.TokenUsage{Query: 4, Response: 30, Total: 34},
			wantGenCalled: 1,
		},
		{
			name:    "success: empty input is allowed",
			details: "",
			generateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
				return entity.NewContentResponse("I need more information."), nil
			},
			tokenizeFunc: func(ctx context.Context, text string) (int, error) {
				return 0, nil
			},
			wantSections:  entity.Sections{},
			wantGenCalled: 1,
		},
		{
			name:    "success: tokenizer failure does not fail the request",
			details: "Acme",
			generateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
				return entity.NewContentResponse("### Threats\n* Rivals"), nil
			},
			tokenizeFunc: func(ctx context.Context, text string) (int, error) {
				return 0, ErrAPI
			},
			wantSections:  entity.Sections{Threats: []string{"Rivals"}},
			wantGenCalled: 1,
		},
		{
			name:    "error: generator fails",
			details: "Acme",
			generateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
				return entity.RawResponse{}, ErrAPI
			},
			wantErr:       domain.ErrGenerationFailed,
			wantGenCalled: 1,
		},
		{
			name:          "error: input too large",
			details:       strings.Repeat("a", usecase.MaxCompanyDetailsLength+1),
			wantErr:       domain.ErrInputTooLarge,
			wantGenCalled: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &mockTextGenerator{GenerateFunc: tc.generateFunc}
			tok := &mockTokenizer{CountTokensFunc: tc.tokenizeFunc}
			uc := usecase.NewSwotUsecase(gen, tok)

			got, err := uc.Analyze(ctx, tc.details)

			assert.Equal(t, tc.wantGenCalled, gen.GenerateCalls)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantSections, got.Sections)
			assert.Equal(t, tc.wantUsage, got.Usage)
			assert.Equal(t, tc.details, got.Request.CompanyDetails)
			_, parseErr := uuid.Parse(got.ID)
			assert.NoError(t, parseErr)
			assert.Contains(t, gen.LastPrompt, "Company Details:\n"+tc.details)
		})
	}
}

func TestSwotUsecase_Analyze_GeneratorErrorIsWrapped(t *testing.T) {
	gen := &mockTextGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
		return entity.RawResponse{}, ErrAPI
	}}
	uc := usecase.NewSwotUsecase(gen, &mockTokenizer{})

	_, err := uc.Analyze(context.Background(), "Acme")

	assert.ErrorIs(t, err, ErrAPI)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestSwotUsecase_Analyze_ReprResponseIsCleaned(t *testing.T) {
	repr := `content='### Strengths\n* Loyal customers' additional_kwargs={} response_metadata={}`
	gen := &mockTextGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
		return entity.NewReprResponse(repr), nil
	}}
	uc := usecase.NewSwotUsecase(gen, &mockTokenizer{})

	got, err := uc.Analyze(context.Background(), "Acme")
	require.NoError(t, err)

	assert.Equal(t, repr, got.RawText)
	assert.NotContains(t, got.Text, "additional_kwargs")
	assert.Equal(t, []string{"Loyal customers'"}, got.Sections.Strengths)
}

func TestSwotUsecase_Analyze_BothResponseShapesAreCleaned(t *testing.T) {
	const text = `### Opportunities\n* Export markets additional_kwargs={'usage': 1}`

	for name, raw := range map[string]entity.RawResponse{
		"content": entity.NewContentResponse(text),
		"repr":    entity.NewReprResponse(text),
	} {
		t.Run(name, func(t *testing.T) {
			gen := &mockTextGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
				return raw, nil
			}}
			uc := usecase.NewSwotUsecase(gen, nil)

			got, err := uc.Analyze(context.Background(), "Acme")
			require.NoError(t, err)

			assert.Equal(t, text, got.RawText)
			assert.Equal(t, "### Opportunities\n* Export markets", got.Text)
			assert.Equal(t, []string{"Export markets"}, got.Sections.Opportunities)
		})
	}
}

func TestSwotUsecase_Analyze_NoCaching(t *testing.T) {
	gen := &mockTextGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
		return entity.NewContentResponse(modelOutput), nil
	}}
	uc := usecase.NewSwotUsecase(gen, nil)

	first, err := uc.Analyze(context.Background(), "same")
	require.NoError(t, err)
	second, err := uc.Analyze(context.Background(), "same")
	require.NoError(t, err)

	assert.Equal(t, 2, gen.GenerateCalls)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, entity.TokenUsage{}, first.Usage)
}

func TestSwotUsecase_Start(t *testing.T) {
	t.Run("delivers exactly one outcome then closes", func(t *testing.T) {
		gen := &mockTextGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
			return entity.NewContentResponse(modelOutput), nil
		}}
		uc := usecase.NewSwotUsecase(gen, &mockTokenizer{})

		ch := uc.Start(context.Background(), "Acme")

		select {
		case out := <-ch:
			require.NoError(t, out.Err)
			require.NotNil(t, out.Result)
			assert.Equal(t, []string{"Competition"}, out.Result.Sections.Threats)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for outcome")
		}

		_, open := <-ch
		assert.False(t, open, "channel should be closed after the outcome")
		assert.Equal(t, 1, gen.GenerateCalls)
	})

	t.Run("delivers generator error", func(t *testing.T) {
		gen := &mockTextGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.RawResponse, error) {
			return entity.RawResponse{}, ErrAPI
		}}
		uc := usecase.NewSwotUsecase(gen, &mockTokenizer{})

		out := <-uc.Start(context.Background(), "Acme")

		assert.Nil(t, out.Result)
		assert.ErrorIs(t, out.Err, ErrAPI)
	})
}

func TestSwotUsecase_Parse(t *testing.T) {
	uc := usecase.NewSwotUsecase(&mockTextGenerator{}, nil)

	text, sections := uc.Parse(`  ### Weaknesses\n* Debt  `)

	assert.Equal(t, "### Weaknesses\n* Debt", text)
	assert.Equal(t, []string{"Debt"}, sections.Weaknesses)
}
