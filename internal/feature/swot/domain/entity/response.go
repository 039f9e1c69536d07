package entity

// RawResponse はテキスト生成サービスの応答です。
// 本文フィールドを持つ応答と、応答全体の文字列表現しか持たない応答の2形態があります。
type RawResponse struct {
	content    string
	hasContent bool
	repr       string
}

// NewContentResponse は本文フィールドを持つ応答を生成します。
func NewContentResponse(content string) RawResponse {
	return RawResponse{content: content, hasContent: true}
}

// NewReprResponse は応答全体の文字列表現のみを持つ応答を生成します。
func NewReprResponse(repr string) RawResponse {
	return RawResponse{repr: repr}
}

// HasContent は本文フィールドを持つかどうかを返します。
func (r RawResponse) HasContent() bool {
	return r.hasContent
}

// Text は本文があれば本文を、なければ文字列表現を返します。
func (r RawResponse) Text() string {
	if r.hasContent {
		return r.content
	}
	return r.repr
}
