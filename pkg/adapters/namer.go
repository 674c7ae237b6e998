package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// DefaultNamerModel は融合名の提案に使う既定のモデルです。
const DefaultNamerModel = "gemini-2.5-flash"

// maxNameRunes を超える応答は名前ではなく説明文とみなします。
const maxNameRunes = 24

const namePrompt = `あなたはポケモンの融合名を考えるアシスタントです。
「%s」と「%s」を融合させた新しいポケモンの名前を1つだけ考えてください。
両方の名前の響きを残し、名前だけを1行で答えてください。`

// ErrNoName は応答から名前を取り出せなかった場合のエラーです。
var ErrNoName = errors.New("no fusion name in response")

// TextGenerator は Gemini へのテキスト生成リクエストを抽象化したものです。
// gemini.GenerativeModel はこれを満たします。
type TextGenerator interface {
	GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error)
}

// GeminiNamer は Gemini に融合名を考えてもらう Namer 実装です。
type GeminiNamer struct {
	client TextGenerator
	model  string
}

// NewGeminiNamer は GeminiNamer を初期化します。model が空なら DefaultNamerModel を使います。
func NewGeminiNamer(client TextGenerator, model string) (*GeminiNamer, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if model == "" {
		model = DefaultNamerModel
	}
	return &GeminiNamer{client: client, model: model}, nil
}

// SuggestName は2体の名前から融合名を1つ提案します。
func (n *GeminiNamer) SuggestName(ctx context.Context, nameA, nameB string) (string, error) {
	resp, err := n.client.GenerateContent(ctx, n.model, fmt.Sprintf(namePrompt, nameA, nameB))
	if err != nil {
		return "", fmt.Errorf("Gemini融合名生成エラー: %w", err)
	}
	name, err := parseName(resp)
	if err != nil {
		slog.WarnContext(ctx, "融合名の応答を解析できませんでした", "model", n.model, "error", err)
		return "", err
	}
	return name, nil
}

// parseName は最初の候補のテキストから1行目を取り出し、引用符や記号を取り除きます。
func parseName(resp *gemini.Response) (string, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return "", fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}
	candidate := resp.RawResponse.Candidates[0]

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text == "" {
				continue
			}
			line, _, _ := strings.Cut(strings.TrimSpace(part.Text), "\n")
			name := strings.Trim(strings.TrimSpace(line), "「」\"'*`。. ")
			if name == "" || utf8.RuneCountInString(name) > maxNameRunes {
				continue
			}
			return name, nil
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return "", fmt.Errorf("%w (FinishReason: %s)", ErrNoName, candidate.FinishReason)
	}
	return "", ErrNoName
}
