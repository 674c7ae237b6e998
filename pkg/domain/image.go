package domain

// SourceImage は融合元となる画像の参照です。
// ID は融合IDや結果キャッシュのキーに使われ、Name は融合名の生成に使われます。
type SourceImage struct {
	ID   int
	Name string
	URI  string // http(s)://, gs://, data: URL またはローカルパス
}

// FusionRequest は融合1回分の要求です。
type FusionRequest struct {
	First     SourceImage
	Second    SourceImage
	Algorithm Algorithm
	Config    FusionConfig
	Seed      *int64 // nil でランダム
}

// FusionResult は外部の呼び出し元へ返す融合結果です。
type FusionResult struct {
	ImageDataURL string
	PNG          []byte
	Algorithm    Algorithm
	Metadata     map[string]any
}
