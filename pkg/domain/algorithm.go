package domain

import "fmt"

// Algorithm は融合アルゴリズムのタグです。
type Algorithm string

const (
	AlgorithmPixel    Algorithm = "pixel"
	AlgorithmAdvanced Algorithm = "advanced"
	AlgorithmGenetic  Algorithm = "genetic"
	AlgorithmHybrid   Algorithm = "hybrid"
)

// Algorithms は認識されるアルゴリズムの一覧です。
var Algorithms = []Algorithm{AlgorithmPixel, AlgorithmAdvanced, AlgorithmGenetic, AlgorithmHybrid}

// ParseAlgorithm は文字列をアルゴリズムタグに変換します。
// 未知のタグは ErrUnsupportedAlgorithm になり、既定値へのフォールバックはしません。
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}
