// Package utils は乱数源などの小さな共通ヘルパーです。
package utils

import (
	"math/rand/v2"
)

// DereferenceSeed は、int64のポインタを安全にデリファレンスします。
// ポインタがnilの場合は0を返します。
func DereferenceSeed(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

// NewRand は、シードが指定されていればそれで初期化した乱数源を返します。
// nil の場合は実行ごとに異なる乱数源になります。
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := uint64(DereferenceSeed(seed))
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
