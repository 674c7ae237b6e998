package generator

import (
	"fmt"
)

// FusionID は2体の ID から順序に依存しない融合 ID を作ります。例: (25, 6) → "F006025"。
func FusionID(idA, idB int) string {
	return fmt.Sprintf("F%03d%03d", min(idA, idB), max(idA, idB))
}

// FusionName は1体目の名前の前半と2体目の名前の後半をつなげた合成名を返します。
// 文字数は rune 単位で数え、前半は切り上げ、後半は切り捨てです。
func FusionName(nameA, nameB string) string {
	a, b := []rune(nameA), []rune(nameB)
	switch {
	case len(a) == 0:
		return nameB
	case len(b) == 0:
		return nameA
	}
	head := a[:(len(a)+1)/2]
	tail := b[len(b)-len(b)/2:]
	if len(tail) == 0 {
		tail = b
	}
	return string(head) + string(tail)
}
