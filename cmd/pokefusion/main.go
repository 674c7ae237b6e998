// Command pokefusion は2枚のスプライトを融合して PNG を書き出すコマンドラインツールです。
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
