package main

import (
	"bytes"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/poke-fusion-kit/pkg/imgutil"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

func writeSprite(t *testing.T, dir, name string, c color.NRGBA) string {
	t.Helper()
	img, err := raster.NewCanonical(16, 16)
	require.NoError(t, err)
	for y := 4; y < 12; y++ {
		for x := 4; x < 12; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	data, err := imgutil.EncodePNG(img)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFuseCommand(t *testing.T) {
	dir := t.TempDir()
	red := writeSprite(t, dir, "red.png", color.NRGBA{R: 255, A: 255})
	blue := writeSprite(t, dir, "blue.png", color.NRGBA{B: 255, A: 255})
	cfgPath := filepath.Join(dir, "pokefusion.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("canvas:\n  size: 32\nlogging:\n  level: error\n"), 0o644))

	t.Run("融合結果とプレビューを書き出す", func(t *testing.T) {
		out := filepath.Join(dir, "fused.png")
		stdout, err := run(t, "fuse", "-c", cfgPath,
			"--first", red, "--first-id", "4", "--first-name", "ヒトカゲ",
			"--second", blue, "--second-id", "7", "--second-name", "ゼニガメ",
			"-o", out, "--preview", "--thumbnail")
		require.NoError(t, err)

		var meta map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &meta))
		assert.Equal(t, "F004007", meta["fusionId"])
		assert.Equal(t, "pixel", meta["algorithm"])

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		img, err := imgutil.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, 32, img.Width())

		assert.FileExists(t, filepath.Join(dir, "fused_preview.jpg"))
		assert.FileExists(t, filepath.Join(dir, "fused_thumb.png"))
	})

	t.Run("未知のアルゴリズムはエラー", func(t *testing.T) {
		_, err := run(t, "fuse", "-c", cfgPath, "--first", red, "--second", blue, "-a", "quantum")
		assert.Error(t, err)
	})

	t.Run("画像の指定がなければエラー", func(t *testing.T) {
		_, err := run(t, "fuse", "-c", cfgPath, "--first", red)
		assert.Error(t, err)
	})
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	red := writeSprite(t, dir, "red.png", color.NRGBA{R: 255, A: 255})
	blue := writeSprite(t, dir, "blue.png", color.NRGBA{B: 255, A: 255})
	cfgPath := filepath.Join(dir, "pokefusion.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("canvas:\n  size: 32\nlogging:\n  level: error\n"), 0o644))

	stdout, err := run(t, "compare", "-c", cfgPath, "--first", red, "--second", blue,
		"--first-id", "1", "--second-id", "2", "--algorithms", "pixel,advanced", "-o", dir)
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Len(t, summary, 2)
	assert.FileExists(t, filepath.Join(dir, "F001002_pixel.png"))
	assert.FileExists(t, filepath.Join(dir, "F001002_advanced.png"))
}

func TestRecommendCommand(t *testing.T) {
	dir := t.TempDir()
	red := writeSprite(t, dir, "red.png", color.NRGBA{R: 255, A: 255})
	blue := writeSprite(t, dir, "blue.png", color.NRGBA{B: 255, A: 255})

	stdout, err := run(t, "recommend", "--first", red, "--second", blue)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rec))
	assert.Equal(t, "pixel", rec["algorithm"])
}
