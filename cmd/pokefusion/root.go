package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/gg"
	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/spf13/cobra"

	"github.com/shouni/poke-fusion-kit/pkg/adapters"
	"github.com/shouni/poke-fusion-kit/pkg/config"
	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/generator"
)

// globalFlags はすべてのサブコマンドに共通するフラグです。
type globalFlags struct {
	configPath string
	algorithm  string
	seed       int64
	pixelSize  int
	removeBG   bool

	first  spriteFlags
	second spriteFlags
}

type spriteFlags struct {
	uri  string
	id   int
	name string
}

// app は設定から組み立てた実行時の依存関係です。
type app struct {
	cfg *config.Config
	gen *generator.FusionGenerator
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	a := &app{}

	root := &cobra.Command{
		Use:          "pokefusion",
		Short:        "2体のスプライトをピクセル単位で融合します",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			setupLogger(cfg)

			gen, err := buildGenerator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			a.cfg, a.gen = cfg, gen
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML 設定ファイルのパス")
	pf.StringVarP(&flags.algorithm, "algorithm", "a", "", "融合アルゴリズム (pixel, advanced, genetic, hybrid)")
	pf.Int64Var(&flags.seed, "seed", 0, "乱数シード (未指定ならランダム)")
	pf.IntVar(&flags.pixelSize, "pixel-size", 0, "ピクセル化のブロックサイズ")
	pf.BoolVar(&flags.removeBG, "remove-bg", false, "ほぼ白の背景を透明にする")
	pf.StringVar(&flags.first.uri, "first", "", "1体目の画像 (URL, gs://, data: URL またはパス)")
	pf.IntVar(&flags.first.id, "first-id", 0, "1体目の図鑑番号")
	pf.StringVar(&flags.first.name, "first-name", "", "1体目の名前")
	pf.StringVar(&flags.second.uri, "second", "", "2体目の画像")
	pf.IntVar(&flags.second.id, "second-id", 0, "2体目の図鑑番号")
	pf.StringVar(&flags.second.name, "second-name", "", "2体目の名前")

	root.AddCommand(
		newFuseCmd(a, flags),
		newCompareCmd(a, flags),
		newRecommendCmd(a, flags),
	)
	return root
}

// loadConfig は設定ファイルを読み、フラグで指定された値で上書きします。
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("algorithm") {
		cfg.Algorithm = flags.algorithm
	}
	if changed("pixel-size") {
		cfg.Fusion.PixelSize = flags.pixelSize
	}
	if changed("remove-bg") {
		cfg.Canvas.RemoveBackground = flags.removeBG
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(cfg *config.Config) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)
	gg.SetLogger(logger)
}

// buildGenerator は HTTP クライアント、キャッシュ、命名サービスを組み立てて FusionGenerator を作ります。
func buildGenerator(ctx context.Context, cfg *config.Config) (*generator.FusionGenerator, error) {
	c := cache.New(cfg.CacheTTL(), cfg.CacheCleanup())

	source, err := adapters.NewImageSource(httpkit.New(cfg.HTTPTimeout()), nil, c, cfg.CacheTTL())
	if err != nil {
		return nil, err
	}

	opts := []generator.Option{generator.WithCanvasSize(cfg.Canvas.Size)}
	if cfg.Canvas.RemoveBackground {
		opts = append(opts, generator.WithBackgroundRemoval(uint8(cfg.Canvas.BackgroundThreshold)))
	}
	if cfg.Namer.Enabled {
		namer, err := buildNamer(ctx, cfg)
		if err != nil {
			slog.WarnContext(ctx, "融合名の提案を無効にします", "error", err)
		} else {
			opts = append(opts, generator.WithNamer(namer))
		}
	}
	return generator.NewFusionGenerator(source, c, cfg.CacheTTL(), opts...)
}

func buildNamer(ctx context.Context, cfg *config.Config) (*adapters.GeminiNamer, error) {
	key := os.Getenv(cfg.Namer.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("環境変数 %s が設定されていません", cfg.Namer.APIKeyEnv)
	}
	client, err := gemini.NewClient(ctx, gemini.Config{APIKey: key})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	return adapters.NewGeminiNamer(client, cfg.Namer.Model)
}

// request はフラグと設定から融合要求を作ります。
func (a *app) request(cmd *cobra.Command, flags *globalFlags) (domain.FusionRequest, error) {
	if flags.first.uri == "" || flags.second.uri == "" {
		return domain.FusionRequest{}, fmt.Errorf("--first と --second の両方を指定してください")
	}
	req := domain.FusionRequest{
		First:     domain.SourceImage{ID: flags.first.id, Name: flags.first.name, URI: flags.first.uri},
		Second:    domain.SourceImage{ID: flags.second.id, Name: flags.second.name, URI: flags.second.uri},
		Algorithm: domain.Algorithm(a.cfg.Algorithm),
		Config:    a.cfg.Fusion,
	}
	if cmd.Flags().Changed("seed") {
		seed := flags.seed
		req.Seed = &seed
	}
	return req, nil
}
