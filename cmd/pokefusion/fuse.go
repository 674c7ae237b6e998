package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/generator"
	"github.com/shouni/poke-fusion-kit/pkg/imgutil"
)

type outputFlags struct {
	out       string
	preview   bool
	thumbnail bool
}

func newFuseCmd(a *app, flags *globalFlags) *cobra.Command {
	of := &outputFlags{}
	cmd := &cobra.Command{
		Use:   "fuse",
		Short: "2体を融合して PNG を書き出します",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request(cmd, flags)
			if err != nil {
				return err
			}
			res, err := a.gen.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			path := of.out
			if path == "" {
				path = fmt.Sprintf("%s.png", res.Metadata[generator.MetaFusionID])
			}
			if err := a.writeResult(path, res, of); err != nil {
				return err
			}
			return printJSON(cmd, res.Metadata)
		},
	}
	cmd.Flags().StringVarP(&of.out, "out", "o", "", "出力先の PNG パス (既定は <融合ID>.png)")
	cmd.Flags().BoolVar(&of.preview, "preview", false, "白背景の JPEG プレビューも書き出す")
	cmd.Flags().BoolVar(&of.thumbnail, "thumbnail", false, "サムネイル PNG も書き出す")
	return cmd
}

// writeResult は融合結果と、指定があればプレビューとサムネイルを書き出します。
func (a *app) writeResult(path string, res *domain.FusionResult, of *outputFlags) error {
	if err := os.WriteFile(path, res.PNG, 0o644); err != nil {
		return fmt.Errorf("融合結果の書き込みに失敗しました: %w", err)
	}
	if !of.preview && !of.thumbnail {
		return nil
	}

	img, err := imgutil.Decode(res.PNG)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))

	if of.preview {
		jpg, err := imgutil.CompressToJPEG(img, a.cfg.Output.JpegQuality)
		if err != nil {
			return err
		}
		if err := os.WriteFile(base+"_preview.jpg", jpg, 0o644); err != nil {
			return err
		}
	}
	if of.thumbnail {
		thumb, err := imgutil.Thumbnail(img, a.cfg.Output.ThumbnailSize)
		if err != nil {
			return err
		}
		data, err := imgutil.EncodePNG(thumb)
		if err != nil {
			return err
		}
		if err := os.WriteFile(base+"_thumb.png", data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
