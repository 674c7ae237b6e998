package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/generator"
)

func newCompareCmd(a *app, flags *globalFlags) *cobra.Command {
	var (
		outDir     string
		algorithms []string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "複数のアルゴリズムで融合して結果を並べます",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request(cmd, flags)
			if err != nil {
				return err
			}
			algs := make([]domain.Algorithm, 0, len(algorithms))
			for _, s := range algorithms {
				algs = append(algs, domain.Algorithm(s))
			}

			cmp, err := a.gen.Compare(cmd.Context(), req, algs)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			summary := make(map[string]any)
			for alg, res := range cmp.Results {
				id := res.Metadata[generator.MetaFusionID]
				path := filepath.Join(outDir, fmt.Sprintf("%s_%s.png", id, alg))
				if err := os.WriteFile(path, res.PNG, 0o644); err != nil {
					return err
				}
				summary[string(alg)] = map[string]any{"path": path, "metadata": res.Metadata}
			}
			for alg, err := range cmp.Errors {
				summary[string(alg)] = map[string]any{"error": err.Error()}
			}
			return printJSON(cmd, summary)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "出力先ディレクトリ")
	cmd.Flags().StringSliceVar(&algorithms, "algorithms", nil, "比較するアルゴリズム (既定はすべて)")
	return cmd
}
