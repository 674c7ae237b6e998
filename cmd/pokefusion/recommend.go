package main

import (
	"github.com/spf13/cobra"
)

func newRecommendCmd(a *app, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "2体の特徴から適したアルゴリズムを推奨します",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request(cmd, flags)
			if err != nil {
				return err
			}
			rec, err := a.gen.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"algorithm": rec.Algorithm,
				"reasons":   rec.Reasons,
			})
		},
	}
}
