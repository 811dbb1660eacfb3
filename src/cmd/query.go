package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/svc"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/v1"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

var (
	queryFilters string
	queryCount   bool
)

// QueryCmd 执行一次查询并以 JSON 输出结果
var QueryCmd = &cobra.Command{
	Use:   "query",
	Short: "run a single nft query.",
	Long:  "run a single nft query, filters use the same JSON as the api.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var params types.NftQueryParams
		if queryFilters != "" {
			if err := json.Unmarshal([]byte(queryFilters), &params); err != nil {
				return errors.Wrap(err, "invalid --filters")
			}
		}

		c, err := loadConfig()
		if err != nil {
			return err
		}
		serverCtx, err := svc.NewServiceContext(c)
		if err != nil {
			return err
		}
		ctx := context.Background()
		defer serverCtx.Close(ctx)

		var res interface{}
		if queryCount {
			res, err = service.CountNfts(ctx, serverCtx, params)
		} else {
			res, err = service.QueryNfts(ctx, serverCtx, params)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	QueryCmd.Flags().StringVar(&queryFilters, "filters", "", "filters json, e.g. '{\"contractAddress\":\"0x...\"}'")
	QueryCmd.Flags().BoolVar(&queryCount, "count", false, "print the result count instead of a page")
	rootCmd.AddCommand(QueryCmd)
}
