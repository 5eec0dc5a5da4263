package commands

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/RassulYunussov/tinderclient/common"
)

type statusOutput struct {
	CircuitBreaker  string         `json:"circuit_breaker"`
	Account         common.Payload `json:"account"`
	Recommendations common.Payload `json:"recommendations"`
}

// status: fetch account and recommendations in parallel, both through the same breaker.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Fetch account and recommendations concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out statusOutput
			eg, egCtx := errgroup.WithContext(cmd.Context())
			eg.Go(func() error {
				body, err := client.GetAccount(egCtx)
				out.Account = body
				return err
			})
			eg.Go(func() error {
				body, err := client.GetRecommendations(egCtx)
				out.Recommendations = body
				return err
			})
			err := eg.Wait()
			out.CircuitBreaker = client.CircuitBreakerState().String()
			if err != nil {
				return output(cmd, common.Payload{}, err)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
