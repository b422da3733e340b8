package collect

import (
	"github.com/spf13/cobra"

	fastf1Cmd "github.com/racelytics/competitiveness-analyzer-go/pkg/cmd/collect/fastf1"
	nascarCmd "github.com/racelytics/competitiveness-analyzer-go/pkg/cmd/collect/nascar"
)

// NewCollectCmd groups the per-series collectors.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "collects race data and computes a statistics bundle",
	}
	cmd.AddCommand(fastf1Cmd.NewFastF1Cmd())
	cmd.AddCommand(nascarCmd.NewNascarCmd())
	return cmd
}
