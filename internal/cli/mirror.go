package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ConveyInsight/blobcopy"
	"github.com/ConveyInsight/blobcopy/blobtypes"
)

var (
	mirrorForce  bool
	mirrorAsync  bool
	mirrorCreate bool
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Replicate every blob in the source container",
	Long: `Replicate every blob in the source container into the destination
container, one at a time. Blobs already identical on both sides are
skipped; one blob's failure does not stop the rest.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		r, err := buildReplicator(mirrorCreate)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		var opts []blobtypes.CopyOption
		if mirrorForce {
			opts = append(opts, blobcopy.WithForce())
		}
		if mirrorAsync {
			opts = append(opts, blobcopy.WithAsync())
		}

		counts := map[blobtypes.CopyStatus]int{}
		var total int
		start := time.Now()

		for res := range r.CopyAll(context.Background(), opts...) {
			printResult(&res)
			counts[res.Status]++
			total++
		}

		if !quiet {
			fmt.Printf("%d blobs: %d copied, %d skipped, %d pending, %d conflict, %d failed in %.1fs\n",
				total,
				counts[blobtypes.StatusCompleted],
				counts[blobtypes.StatusSkipped],
				counts[blobtypes.StatusPending],
				counts[blobtypes.StatusConflict],
				counts[blobtypes.StatusFailed],
				time.Since(start).Seconds(),
			)
		}

		if counts[blobtypes.StatusFailed] > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	mirrorCmd.Flags().BoolVar(&mirrorForce, "force", false, "copy even when content is identical")
	mirrorCmd.Flags().BoolVar(&mirrorAsync, "async", false, "initiate copies without waiting for completion")
	mirrorCmd.Flags().BoolVar(&mirrorCreate, "create-container", false, "create the destination container if missing")
	rootCmd.AddCommand(mirrorCmd)
}
