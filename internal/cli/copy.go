package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ConveyInsight/blobcopy"
	"github.com/ConveyInsight/blobcopy/blobtypes"
)

var (
	copyForce    bool
	copyAsync    bool
	copyProgress bool
)

var copyCmd = &cobra.Command{
	Use:   "copy [blob]",
	Short: "Copy a single blob to the destination container",
	Long: `Copy a single blob to the destination container.

The blob name is the same on both sides. With --source-url the name
defaults to the last path segment of the URL. The copy is skipped when
source and destination already hold identical content, unless --force
is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		r, err := buildReplicator(false)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		var opts []blobtypes.CopyOption
		if copyForce {
			opts = append(opts, blobcopy.WithForce())
		}
		if copyAsync {
			opts = append(opts, blobcopy.WithAsync())
		}
		if copyProgress && !quiet && !copyAsync {
			opts = append(opts, blobcopy.WithProgress(consoleProgress{}))
		}

		res, err := r.CopyBlob(context.Background(), name, opts...)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		printResult(res)
		if res.Status == blobtypes.StatusFailed {
			os.Exit(1)
		}
	},
}

func init() {
	copyCmd.Flags().BoolVar(&copyForce, "force", false, "copy even when content is identical")
	copyCmd.Flags().BoolVar(&copyAsync, "async", false, "initiate the copy without waiting for completion")
	copyCmd.Flags().BoolVar(&copyProgress, "progress", false, "print copy progress while waiting")
	rootCmd.AddCommand(copyCmd)
}

// consoleProgress prints in-place progress updates while a copy is
// pending.
type consoleProgress struct{}

func (consoleProgress) Update(bytesCopied, totalBytes int64) {
	if totalBytes <= 0 {
		return
	}
	fmt.Printf("\r%3d%% (%d/%d bytes)", bytesCopied*100/totalBytes, bytesCopied, totalBytes)
}

func (consoleProgress) Complete() { fmt.Print("\r\033[K") }

func (consoleProgress) Error(error) { fmt.Print("\r\033[K") }
