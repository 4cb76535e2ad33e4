package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ConveyInsight/blobcopy"
	"github.com/ConveyInsight/blobcopy/blobtypes"
)

var (
	srcAccount   string
	srcKey       string
	srcContainer string
	srcURL       string

	dstAccount   string
	dstKey       string
	dstContainer string

	endpointSuffix string
	pollInterval   time.Duration
	waitBudget     time.Duration
	quiet          bool

	rootCmd = &cobra.Command{
		Use:   "blobcopy",
		Short: "Replicate blobs between Azure storage containers",
		Long: `blobcopy replicates blobs between two Azure Blob Storage containers,
potentially across accounts, using the service's asynchronous server-side
copy. Blobs whose content already matches the destination are skipped.

Source and destination are addressed by account, key, and container.
Alternatively --source-url names a single source blob by raw URL, which
may carry its own SAS token.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&srcAccount, "source-account", "", "source storage account name")
	pf.StringVar(&srcKey, "source-key", "", "source account shared key (empty for public access)")
	pf.StringVar(&srcContainer, "source-container", "", "source container name")
	pf.StringVar(&srcURL, "source-url", "", "raw source blob URL, used instead of the account flags")
	pf.StringVar(&dstAccount, "dest-account", "", "destination storage account name")
	pf.StringVar(&dstKey, "dest-key", "", "destination account shared key")
	pf.StringVar(&dstContainer, "dest-container", "", "destination container name")
	pf.StringVar(&endpointSuffix, "endpoint-suffix", "", "storage DNS suffix for sovereign clouds")
	pf.DurationVar(&pollInterval, "poll-interval", 0, "copy status poll cadence")
	pf.DurationVar(&waitBudget, "timeout", 0, "maximum time to wait for one copy")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress per-blob output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func fmtErr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// buildReplicator assembles a Replicator from the global flags.
func buildReplicator(createContainer bool) (*blobcopy.Replicator, error) {
	var source blobtypes.Endpoint
	if srcURL != "" {
		source = blobtypes.URLEndpoint(srcURL)
	} else {
		source = blobtypes.AccountEndpoint(srcAccount, srcKey, srcContainer, "")
	}
	dest := blobtypes.AccountEndpoint(dstAccount, dstKey, dstContainer, "")

	var opts []blobtypes.Option
	if pollInterval > 0 {
		opts = append(opts, blobcopy.WithPollInterval(pollInterval))
	}
	if waitBudget > 0 {
		opts = append(opts, blobcopy.WithWaitBudget(waitBudget))
	}
	if endpointSuffix != "" {
		opts = append(opts, blobcopy.WithEndpointSuffix(endpointSuffix))
	}
	if createContainer {
		opts = append(opts, blobcopy.WithCreateContainer())
	}

	return blobcopy.New(source, dest, opts...)
}

// printResult writes one per-blob outcome line.
func printResult(res *blobtypes.CopyResult) {
	if quiet {
		return
	}
	line := fmt.Sprintf("%-10s %s", res.Status, res.Blob)
	if res.Elapsed > 0 {
		line += fmt.Sprintf(" (%.1fs)", res.Elapsed.Seconds())
	}
	if res.Err != nil {
		line += fmt.Sprintf(": %v", res.Err)
	}
	fmt.Println(line)
}
