// Command blobcopy replicates blobs between Azure Blob Storage
// containers from the command line.
package main

import "github.com/ConveyInsight/blobcopy/internal/cli"

func main() {
	cli.Execute()
}
