// Command vectorprovision creates the chunk collection and tenant
// partitions. Both subcommands are idempotent and print one JSON line.
//
//	vectorprovision collection --name kb_chunks_v1 --dim 3072 --metric COSINE
//	vectorprovision partition --collection kb_chunks_v1 --tenant-id 7
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/vectorbridge/internal/app"
	"github.com/Aleph-Alpha/vectorbridge/internal/result"
)

const serviceName = "vectorprovision"

var exitCode int

var rootCmd = &cobra.Command{
	Use:   "vectorprovision",
	Short: "Provision the chunk collection and its partitions",
	Long: `vectorprovision makes sure the chunk collection exists with its HNSW
index and is loaded, or that a partition exists under it. Running either
subcommand again is a no-op that reports what already existed.

Unset flags fall back to the environment (MILVUS_COLLECTION,
OPENAI_EMBEDDING_DIM, RAG_VECTOR_METRIC).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	collectionCmd.Flags().StringVar(&collectionName, "name", "", "collection name (default $MILVUS_COLLECTION)")
	collectionCmd.Flags().IntVar(&dimension, "dim", 0, "embedding dimension (default $OPENAI_EMBEDDING_DIM)")
	collectionCmd.Flags().StringVar(&metric, "metric", "", "COSINE, L2 or IP (default $RAG_VECTOR_METRIC)")

	partitionCmd.Flags().StringVar(&partitionCollection, "collection", "", "collection name (default $MILVUS_COLLECTION)")
	partitionCmd.Flags().StringVar(&partitionName, "partition", "", "partition name")
	partitionCmd.Flags().Int64Var(&tenantID, "tenant-id", 0, "derive the partition name tenant_<id>")
	partitionCmd.MarkFlagsMutuallyExclusive("partition", "tenant-id")

	rootCmd.AddCommand(collectionCmd, partitionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		exitCode = app.Fail(os.Stdout, result.Invalid("%v", err))
	}
	stop()
	os.Exit(exitCode)
}
