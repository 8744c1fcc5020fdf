package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"document-query/internal/cache"
	"document-query/internal/helper"
	"document-query/internal/rag"
)

func newPartitionsCmd(a *app) *cobra.Command {
	var keepArtifacts bool
	cmd := &cobra.Command{
		Use:   "partitions",
		Short: "Split the document and list its partitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := rag.Initialize(a.cfg, nil)
			if err != nil {
				return err
			}
			if !keepArtifacts {
				defer engine.Close()
			}
			if engine.PartitionCount() == 0 {
				return fmt.Errorf("no document loaded from %s", a.cfg.Document.Path)
			}
			return helper.PrettyPrint(cmd.OutOrStdout(), engine.Partitions())
		},
	}
	cmd.Flags().BoolVar(&keepArtifacts, "keep-artifacts", false, "Keep partition files in the cache directory for inspection")
	return cmd
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print the number of cached answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := cache.Load(a.cfg.Document.CacheDir)
			if err != nil {
				return err
			}
			return helper.PrettyPrint(cmd.OutOrStdout(), map[string]any{
				"path":    store.Path(),
				"entries": store.Len(),
			})
		},
	})
	return cmd
}
