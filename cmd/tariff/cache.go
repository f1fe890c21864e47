package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/cache"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/cli"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/config"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the verification cache",
	}

	cmd.AddCommand(cacheShowCmd())
	cmd.AddCommand(cacheClearCmd())

	return cmd
}

func cacheShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <code>",
		Short: "Show the cached verification result for a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Load()

			store, err := initStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			code := model.NormalizeCode(args[0]).Full
			result, err := cache.New(store, cfg.CacheTTL()).Get(ctx, code)
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No fresh cache entry for "+args[0]))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("Cached %d day(s) ago", result.CacheAgeDays)))
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

// cacheDeleter is the subset of the sqlite store the clear command needs.
// The memory and redis backends do not support administrative deletes.
type cacheDeleter interface {
	Delete(ctx context.Context, namespace, key string) error
	DeleteNamespace(ctx context.Context, namespace string) (int64, error)
}

func cacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear [code]",
		Short: "Remove cached verification results",
		Long: `Clear removes the cached verification result for a code, or with
--all the entire verification cache. Reference collections and learned
knowledge are untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if !all && len(args) == 0 {
				return fmt.Errorf("provide a code or --all")
			}

			ctx := cmd.Context()
			cfg := config.Load()

			store, err := initStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			deleter, ok := store.(cacheDeleter)
			if !ok {
				return fmt.Errorf("cache clear requires the sqlite backend, got %s", cfg.CacheBackend)
			}

			if all {
				removed, delErr := deleter.DeleteNamespace(ctx, cache.Namespace)
				if delErr != nil {
					return delErr
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %d cached result(s)", removed)))
				return nil
			}

			code := model.NormalizeCode(args[0]).Full
			if err := deleter.Delete(ctx, cache.Namespace, code); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed cached result for "+code))
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "clear the entire verification cache")

	return cmd
}
