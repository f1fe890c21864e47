package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/cli"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/config"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/reference"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/verify"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Seed reference data into the store",
		Long: `Import loads reference documents into the KV store: tariff collection
records, free import order entries, and ministry routing. Each file is a
JSON object keyed by HS code (or chapter, for the free import order).`,
	}

	cmd.AddCommand(importTariffCmd())
	cmd.AddCommand(importDecreeCmd())
	cmd.AddCommand(importRoutingCmd())

	return cmd
}

func importTariffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tariff <file>",
		Short: "Import tariff records into a reference collection",
		Example: `  tariff import tariff records.json --collection customs_tariff
  tariff import tariff archive.json --collection tariff_archive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, _ := cmd.Flags().GetString("collection")
			valid := false
			for _, name := range reference.DefaultCollections() {
				if name == collection {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("unknown collection %q", collection)
			}

			var records map[string]service.TariffRecord
			if err := readSeedFile(args[0], &records); err != nil {
				return err
			}

			docs := make(map[string]json.RawMessage, len(records))
			for code, rec := range records {
				raw, err := json.Marshal(rec)
				if err != nil {
					return fmt.Errorf("failed to encode record %s: %w", code, err)
				}
				docs[model.NormalizeCode(code).Full] = raw
			}

			return seed(cmd, verify.TariffNamespacePrefix+collection, docs)
		},
	}

	cmd.Flags().String("collection", reference.CollectionCustomsTariff, "target collection")

	return cmd
}

func importDecreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decree <file>",
		Short: "Import free import order entries, keyed by HS chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries map[string][]service.DecreeItem
			if err := readSeedFile(args[0], &entries); err != nil {
				return err
			}

			docs := make(map[string]json.RawMessage, len(entries))
			for chapter, items := range entries {
				raw, err := json.Marshal(service.DecreeResult{Found: true, Items: items})
				if err != nil {
					return fmt.Errorf("failed to encode chapter %s: %w", chapter, err)
				}
				docs[model.NormalizeCode(chapter).Chapter] = raw
			}

			return seed(cmd, verify.DecreeNamespace, docs)
		},
	}
}

func importRoutingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routing <file>",
		Short: "Import ministry routing, keyed by heading or chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries map[string]service.RegulatoryInfo
			if err := readSeedFile(args[0], &entries); err != nil {
				return err
			}

			docs := make(map[string]json.RawMessage, len(entries))
			for key, info := range entries {
				raw, err := json.Marshal(info)
				if err != nil {
					return fmt.Errorf("failed to encode routing %s: %w", key, err)
				}
				docs[key] = raw
			}

			return seed(cmd, verify.RegulatoryNamespace, docs)
		},
	}
}

func readSeedFile(path string, v any) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied seed file
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	return nil
}

func seed(cmd *cobra.Command, namespace string, docs map[string]json.RawMessage) error {
	ctx := cmd.Context()
	cfg := config.Load()

	store, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := seedAll(ctx, store, namespace, docs); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d document(s) into %s", len(docs), namespace)))
	return nil
}

func seedAll(ctx context.Context, store service.KVStore, namespace string, docs map[string]json.RawMessage) error {
	for key, doc := range docs {
		if err := store.Set(ctx, namespace, key, doc); err != nil {
			return fmt.Errorf("failed to store %s/%s: %w", namespace, key, err)
		}
	}
	return nil
}
