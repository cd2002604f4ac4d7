// Copyright (C) 2025 Fairlens Labs (oss@fairlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairlens/recruitgen/cmd/recruitgen/config"
	"github.com/fairlens/recruitgen/services/generator/registry"
)

// openRegistry opens the manifest store from the effective configuration.
func openRegistry(cmd *cobra.Command) (*registry.Store, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(expandPath(configPath))
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cfg.Output.RegistryPath == "" {
		return nil, fmt.Errorf("no registry path configured")
	}
	return registry.Open(registry.Config{
		Path: expandPath(cfg.Output.RegistryPath),
	})
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := openRegistry(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	manifests, err := store.List()
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		cmd.Println("no recorded runs")
		return nil
	}
	for _, m := range manifests {
		cmd.Printf("%s  %s  seed=%d rows=%d (train=%d val=%d test=%d)\n",
			m.RunID,
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.Seed, m.Rows,
			m.TrainRows, m.ValidationRows, m.TestRows,
		)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, err := openRegistry(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	m, err := store.Get(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
