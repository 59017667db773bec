/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/carverauto/configwatch/pkg/accessor"
	"github.com/carverauto/configwatch/pkg/alerts"
	"github.com/carverauto/configwatch/pkg/config"
	"github.com/carverauto/configwatch/pkg/db"
	"github.com/carverauto/configwatch/pkg/lifecycle"
	"github.com/carverauto/configwatch/pkg/logger"
	"github.com/carverauto/configwatch/pkg/monitor"
	"github.com/carverauto/configwatch/pkg/secrets"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/configwatch/configwatch.json", "Path to configwatch config file")
	flag.Parse()

	ctx := context.Background()

	var cfg config.Config

	if err := config.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stdout",
		}
	}

	cwLogger, err := lifecycle.CreateComponentLogger("configwatch", logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	keys, err := secrets.NewProvider(cfg.KeyFile, cwLogger)
	if err != nil {
		return fmt.Errorf("failed to load encryption keys: %w", err)
	}

	store, err := db.New(cfg.DatabasePath, keys, cwLogger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := seedSettings(ctx, store, &cfg); err != nil {
		return err
	}

	acc, err := accessor.New(cfg.StateFile, cwLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize platform accessor: %w", err)
	}

	var senders []alerts.Sender

	if cfg.AWSConfigFile != "" {
		senders, err = alerts.NewSenders(cfg.AWSConfigFile)
		if err != nil {
			return fmt.Errorf("failed to initialize alert channels: %w", err)
		}
	} else {
		cwLogger.Warn().Msg("No AWS config file set, alert delivery disabled")
	}

	dispatcher := monitor.NewAlertDispatcher(store, senders, nil, cwLogger)
	source := config.NewItemsFile(cfg.ItemsFile)

	engineConfig := &monitor.Config{
		PollInterval: cfg.PollInterval,
		AlertDelay:   cfg.AlertDelay,
	}

	// nil clock defaults to the real clock in monitor.New
	mon, err := monitor.New(ctx, engineConfig, store, acc, dispatcher, source, nil, cwLogger)
	if err != nil {
		return err
	}

	watcher, err := config.WatchItemsFile(ctx, cfg.ItemsFile, func() {
		if err := mon.ReloadConfiguration(context.Background()); err != nil {
			cwLogger.Error().Err(err).Msg("Items file reload failed")
		}
	}, cwLogger)
	if err != nil {
		return fmt.Errorf("failed to watch items file: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	return lifecycle.Run(ctx, mon, cwLogger)
}

// seedSettings installs the bootstrap contact record when the settings
// table is still empty, so alerts work on first run.
func seedSettings(ctx context.Context, store db.Service, cfg *config.Config) error {
	if cfg.Settings == nil {
		return nil
	}

	existing, err := store.AllUserSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to read user settings: %w", err)
	}

	if len(existing) > 0 {
		return nil
	}

	if err := store.UpsertUserSettings(ctx, cfg.Settings); err != nil {
		return fmt.Errorf("failed to seed user settings: %w", err)
	}

	return nil
}
