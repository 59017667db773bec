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

// Package config loads and validates the service configuration and the
// monitored-items file.
package config

import (
	"errors"
	"fmt"

	"github.com/carverauto/configwatch/pkg/logger"
	"github.com/carverauto/configwatch/pkg/models"
)

var (
	errItemsFileRequired = errors.New("items_file is required")
	errDatabaseRequired  = errors.New("database_path is required")
	errKeyFileRequired   = errors.New("key_file is required")
)

// Config is the top-level service configuration.
type Config struct {
	// ItemsFile is the JSON file listing the monitored items.
	ItemsFile string `json:"items_file"`
	// DatabasePath is the SQLite database file.
	DatabasePath string `json:"database_path"`
	// KeyFile holds the encryption key material for sensitive columns.
	KeyFile string `json:"key_file"`
	// AWSConfigFile holds the alert delivery credentials. Optional; when
	// absent, alert dispatch is disabled.
	AWSConfigFile string `json:"aws_config_file,omitempty"`
	// StateFile backs the flat-file accessor on platforms without a
	// native configuration store.
	StateFile string `json:"state_file,omitempty"`

	PollInterval models.Duration `json:"poll_interval,omitempty"`
	AlertDelay   models.Duration `json:"alert_delay,omitempty"`

	// Settings seeds the alert contact record on first run.
	Settings *models.UserSettings `json:"settings,omitempty"`

	Logging *logger.Config `json:"logging,omitempty"`
}

// Validate checks required fields. Timing defaults are applied by the
// engine, not here.
func (c *Config) Validate() error {
	if c.ItemsFile == "" {
		return errItemsFileRequired
	}

	if c.DatabasePath == "" {
		return errDatabaseRequired
	}

	if c.KeyFile == "" {
		return errKeyFileRequired
	}

	if c.Settings != nil && c.Settings.Email == "" && c.Settings.Phone == "" {
		return fmt.Errorf("settings: at least one of email or phone is required")
	}

	return nil
}
