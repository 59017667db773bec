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

package monitor

import (
	"time"

	"github.com/carverauto/configwatch/pkg/models"
)

const (
	defaultPollInterval = time.Second
	defaultAlertDelay   = 10 * time.Second
)

// Config holds the engine timing knobs.
type Config struct {
	// PollInterval is how often the platform store is re-read.
	PollInterval models.Duration `json:"poll_interval"`
	// AlertDelay is the grace window between a critical change and its
	// alert, during which the change can be allowed.
	AlertDelay models.Duration `json:"alert_delay"`
}

// Validate applies defaults for unset fields.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		c.PollInterval = models.Duration(defaultPollInterval)
	}

	if c.AlertDelay <= 0 {
		c.AlertDelay = models.Duration(defaultAlertDelay)
	}

	return nil
}
