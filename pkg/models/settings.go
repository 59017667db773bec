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

package models

import (
	"strconv"
	"strings"
	"time"
)

// FrequencyNever disables alert dispatch entirely, independent of the
// rate-limit counter.
const FrequencyNever = "Never"

// DefaultAlertsPerHour applies when the configured frequency is absent or
// unparsable.
const DefaultAlertsPerHour = 10

// UserSettings holds the alert contact information and thresholds for one
// recipient. Email and Phone are stored encrypted at rest.
type UserSettings struct {
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Threshold int       `json:"threshold"`
	Frequency string    `json:"frequency"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertsDisabled reports whether the frequency kill switch is engaged.
func (s *UserSettings) AlertsDisabled() bool {
	return strings.EqualFold(s.Frequency, FrequencyNever)
}

// AlertsPerHour parses the frequency into a positive alerts/hour cap.
func (s *UserSettings) AlertsPerHour() int {
	n, err := strconv.Atoi(strings.TrimSpace(s.Frequency))
	if err != nil || n <= 0 {
		return DefaultAlertsPerHour
	}

	return n
}
