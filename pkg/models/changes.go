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

import "time"

// ChangeEvent is one row of the append-only change audit log. OldValue and
// NewValue are stored encrypted and decrypted on read.
type ChangeEvent struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
	Acknowledged bool      `json:"acknowledged"`
	Critical     bool      `json:"critical"`
	Timestamp    time.Time `json:"timestamp"`
}

// Configuration is one row of the configuration snapshot table, keyed by
// item name. Value is stored encrypted.
type Configuration struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Value      string    `json:"value"`
	IsCritical bool      `json:"is_critical"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChangeFilter narrows a change history query. Nil fields are ignored.
type ChangeFilter struct {
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	Name         string     `json:"name,omitempty"`
	Acknowledged *bool      `json:"acknowledged,omitempty"`
	Critical     *bool      `json:"critical,omitempty"`
}

// ChangeCount is one row of the per-day per-item change aggregation used by
// the dashboard collaborator.
type ChangeCount struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}
