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

// EventKind identifies a typed engine event.
type EventKind string

const (
	// EventItemChanged fires when an observed divergence is resolved and a
	// new value becomes authoritative.
	EventItemChanged EventKind = "item_changed"
	// EventRollbackPerformed fires after a successful restore of a critical
	// item's authorized value.
	EventRollbackPerformed EventKind = "rollback_performed"
	// EventCriticalChangeDetected fires when a critical item diverges,
	// before the delayed alert is armed.
	EventCriticalChangeDetected EventKind = "critical_change_detected"
	// EventChangeAcknowledged fires when a pending change is acknowledged
	// through AllowNextChange.
	EventChangeAcknowledged EventKind = "change_acknowledged"
	// EventItemsReloaded fires after the monitored item collection is
	// replaced from the items file.
	EventItemsReloaded EventKind = "items_reloaded"
)

// Event is the payload delivered to engine subscribers. Any listener (UI,
// logger, test harness) can subscribe; the engine carries no UI-specific
// payload shapes.
type Event struct {
	Kind      EventKind `json:"kind"`
	Name      string    `json:"name,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
