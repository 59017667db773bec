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
	"fmt"

	"github.com/carverauto/configwatch/pkg/models"
)

// Item is the in-memory state for one monitored configuration value. All
// mutation happens under the engine mutex; Item itself is not safe for
// concurrent use.
type Item struct {
	spec models.ItemSpec

	// current is the last authorized value; previous is the authorized
	// value before that. pending holds an observed divergence that has not
	// been accepted yet.
	current  string
	previous string
	pending  string

	// exempt arms a one-shot pass for the next divergence resolution.
	exempt bool

	changeCount int

	// readFailed suppresses repeated unreadable-value log lines.
	readFailed bool
}

// NewItem seeds the item from the first successful read of the store.
func NewItem(spec models.ItemSpec, initial string) *Item {
	return &Item{
		spec:     spec,
		current:  initial,
		previous: initial,
	}
}

// Spec returns the item's spec. The returned pointer aliases the item's
// own copy; callers must not mutate it.
func (i *Item) Spec() *models.ItemSpec { return &i.spec }

// Name returns the item's identity key.
func (i *Item) Name() string { return i.spec.Key() }

// DisplayLabel returns the item name annotated for list surfaces.
func (i *Item) DisplayLabel() string {
	if i.spec.IsCritical {
		return fmt.Sprintf("%s - Critical", i.spec.Key())
	}

	return i.spec.Key()
}

// CurrentValue returns the last authorized value.
func (i *Item) CurrentValue() string { return i.current }

// PreviousValue returns the authorized value before the current one.
func (i *Item) PreviousValue() string { return i.previous }

// PendingValue returns the unresolved observed divergence, or "" when the
// item is in sync.
func (i *Item) PendingValue() string { return i.pending }

// IsCritical reports whether divergence triggers rollback.
func (i *Item) IsCritical() bool { return i.spec.IsCritical }

// SetCritical flips the rollback classification at runtime.
func (i *Item) SetCritical(critical bool) { i.spec.IsCritical = critical }

// MarkPending records an observed divergence awaiting resolution.
func (i *Item) MarkPending(value string) { i.pending = value }

// Accept makes value the new authorized value and clears any pending
// divergence. The old current value is retained as previous.
func (i *Item) Accept(value string) {
	if value != i.current {
		i.previous = i.current
		i.current = value
	}

	i.pending = ""
}

// ExemptNextRollback arms the one-shot exemption.
func (i *Item) ExemptNextRollback() { i.exempt = true }

// RollbackExempt reports whether the exemption is armed.
func (i *Item) RollbackExempt() bool { return i.exempt }

// ConsumeExemption clears the exemption and reports whether it was armed.
// It is the only way the flag transitions back to false.
func (i *Item) ConsumeExemption() bool {
	was := i.exempt
	i.exempt = false

	return was
}

// BumpChangeCount increments and returns the non-critical change counter.
func (i *Item) BumpChangeCount() int {
	i.changeCount++
	return i.changeCount
}

// ResetChangeCount zeroes the counter after a threshold alert fires.
func (i *Item) ResetChangeCount() { i.changeCount = 0 }

// ChangeCount returns the counter without modifying it.
func (i *Item) ChangeCount() int { return i.changeCount }

// NoteReadFailure reports whether this failure is the first since the last
// successful read, so the caller logs it once instead of every tick.
func (i *Item) NoteReadFailure() bool {
	first := !i.readFailed
	i.readFailed = true

	return first
}

// ClearReadFailure re-arms the one-time read failure log.
func (i *Item) ClearReadFailure() { i.readFailed = false }
