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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/configwatch/pkg/logger"
)

func TestRollback_NotCritical(t *testing.T) {
	acc := newFakeAccessor()
	rm := NewRollbackManager(acc, logger.NewTestLogger())

	item := NewItem(testSpec("blink", false), "500")
	assert.Equal(t, OutcomeNotCritical, rm.Evaluate(item))
}

func TestRollback_NoDivergence(t *testing.T) {
	acc := newFakeAccessor()
	acc.set("speed", "500")

	rm := NewRollbackManager(acc, logger.NewTestLogger())

	item := NewItem(testSpec("speed", true), "500")
	assert.Equal(t, OutcomeNoDivergence, rm.Evaluate(item))
	assert.Empty(t, acc.writes)
}

func TestRollback_Restored(t *testing.T) {
	acc := newFakeAccessor()
	acc.set("speed", "100")

	rm := NewRollbackManager(acc, logger.NewTestLogger())

	item := NewItem(testSpec("speed", true), "500")
	assert.Equal(t, OutcomeRestored, rm.Evaluate(item))

	// The store holds the authorized value again; the rejected value is
	// kept as pending for a possible AllowNextChange.
	assert.Equal(t, "500", acc.get("speed"))
	assert.Equal(t, "500", item.CurrentValue())
	assert.Equal(t, "100", item.PendingValue())
}

func TestRollback_Exempted(t *testing.T) {
	acc := newFakeAccessor()
	acc.set("speed", "100")

	rm := NewRollbackManager(acc, logger.NewTestLogger())

	item := NewItem(testSpec("speed", true), "500")
	item.ExemptNextRollback()

	assert.Equal(t, OutcomeExempted, rm.Evaluate(item))

	// The observed value is accepted, the store is untouched, and the
	// exemption is gone.
	assert.Equal(t, "100", acc.get("speed"))
	assert.Equal(t, "100", item.CurrentValue())
	assert.Equal(t, "500", item.PreviousValue())
	assert.False(t, item.RollbackExempt())
	assert.Empty(t, acc.writes)
}

func TestRollback_WriteRejected(t *testing.T) {
	acc := newFakeAccessor()
	acc.set("speed", "100")
	acc.writeErr = fmt.Errorf("access denied")

	rm := NewRollbackManager(acc, logger.NewTestLogger())

	item := NewItem(testSpec("speed", true), "500")
	assert.Equal(t, OutcomeRestoreFailed, rm.Evaluate(item))

	// The authorized value never advances onto the unauthorized one.
	assert.Equal(t, "500", item.CurrentValue())
	assert.Equal(t, "100", acc.get("speed"))
}

func TestRollback_ReadFailed(t *testing.T) {
	acc := newFakeAccessor()

	rm := NewRollbackManager(acc, logger.NewTestLogger())

	item := NewItem(testSpec("speed", true), "500")
	assert.Equal(t, OutcomeRestoreFailed, rm.Evaluate(item))
}

func TestItem_AcceptTracksPrevious(t *testing.T) {
	item := NewItem(testSpec("speed", true), "500")

	item.MarkPending("100")
	item.Accept("100")

	assert.Equal(t, "100", item.CurrentValue())
	assert.Equal(t, "500", item.PreviousValue())
	assert.Empty(t, item.PendingValue())

	// Accepting the current value again keeps previous intact.
	item.Accept("100")
	assert.Equal(t, "500", item.PreviousValue())
}

func TestItem_ExemptionIsOneShot(t *testing.T) {
	item := NewItem(testSpec("speed", true), "500")

	assert.False(t, item.ConsumeExemption())

	item.ExemptNextRollback()
	assert.True(t, item.ConsumeExemption())
	assert.False(t, item.ConsumeExemption())
}

func TestItem_DisplayLabel(t *testing.T) {
	require.Equal(t, "speed - Critical", NewItem(testSpec("speed", true), "").DisplayLabel())
	require.Equal(t, "blink", NewItem(testSpec("blink", false), "").DisplayLabel())
}

func TestItem_ReadFailureLatch(t *testing.T) {
	item := NewItem(testSpec("speed", true), "500")

	assert.True(t, item.NoteReadFailure(), "first failure is reportable")
	assert.False(t, item.NoteReadFailure(), "repeat failures stay quiet")

	item.ClearReadFailure()
	assert.True(t, item.NoteReadFailure())
}
