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

	"github.com/carverauto/configwatch/pkg/logger"
)

// Outcome classifies the result of a rollback evaluation.
type Outcome int

const (
	// OutcomeNoDivergence means the store already matches the authorized
	// value; nothing to do.
	OutcomeNoDivergence Outcome = iota
	// OutcomeNotCritical means the item does not participate in rollback.
	OutcomeNotCritical
	// OutcomeExempted means an armed exemption consumed the divergence and
	// the observed value was accepted as authorized.
	OutcomeExempted
	// OutcomeRestored means the authorized value was written back and
	// confirmed by a follow-up read.
	OutcomeRestored
	// OutcomeRestoreFailed means the write was rejected or the follow-up
	// read still showed the unauthorized value.
	OutcomeRestoreFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoDivergence:
		return "no_divergence"
	case OutcomeNotCritical:
		return "not_critical"
	case OutcomeExempted:
		return "exempted"
	case OutcomeRestored:
		return "restored"
	case OutcomeRestoreFailed:
		return "restore_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// RollbackManager restores the authorized value of critical items when the
// platform store diverges. It re-reads the store itself rather than
// trusting the caller's observation, so a divergence that resolved between
// the tick and the evaluation is handled without a spurious write.
type RollbackManager struct {
	accessor Accessor
	logger   logger.Logger
}

// NewRollbackManager wires the manager to the platform accessor.
func NewRollbackManager(accessor Accessor, log logger.Logger) *RollbackManager {
	return &RollbackManager{
		accessor: accessor,
		logger:   log.WithComponent("rollback"),
	}
}

// Evaluate decides and performs the rollback response for one item. On
// exemption the observed value is accepted as the new authorized value and
// the exemption is consumed. On restore the authorized value stays
// untouched and the divergent value is left recorded as pending.
func (r *RollbackManager) Evaluate(item *Item) Outcome {
	if !item.IsCritical() {
		return OutcomeNotCritical
	}

	live, err := r.accessor.Read(item.Spec())
	if err != nil {
		r.logger.Warn().Err(err).Str("item", item.Name()).
			Msg("Re-read before rollback failed")
		return OutcomeRestoreFailed
	}

	authorized := item.CurrentValue()
	if live == authorized {
		item.Accept(authorized)
		return OutcomeNoDivergence
	}

	item.MarkPending(live)

	if item.ConsumeExemption() {
		r.logger.Info().Str("item", item.Name()).Str("value", live).
			Msg("Divergence exempted from rollback")
		item.Accept(live)

		return OutcomeExempted
	}

	if err := r.accessor.Write(item.Spec(), authorized); err != nil {
		r.logger.Error().Err(err).Str("item", item.Name()).
			Str("value", authorized).Msg("Rollback write rejected")
		return OutcomeRestoreFailed
	}

	confirmed, err := r.accessor.Read(item.Spec())
	if err != nil || confirmed != authorized {
		r.logger.Error().Err(err).Str("item", item.Name()).
			Str("read_back", confirmed).Msg("Rollback write did not stick")
		return OutcomeRestoreFailed
	}

	r.logger.Info().Str("item", item.Name()).
		Str("restored", authorized).Str("rejected", live).
		Msg("Restored authorized value")

	return OutcomeRestored
}
