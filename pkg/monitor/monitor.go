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

// Package monitor implements the change-detection engine: it polls the
// platform configuration store, records every observed change, rolls back
// unauthorized changes to critical items, and dispatches debounced,
// rate-limited alerts.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/configwatch/pkg/db"
	"github.com/carverauto/configwatch/pkg/logger"
	"github.com/carverauto/configwatch/pkg/models"
)

// ItemStatus is a read-only snapshot of one monitored item for list
// surfaces.
type ItemStatus struct {
	Name          string `json:"name"`
	Label         string `json:"label"`
	CurrentValue  string `json:"current_value"`
	PreviousValue string `json:"previous_value"`
	Critical      bool   `json:"critical"`
	ChangeCount   int    `json:"change_count"`
}

// Monitor owns the monitored item set and the poll loop. One mutex
// serializes ticks against the control operations, so an external observer
// never sees a half-processed tick.
type Monitor struct {
	mu     sync.Mutex
	config Config

	store      db.Service
	accessor   Accessor
	dispatcher Dispatcher
	rollback   *RollbackManager
	source     ItemSource
	clock      Clock
	logger     logger.Logger

	items map[string]*Item
	order []string

	// lastAlerted debounces repeat observations: a value equal to the one
	// already alerted on is accepted without another alert cycle.
	lastAlerted map[string]string

	running bool
	done    chan struct{}

	subMu       sync.Mutex
	subscribers []func(models.Event)
}

// New builds the engine and loads the initial item set. The item source
// must yield at least one valid spec.
func New(ctx context.Context, config *Config, store db.Service, accessor Accessor,
	dispatcher Dispatcher, source ItemSource, clock Clock, log logger.Logger) (*Monitor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if clock == nil {
		clock = realClock{}
	}

	m := &Monitor{
		config:      *config,
		store:       store,
		accessor:    accessor,
		dispatcher:  dispatcher,
		rollback:    NewRollbackManager(accessor, log),
		source:      source,
		clock:       clock,
		logger:      log.WithComponent("monitor"),
		items:       make(map[string]*Item),
		lastAlerted: make(map[string]string),
	}

	m.mu.Lock()
	err := m.loadItems(ctx)
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return m, nil
}

// Start implements the lifecycle.Service interface. It blocks until the
// context is canceled or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()

	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}

	m.running = true
	m.done = make(chan struct{})
	done := m.done
	count := len(m.order)
	m.mu.Unlock()

	interval := time.Duration(m.config.PollInterval)
	ticker := m.clock.Ticker(interval)

	defer ticker.Stop()

	m.logger.Info().Dur("interval", interval).Int("items", count).
		Msg("Starting configuration monitor")

	m.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			return nil
		case <-ticker.Chan():
			m.tick(ctx)
		}
	}
}

// Stop implements the lifecycle.Service interface. The engine can be
// started again after Stop returns.
func (m *Monitor) Stop(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}

	m.running = false
	close(m.done)

	m.logger.Info().Msg("Stopping configuration monitor")

	return nil
}

// IsRunning reports whether the poll loop is active.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.running
}

// Subscribe registers a listener for engine events. Callbacks run on the
// engine's goroutines and must not call back into the Monitor.
func (m *Monitor) Subscribe(fn func(models.Event)) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	m.subscribers = append(m.subscribers, fn)
}

// Items returns a snapshot of the monitored set in items-file order.
func (m *Monitor) Items() []ItemStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	statuses := make([]ItemStatus, 0, len(m.order))

	for _, name := range m.order {
		item, ok := m.items[name]
		if !ok {
			continue
		}

		statuses = append(statuses, ItemStatus{
			Name:          item.Name(),
			Label:         item.DisplayLabel(),
			CurrentValue:  item.CurrentValue(),
			PreviousValue: item.PreviousValue(),
			Critical:      item.IsCritical(),
			ChangeCount:   item.ChangeCount(),
		})
	}

	return statuses
}

// SetCritical reclassifies an item at runtime and persists the new
// classification.
func (m *Monitor) SetCritical(ctx context.Context, name string, critical bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}

	item.SetCritical(critical)
	m.persistSnapshot(ctx, item)

	m.logger.Info().Str("item", name).Bool("critical", critical).
		Msg("Item classification changed")

	return nil
}

// AllowNextChange authorizes the pending (or next) change on the item: the
// latest unacknowledged change row is acknowledged, the rollback exemption
// is armed, and a value that was already rolled back is written back to
// the store and accepted as authorized. The exemption is one-shot; it is
// consumed either by the in-flight delayed alert or by the next observed
// divergence, whichever comes first.
func (m *Monitor) AllowNextChange(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}

	acked, err := m.store.AcknowledgeLatestUnacknowledged(ctx, name)
	if err != nil {
		m.logger.Error().Err(err).Str("item", name).
			Msg("Failed to acknowledge change record")
	}

	if acked {
		m.emit(models.Event{
			Kind:      models.EventChangeAcknowledged,
			Name:      name,
			Timestamp: m.clock.Now(),
		})
	}

	item.ExemptNextRollback()

	pending := item.PendingValue()
	if pending == "" {
		m.logger.Info().Str("item", name).Msg("Next change on item exempted from rollback")
		return nil
	}

	// The divergent value was already restored away; put it back now that
	// it is authorized.
	if err := m.accessor.Write(item.Spec(), pending); err != nil {
		return fmt.Errorf("monitor: reapply allowed value for %s: %w", name, err)
	}

	old := item.CurrentValue()
	item.Accept(pending)
	m.lastAlerted[name] = pending
	m.persistSnapshot(ctx, item)

	m.emit(models.Event{
		Kind:      models.EventItemChanged,
		Name:      name,
		OldValue:  old,
		NewValue:  pending,
		Timestamp: m.clock.Now(),
	})

	m.logger.Info().Str("item", name).Str("value", pending).
		Msg("Allowed change reapplied")

	return nil
}

// ReloadConfiguration replaces the monitored set from the item source.
// On any load or validation error the current set is kept unchanged.
// Items that survive the reload keep their runtime state.
func (m *Monitor) ReloadConfiguration(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.loadItems(ctx); err != nil {
		m.logger.Error().Err(err).Msg("Items reload rejected, keeping previous set")
		return err
	}

	m.emit(models.Event{
		Kind:      models.EventItemsReloaded,
		Message:   fmt.Sprintf("%d items monitored", len(m.order)),
		Timestamp: m.clock.Now(),
	})

	m.logger.Info().Int("items", len(m.order)).Msg("Monitored items reloaded")

	return nil
}

// SearchChanges returns change records matching the filter, newest first.
func (m *Monitor) SearchChanges(ctx context.Context, filter *models.ChangeFilter) ([]models.ChangeEvent, error) {
	return m.store.QueryChanges(ctx, filter)
}

// ChangeCountsLast7Days returns per-day, per-item change totals for the
// trailing week.
func (m *Monitor) ChangeCountsLast7Days(ctx context.Context) ([]models.ChangeCount, error) {
	return m.store.AggregateChangeCounts(ctx, 7)
}

// loadItems rebuilds the item set from the source. Caller holds m.mu.
func (m *Monitor) loadItems(ctx context.Context) error {
	specs, err := m.source.Items()
	if err != nil {
		return fmt.Errorf("monitor: load items: %w", err)
	}

	if len(specs) == 0 {
		return ErrNoItems
	}

	items := make(map[string]*Item, len(specs))
	order := make([]string, 0, len(specs))

	for i := range specs {
		spec := specs[i]

		if err := spec.Validate(); err != nil {
			return fmt.Errorf("monitor: load items: %w", err)
		}

		key := spec.Key()
		if _, dup := items[key]; dup {
			return fmt.Errorf("monitor: load items: duplicate item %q", key)
		}

		if existing, ok := m.items[key]; ok {
			existing.SetCritical(spec.IsCritical)
			items[key] = existing
			order = append(order, key)

			continue
		}

		initial, err := m.accessor.Read(&spec)
		if err != nil {
			m.logger.Warn().Err(err).Str("item", key).
				Msg("Initial read failed, monitoring from empty value")

			initial = ""
		}

		item := NewItem(spec, initial)
		items[key] = item
		order = append(order, key)

		m.persistSnapshot(ctx, item)
	}

	m.items = items
	m.order = order

	for name := range m.lastAlerted {
		if _, ok := items[name]; !ok {
			delete(m.lastAlerted, name)
		}
	}

	return nil
}

// tick processes every item once, in order. Item failures are isolated:
// one unreadable or unpersistable item never stops the rest of the sweep.
func (m *Monitor) tick(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range m.order {
		item, ok := m.items[name]
		if !ok {
			continue
		}

		m.processItem(ctx, item)
	}
}

// processItem runs the per-item detection pipeline: observe, record,
// debounce, then the critical or non-critical response. Caller holds m.mu.
func (m *Monitor) processItem(ctx context.Context, item *Item) {
	live, err := m.accessor.Read(item.Spec())
	if err != nil {
		if item.NoteReadFailure() {
			m.logger.Warn().Err(err).Str("item", item.Name()).
				Msg("Monitored value unreadable")
		}

		return
	}

	item.ClearReadFailure()

	if live == item.CurrentValue() {
		return
	}

	name := item.Name()
	old := item.CurrentValue()

	// Every observed change lands in the audit log, debounced or not.
	if _, err := m.store.AppendChange(ctx, name, old, live, false, item.IsCritical()); err != nil {
		m.logger.Error().Err(err).Str("item", name).
			Msg("Failed to record change, audit trail has a gap")
	}

	if last, ok := m.lastAlerted[name]; ok && last == live {
		// Already alerted on this exact value; accept it without another
		// alert cycle.
		item.Accept(live)
		m.persistSnapshot(ctx, item)

		return
	}

	m.lastAlerted[name] = live

	if item.IsCritical() {
		m.handleCritical(ctx, item, old, live)
		return
	}

	m.handleNonCritical(ctx, item, old, live)
}

func (m *Monitor) handleCritical(ctx context.Context, item *Item, old, live string) {
	name := item.Name()

	m.emit(models.Event{
		Kind:      models.EventCriticalChangeDetected,
		Name:      name,
		OldValue:  old,
		NewValue:  live,
		Timestamp: m.clock.Now(),
	})

	switch m.rollback.Evaluate(item) {
	case OutcomeExempted:
		m.persistSnapshot(ctx, item)
		m.emit(models.Event{
			Kind:      models.EventItemChanged,
			Name:      name,
			OldValue:  old,
			NewValue:  live,
			Timestamp: m.clock.Now(),
		})

		return
	case OutcomeNoDivergence:
		// The store flapped back on its own between the tick read and the
		// rollback re-read; nothing to alert on.
		m.persistSnapshot(ctx, item)
		return
	case OutcomeRestored:
		m.persistSnapshot(ctx, item)
		m.emit(models.Event{
			Kind:      models.EventRollbackPerformed,
			Name:      name,
			OldValue:  live,
			NewValue:  item.CurrentValue(),
			Timestamp: m.clock.Now(),
		})
	case OutcomeRestoreFailed:
		// Drop the debounce entry so the next tick retries the restore
		// instead of silently accepting the unauthorized value.
		delete(m.lastAlerted, name)
	case OutcomeNotCritical:
		return
	}

	message := fmt.Sprintf("Critical configuration item %q changed from %q to %q.",
		name, old, live)
	m.scheduleDelayedAlert(name, message)
}

func (m *Monitor) handleNonCritical(ctx context.Context, item *Item, old, live string) {
	name := item.Name()
	count := item.BumpChangeCount()

	if threshold := m.alertThreshold(ctx); threshold > 0 && count >= threshold {
		item.ResetChangeCount()

		message := fmt.Sprintf("Configuration item %q changed %d times, most recent value: %q.",
			name, count, live)

		if err := m.dispatcher.Dispatch(ctx, message); err != nil {
			m.logger.Error().Err(err).Str("item", name).
				Msg("Threshold alert delivery failed")
		}
	}

	item.Accept(live)
	m.persistSnapshot(ctx, item)

	m.emit(models.Event{
		Kind:      models.EventItemChanged,
		Name:      name,
		OldValue:  old,
		NewValue:  live,
		Timestamp: m.clock.Now(),
	})
}

// scheduleDelayedAlert arms the grace-window alert for a critical change.
// The exemption check happens when the timer fires, not when it is
// scheduled, so an AllowNextChange call racing the window wins or loses
// by real elapsed time alone.
func (m *Monitor) scheduleDelayedAlert(name, message string) {
	m.clock.AfterFunc(time.Duration(m.config.AlertDelay), func() {
		m.mu.Lock()
		item, ok := m.items[name]
		suppressed := ok && item.ConsumeExemption()
		m.mu.Unlock()

		if !ok {
			m.logger.Debug().Str("item", name).
				Msg("Item removed before delayed alert fired")
			return
		}

		if suppressed {
			m.logger.Info().Str("item", name).
				Msg("Delayed alert suppressed by change exemption")
			return
		}

		if err := m.dispatcher.Dispatch(context.Background(), message); err != nil {
			m.logger.Error().Err(err).Str("item", name).
				Msg("Critical alert delivery failed")
		}
	})
}

// alertThreshold returns the non-critical alert threshold from the stored
// settings, or 0 when unset (alerts disabled for non-critical items).
func (m *Monitor) alertThreshold(ctx context.Context) int {
	settings, err := m.store.AllUserSettings(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to load alert threshold")
		return 0
	}

	if len(settings) == 0 {
		return 0
	}

	return settings[0].Threshold
}

// persistSnapshot writes the item's authoritative state to the
// configuration table. Failures are logged, never fatal to the tick.
func (m *Monitor) persistSnapshot(ctx context.Context, item *Item) {
	err := m.store.UpsertConfiguration(ctx, item.Name(), item.Spec().Path(),
		item.CurrentValue(), item.IsCritical())
	if err != nil {
		m.logger.Error().Err(err).Str("item", item.Name()).
			Msg("Failed to persist configuration snapshot")
	}
}

func (m *Monitor) emit(event models.Event) {
	m.subMu.Lock()
	subscribers := make([]func(models.Event), len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.subMu.Unlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
