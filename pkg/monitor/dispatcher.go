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
	"context"
	"sync"
	"time"

	"github.com/carverauto/configwatch/pkg/alerts"
	"github.com/carverauto/configwatch/pkg/db"
	"github.com/carverauto/configwatch/pkg/logger"
	"github.com/carverauto/configwatch/pkg/models"
)

// rateWindow is the sliding interval the alerts-per-hour cap applies to.
const rateWindow = time.Hour

// AlertDispatcher fans alert messages out to every configured contact,
// subject to the frequency kill switch and the sliding-window rate limit.
// A send timestamp is recorded only when at least one channel delivered,
// so a total delivery outage does not burn rate-limit slots.
type AlertDispatcher struct {
	mu      sync.Mutex
	store   db.Service
	senders map[alerts.ChannelKind]alerts.Sender
	clock   Clock
	logger  logger.Logger

	// sent holds delivery timestamps inside the sliding window.
	sent []time.Time
}

// NewAlertDispatcher builds a dispatcher over the given delivery channels.
func NewAlertDispatcher(store db.Service, senders []alerts.Sender, clock Clock, log logger.Logger) *AlertDispatcher {
	if clock == nil {
		clock = realClock{}
	}

	byKind := make(map[alerts.ChannelKind]alerts.Sender, len(senders))
	for _, s := range senders {
		byKind[s.Kind()] = s
	}

	return &AlertDispatcher{
		store:   store,
		senders: byKind,
		clock:   clock,
		logger:  log.WithComponent("alerts"),
	}
}

// Dispatch sends the message to every stored contact. It returns nil when
// the message was suppressed by policy; an error means every attempted
// delivery failed.
func (d *AlertDispatcher) Dispatch(ctx context.Context, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	settings, err := d.store.AllUserSettings(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to load alert contacts")
		return err
	}

	if len(settings) == 0 {
		d.logger.Warn().Msg("No alert contacts configured, dropping alert")
		return nil
	}

	// The first record carries the policy, matching how settings are
	// edited as a single form.
	policy := settings[0]

	if policy.AlertsDisabled() {
		d.logger.Info().Msg("Alert frequency set to Never, dropping alert")
		return nil
	}

	now := d.clock.Now()
	d.prune(now)

	limit := policy.AlertsPerHour()
	if len(d.sent) >= limit {
		d.logger.Warn().Int("limit", limit).Int("sent_in_window", len(d.sent)).
			Msg("Alert rate limit reached, dropping alert")
		return nil
	}

	delivered := 0
	attempted := 0

	for i := range settings {
		delivered += d.deliver(ctx, &settings[i], message, &attempted)
	}

	if attempted == 0 {
		d.logger.Warn().Msg("No usable contact addresses, dropping alert")
		return nil
	}

	if delivered == 0 {
		return ErrAlertDeliveryFailed
	}

	d.sent = append(d.sent, now)

	d.logger.Info().Int("delivered", delivered).Int("attempted", attempted).
		Msg("Alert dispatched")

	return nil
}

// deliver attempts each channel for one contact, returning the number of
// successful deliveries.
func (d *AlertDispatcher) deliver(ctx context.Context, contact *models.UserSettings, message string, attempted *int) int {
	ok := 0

	if sender, found := d.senders[alerts.ChannelEmail]; found && contact.Email != "" {
		*attempted++

		if err := sender.Send(ctx, contact.Email, message); err != nil {
			d.logger.Error().Err(err).Msg("Email delivery failed")
		} else {
			ok++
		}
	}

	if sender, found := d.senders[alerts.ChannelSMS]; found && contact.Phone != "" {
		*attempted++

		if err := sender.Send(ctx, contact.Phone, message); err != nil {
			d.logger.Error().Err(err).Msg("SMS delivery failed")
		} else {
			ok++
		}
	}

	return ok
}

// prune drops timestamps that have aged out of the sliding window.
func (d *AlertDispatcher) prune(now time.Time) {
	cutoff := now.Add(-rateWindow)
	kept := d.sent[:0]

	for _, t := range d.sent {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	d.sent = kept
}
