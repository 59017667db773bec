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
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/configwatch/pkg/alerts"
	"github.com/carverauto/configwatch/pkg/db"
	"github.com/carverauto/configwatch/pkg/logger"
	"github.com/carverauto/configwatch/pkg/models"
)

// fakeSender records deliveries for one channel.
type fakeSender struct {
	kind      alerts.ChannelKind
	err       error
	delivered []string
}

func (s *fakeSender) Kind() alerts.ChannelKind { return s.kind }

func (s *fakeSender) Send(_ context.Context, address, _ string) error {
	if s.err != nil {
		return s.err
	}

	s.delivered = append(s.delivered, address)

	return nil
}

func settingsStore(t *testing.T, rows ...models.UserSettings) *db.MockService {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := db.NewMockService(ctrl)
	store.EXPECT().AllUserSettings(gomock.Any()).Return(rows, nil).AnyTimes()

	return store
}

func TestDispatcher_DeliversToAllContacts(t *testing.T) {
	store := settingsStore(t,
		models.UserSettings{Email: "a@example.com", Phone: "+15550100", Frequency: "10"},
		models.UserSettings{Email: "b@example.com", Frequency: "10"},
	)

	email := &fakeSender{kind: alerts.ChannelEmail}
	sms := &fakeSender{kind: alerts.ChannelSMS}

	d := NewAlertDispatcher(store, []alerts.Sender{email, sms}, newFakeClock(), logger.NewTestLogger())

	require.NoError(t, d.Dispatch(context.Background(), "something changed"))

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, email.delivered)
	assert.Equal(t, []string{"+15550100"}, sms.delivered)
}

func TestDispatcher_KillSwitch(t *testing.T) {
	store := settingsStore(t,
		models.UserSettings{Email: "a@example.com", Frequency: "Never"},
	)

	email := &fakeSender{kind: alerts.ChannelEmail}
	d := NewAlertDispatcher(store, []alerts.Sender{email}, newFakeClock(), logger.NewTestLogger())

	require.NoError(t, d.Dispatch(context.Background(), "suppressed"))
	assert.Empty(t, email.delivered)
}

func TestDispatcher_RateLimitSlidingWindow(t *testing.T) {
	store := settingsStore(t,
		models.UserSettings{Email: "a@example.com", Frequency: "2"},
	)

	email := &fakeSender{kind: alerts.ChannelEmail}
	clock := newFakeClock()
	d := NewAlertDispatcher(store, []alerts.Sender{email}, clock, logger.NewTestLogger())

	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, "one"))
	require.NoError(t, d.Dispatch(ctx, "two"))
	require.NoError(t, d.Dispatch(ctx, "three"))

	// The third is dropped by the cap.
	assert.Len(t, email.delivered, 2)

	// Slots free up as timestamps age past the window.
	clock.mu.Lock()
	clock.now = clock.now.Add(61 * time.Minute)
	clock.mu.Unlock()

	require.NoError(t, d.Dispatch(ctx, "four"))
	assert.Len(t, email.delivered, 3)
}

func TestDispatcher_FailedDeliveryDoesNotBurnSlots(t *testing.T) {
	store := settingsStore(t,
		models.UserSettings{Email: "a@example.com", Frequency: "1"},
	)

	email := &fakeSender{kind: alerts.ChannelEmail, err: fmt.Errorf("ses down")}
	d := NewAlertDispatcher(store, []alerts.Sender{email}, newFakeClock(), logger.NewTestLogger())

	ctx := context.Background()

	require.ErrorIs(t, d.Dispatch(ctx, "lost"), ErrAlertDeliveryFailed)

	// The outage did not consume the single rate-limit slot.
	email.err = nil
	require.NoError(t, d.Dispatch(ctx, "delivered"))
	assert.Equal(t, []string{"a@example.com"}, email.delivered)
}

func TestDispatcher_PartialFailureStillCounts(t *testing.T) {
	store := settingsStore(t,
		models.UserSettings{Email: "a@example.com", Phone: "+15550100", Frequency: "10"},
	)

	email := &fakeSender{kind: alerts.ChannelEmail, err: fmt.Errorf("ses down")}
	sms := &fakeSender{kind: alerts.ChannelSMS}
	d := NewAlertDispatcher(store, []alerts.Sender{email, sms}, newFakeClock(), logger.NewTestLogger())

	// One channel failing is not a dispatch failure.
	require.NoError(t, d.Dispatch(context.Background(), "partial"))
	assert.Equal(t, []string{"+15550100"}, sms.delivered)
}

func TestDispatcher_NoContacts(t *testing.T) {
	store := settingsStore(t)

	email := &fakeSender{kind: alerts.ChannelEmail}
	d := NewAlertDispatcher(store, []alerts.Sender{email}, newFakeClock(), logger.NewTestLogger())

	require.NoError(t, d.Dispatch(context.Background(), "nobody home"))
	assert.Empty(t, email.delivered)
}

func TestDispatcher_DefaultCapWhenFrequencyUnparsable(t *testing.T) {
	store := settingsStore(t,
		models.UserSettings{Email: "a@example.com", Frequency: "often"},
	)

	email := &fakeSender{kind: alerts.ChannelEmail}
	d := NewAlertDispatcher(store, []alerts.Sender{email}, newFakeClock(), logger.NewTestLogger())

	ctx := context.Background()

	for i := 0; i < models.DefaultAlertsPerHour+3; i++ {
		require.NoError(t, d.Dispatch(ctx, "burst"))
	}

	assert.Len(t, email.delivered, models.DefaultAlertsPerHour)
}
