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

package db

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/configwatch/pkg/logger"
	"github.com/carverauto/configwatch/pkg/models"
	"github.com/carverauto/configwatch/pkg/secrets"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	keyPath := filepath.Join(dir, "keys.json")

	material, err := json.Marshal(map[string]string{
		"key": base64.StdEncoding.EncodeToString(make([]byte, 32)),
		"iv":  base64.StdEncoding.EncodeToString(make([]byte, 16)),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(keyPath, material, 0o600))

	provider, err := secrets.NewProvider(keyPath, logger.NewTestLogger())
	require.NoError(t, err)

	store, err := New(filepath.Join(dir, "configwatch.db"), provider, logger.NewTestLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStore_ConfigurationRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.UpsertConfiguration(ctx, "DoubleClickSpeed",
		`HKEY_CURRENT_USER\Control Panel\Mouse`, "500", true))

	configs, err := store.GetAllConfigurations(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 1)

	assert.Equal(t, "DoubleClickSpeed", configs[0].Name)
	assert.Equal(t, "500", configs[0].Value)
	assert.True(t, configs[0].IsCritical)

	// Upsert replaces the existing row instead of adding one.
	require.NoError(t, store.UpsertConfiguration(ctx, "DoubleClickSpeed",
		`HKEY_CURRENT_USER\Control Panel\Mouse`, "750", false))

	configs, err = store.GetAllConfigurations(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "750", configs[0].Value)
	assert.False(t, configs[0].IsCritical)
}

func TestStore_ValuesEncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.UpsertConfiguration(ctx, "item", "path", "plain-value", false))

	var raw string

	err := store.db.QueryRowContext(ctx,
		`SELECT config_value FROM configuration_settings WHERE config_name = 'item'`).Scan(&raw)
	require.NoError(t, err)

	assert.NotEqual(t, "plain-value", raw)
	assert.NotContains(t, raw, "plain")
}

func TestStore_AppendAndQueryChanges(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	id1, err := store.AppendChange(ctx, "speed", "500", "100", false, true)
	require.NoError(t, err)

	id2, err := store.AppendChange(ctx, "speed", "100", "200", false, true)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	_, err = store.AppendChange(ctx, "blink", "1", "2", false, false)
	require.NoError(t, err)

	// Newest first, decrypted.
	all, err := store.QueryChanges(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "blink", all[0].Name)
	assert.Equal(t, "200", all[1].NewValue)
	assert.Equal(t, "500", all[2].OldValue)

	byName, err := store.QueryChanges(ctx, &models.ChangeFilter{Name: "speed"})
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	critical := true
	byCritical, err := store.QueryChanges(ctx, &models.ChangeFilter{Critical: &critical})
	require.NoError(t, err)
	assert.Len(t, byCritical, 2)

	acked := true
	none, err := store.QueryChanges(ctx, &models.ChangeFilter{Acknowledged: &acked})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_AcknowledgeLatestUnacknowledged(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	// Nothing to acknowledge yet.
	acked, err := store.AcknowledgeLatestUnacknowledged(ctx, "speed")
	require.NoError(t, err)
	assert.False(t, acked)

	_, err = store.AppendChange(ctx, "speed", "500", "100", false, true)
	require.NoError(t, err)
	lastID, err := store.AppendChange(ctx, "speed", "100", "200", false, true)
	require.NoError(t, err)

	acked, err = store.AcknowledgeLatestUnacknowledged(ctx, "speed")
	require.NoError(t, err)
	assert.True(t, acked)

	// Only the newest row flipped.
	rows, err := store.QueryChanges(ctx, &models.ChangeFilter{Name: "speed"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, lastID, rows[0].ID)
	assert.True(t, rows[0].Acknowledged)
	assert.False(t, rows[1].Acknowledged)

	// A second call acknowledges the older row.
	acked, err = store.AcknowledgeLatestUnacknowledged(ctx, "speed")
	require.NoError(t, err)
	assert.True(t, acked)

	acked, err = store.AcknowledgeLatestUnacknowledged(ctx, "speed")
	require.NoError(t, err)
	assert.False(t, acked)
}

func TestStore_AggregateChangeCounts(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.AppendChange(ctx, "speed", "a", "b", false, true)
		require.NoError(t, err)
	}

	_, err := store.AppendChange(ctx, "blink", "1", "2", false, false)
	require.NoError(t, err)

	counts, err := store.AggregateChangeCounts(ctx, 7)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	byName := make(map[string]int)
	for _, c := range counts {
		byName[c.Name] = c.Count
	}

	assert.Equal(t, 3, byName["speed"])
	assert.Equal(t, 1, byName["blink"])
}

func TestStore_UserSettingsValidation(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	err := store.UpsertUserSettings(ctx, &models.UserSettings{})
	require.ErrorIs(t, err, ErrNoContact)

	err = store.UpsertUserSettings(ctx, &models.UserSettings{Email: "not-an-email"})
	require.ErrorIs(t, err, ErrInvalidEmail)

	err = store.UpsertUserSettings(ctx, &models.UserSettings{Phone: "call me"})
	require.ErrorIs(t, err, ErrInvalidPhone)
}

func TestStore_UserSettingsUpsertByContact(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.UpsertUserSettings(ctx, &models.UserSettings{
		Email: "ops@example.com", Phone: "+1 555 0100", Threshold: 5, Frequency: "10",
	}))

	// Same contact again: updated in place, last write wins.
	require.NoError(t, store.UpsertUserSettings(ctx, &models.UserSettings{
		Email: "ops@example.com", Phone: "+1 555 0100", Threshold: 9, Frequency: "Never",
	}))

	all, err := store.AllUserSettings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	assert.Equal(t, "ops@example.com", all[0].Email)
	assert.Equal(t, "+1 555 0100", all[0].Phone)
	assert.Equal(t, 9, all[0].Threshold)
	assert.True(t, all[0].AlertsDisabled())

	// A different contact is a new record.
	require.NoError(t, store.UpsertUserSettings(ctx, &models.UserSettings{
		Phone: "+1 555 0199", Threshold: 2, Frequency: "3",
	}))

	all, err = store.AllUserSettings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Empty(t, all[1].Email)
	assert.Equal(t, "+1 555 0199", all[1].Phone)
}
