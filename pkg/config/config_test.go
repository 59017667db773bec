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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/configwatch/pkg/logger"
)

func TestLoadAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configwatch.json")

	require.NoError(t, os.WriteFile(path, []byte(`{
		"items_file": "/etc/configwatch/items.json",
		"database_path": "/var/lib/configwatch/configwatch.db",
		"key_file": "/etc/configwatch/keys.json",
		"poll_interval": "2s",
		"alert_delay": "15s",
		"settings": {"email": "ops@example.com", "threshold": 5, "frequency": "10"}
	}`), 0o600))

	var cfg Config

	require.NoError(t, LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "/etc/configwatch/items.json", cfg.ItemsFile)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.PollInterval))
	assert.Equal(t, 15*time.Second, time.Duration(cfg.AlertDelay))
	require.NotNil(t, cfg.Settings)
	assert.Equal(t, "ops@example.com", cfg.Settings.Email)
}

func TestLoadAndValidate_MissingRequired(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"no items file": `{"database_path": "db", "key_file": "k"}`,
		"no database":   `{"items_file": "i", "key_file": "k"}`,
		"no key file":   `{"items_file": "i", "database_path": "db"}`,
		"empty contact": `{"items_file": "i", "database_path": "db", "key_file": "k", "settings": {}}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			var cfg Config

			require.Error(t, LoadAndValidate(context.Background(), path, &cfg))
		})
	}
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	var cfg Config

	err := LoadAndValidate(context.Background(), filepath.Join(t.TempDir(), "nope.json"), &cfg)
	require.Error(t, err)
}

func TestItemsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")

	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "DoubleClickSpeed", "hive": "HKEY_CURRENT_USER",
		 "key_path": "Control Panel\\Mouse", "value_name": "DoubleClickSpeed",
		 "is_critical": true},
		{"name": "Blink", "plist_path": "/Library/Preferences/x.plist",
		 "value_name": "blink"}
	]`), 0o600))

	specs, err := NewItemsFile(path).Items()
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "DoubleClickSpeed", specs[0].Key())
	assert.True(t, specs[0].IsCritical)
	assert.False(t, specs[1].IsCritical)

	for i := range specs {
		require.NoError(t, specs[i].Validate())
	}
}

func TestItemsFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"}`), 0o600))

	_, err := NewItemsFile(path).Items()
	require.Error(t, err)

	_, err = NewItemsFile(filepath.Join(t.TempDir(), "missing.json")).Items()
	require.Error(t, err)
}

func TestWatchItemsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)

	watcher, err := WatchItemsFile(ctx, path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, logger.NewTestLogger())
	require.NoError(t, err)

	defer func() { _ = watcher.Close() }()

	require.NoError(t, os.WriteFile(path, []byte(`[{"value_name": "x", "plist_path": "/p"}]`), 0o600))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o600))

	select {
	case <-changed:
		t.Fatal("watcher reported an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchItemsFile_SurvivesRenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)

	watcher, err := WatchItemsFile(ctx, path, func() { changed <- struct{}{} }, logger.NewTestLogger())
	require.NoError(t, err)

	defer func() { _ = watcher.Close() }()

	// Editor-style save: write a temp file then rename over the target.
	tmp := filepath.Join(dir, "items.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`[{"value_name": "y", "plist_path": "/p"}]`), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher missed rename-replace")
	}

	// The watch still works after the replace.
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher lost the file after rename-replace")
	}
}
