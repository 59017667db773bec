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
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/carverauto/configwatch/pkg/logger"
)

// debounceDelay coalesces the burst of events an editor's save-and-rename
// produces into one reload.
const debounceDelay = 100 * time.Millisecond

// ItemsWatcher triggers a callback whenever the items file changes on
// disk. It watches the containing directory rather than the file itself,
// so the watch survives editors that replace the file by rename.
type ItemsWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()
	logger   logger.Logger
}

// WatchItemsFile starts watching path and calls onChange after each
// change. The watcher runs until ctx is canceled.
func WatchItemsFile(ctx context.Context, path string, onChange func(), log logger.Logger) (*ItemsWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create items watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch items directory: %w", err)
	}

	w := &ItemsWatcher{
		path:     path,
		watcher:  fsw,
		onChange: onChange,
		logger:   log.WithComponent("items-watcher"),
	}

	go w.loop(ctx)

	return w, nil
}

// Close stops the watcher.
func (w *ItemsWatcher) Close() error {
	return w.watcher.Close()
}

func (w *ItemsWatcher) loop(ctx context.Context) {
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}

			debounce = time.AfterFunc(debounceDelay, w.onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.logger.Error().Err(err).Msg("Items watcher error")
		}
	}
}
