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
	"encoding/json"
	"fmt"
	"os"

	"github.com/carverauto/configwatch/pkg/models"
)

// ItemsFile reads the monitored item specs from a JSON file. It
// implements the engine's ItemSource; every call re-reads the file so a
// reload picks up edits without restarting.
type ItemsFile struct {
	path string
}

// NewItemsFile returns an item source backed by the given file.
func NewItemsFile(path string) *ItemsFile {
	return &ItemsFile{path: path}
}

// Path returns the backing file path.
func (f *ItemsFile) Path() string { return f.path }

// Items loads and parses the file. A parse error or an unreadable file is
// returned as-is so the caller can keep its previous item set.
func (f *ItemsFile) Items() ([]models.ItemSpec, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}

	var specs []models.ItemSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse items file '%s': %w", f.path, err)
	}

	return specs, nil
}
