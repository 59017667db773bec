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

package accessor

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/carverauto/configwatch/pkg/models"
)

// File is a flat-file key/value backend. It backs development hosts
// without a registry or plist store and is the accessor used by tests.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a file accessor rooted at path. The file is created on
// first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Read returns the stored value for the item's identity key.
func (f *File) Read(spec *models.ItemSpec) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return "", err
	}

	value, ok := entries[spec.Key()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrValueNotFound, spec.Key())
	}

	return value, nil
}

// Write stores the value under the item's identity key, atomically
// replacing the file.
func (f *File) Write(spec *models.ItemSpec, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		entries = make(map[string]string)
	}

	entries[spec.Key()] = value

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("accessor: marshal state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("accessor: write state: %w", err)
	}

	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("accessor: replace state: %w", err)
	}

	return nil
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrValueNotFound, f.path)
		}

		return nil, fmt.Errorf("accessor: read state: %w", err)
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("accessor: parse state: %w", err)
	}

	return entries, nil
}
