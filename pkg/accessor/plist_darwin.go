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

//go:build darwin

package accessor

import (
	"fmt"
	"os"

	"howett.net/plist"

	"github.com/carverauto/configwatch/pkg/logger"
	"github.com/carverauto/configwatch/pkg/models"
)

// Plist reads and writes keyed entries in macOS property list files.
type Plist struct {
	logger logger.Logger
}

// New returns the plist accessor. The state file argument is unused on
// macOS.
func New(_ string, log logger.Logger) (*Plist, error) {
	return &Plist{logger: log.WithComponent("accessor")}, nil
}

// Read returns the current value for the item, rendered as a string.
func (p *Plist) Read(spec *models.ItemSpec) (string, error) {
	entries, _, err := p.load(spec.PlistPath)
	if err != nil {
		return "", err
	}

	value, ok := entries[spec.ValueName]
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", ErrValueNotFound, spec.ValueName, spec.PlistPath)
	}

	return fmt.Sprintf("%v", value), nil
}

// Write sets the value for the item, rewriting the plist in its original
// serialization format and preserving all other keys.
func (p *Plist) Write(spec *models.ItemSpec, value string) error {
	entries, format, err := p.load(spec.PlistPath)
	if err != nil {
		return err
	}

	entries[spec.ValueName] = value

	data, err := plist.Marshal(entries, format)
	if err != nil {
		return fmt.Errorf("accessor: marshal plist %q: %w", spec.PlistPath, err)
	}

	if err := os.WriteFile(spec.PlistPath, data, 0o644); err != nil {
		return fmt.Errorf("accessor: write plist %q: %w", spec.PlistPath, err)
	}

	return nil
}

func (p *Plist) load(path string) (map[string]interface{}, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrValueNotFound, path)
		}

		return nil, 0, fmt.Errorf("accessor: read plist %q: %w", path, err)
	}

	entries := make(map[string]interface{})

	format, err := plist.Unmarshal(data, &entries)
	if err != nil {
		return nil, 0, fmt.Errorf("accessor: parse plist %q: %w", path, err)
	}

	return entries, format, nil
}
