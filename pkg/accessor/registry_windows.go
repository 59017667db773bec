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

//go:build windows

package accessor

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/carverauto/configwatch/pkg/logger"
	"github.com/carverauto/configwatch/pkg/models"
)

// Registry reads and writes string values in the Windows registry.
type Registry struct {
	logger logger.Logger
}

// New returns the registry accessor. The state file argument is unused on
// Windows.
func New(_ string, log logger.Logger) (*Registry, error) {
	return &Registry{logger: log.WithComponent("accessor")}, nil
}

func hiveKey(hive string) (registry.Key, error) {
	switch hive {
	case "HKEY_LOCAL_MACHINE", "HKLM":
		return registry.LOCAL_MACHINE, nil
	case "HKEY_CURRENT_USER", "HKCU", "":
		return registry.CURRENT_USER, nil
	default:
		return 0, fmt.Errorf("accessor: unknown hive %q", hive)
	}
}

// Read returns the current string value for the item.
func (r *Registry) Read(spec *models.ItemSpec) (string, error) {
	hive, err := hiveKey(spec.Hive)
	if err != nil {
		return "", err
	}

	key, err := registry.OpenKey(hive, spec.KeyPath, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", fmt.Errorf("%w: %s\\%s", ErrValueNotFound, spec.Hive, spec.KeyPath)
		}

		return "", fmt.Errorf("accessor: open key %q: %w", spec.KeyPath, err)
	}
	defer key.Close()

	value, _, err := key.GetStringValue(spec.ValueName)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrValueNotFound, spec.ValueName)
		}

		return "", fmt.Errorf("accessor: read value %q: %w", spec.ValueName, err)
	}

	return value, nil
}

// Write sets the string value for the item. Confirmation by re-read is the
// caller's responsibility.
func (r *Registry) Write(spec *models.ItemSpec, value string) error {
	hive, err := hiveKey(spec.Hive)
	if err != nil {
		return err
	}

	key, err := registry.OpenKey(hive, spec.KeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("accessor: open key %q for write: %w", spec.KeyPath, err)
	}
	defer key.Close()

	if err := key.SetStringValue(spec.ValueName, value); err != nil {
		return fmt.Errorf("accessor: write value %q: %w", spec.ValueName, err)
	}

	return nil
}
