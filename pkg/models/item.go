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

package models

import "fmt"

// ItemSpec describes a single monitored configuration value as it appears
// in the items file. On Windows the identity is (hive, key_path, value_name);
// on macOS it is (plist_path, value_name). The engine treats the identity as
// an opaque unique string key and never interprets the platform fields itself.
type ItemSpec struct {
	Name       string `json:"name"`
	Hive       string `json:"hive,omitempty"`
	KeyPath    string `json:"key_path,omitempty"`
	PlistPath  string `json:"plist_path,omitempty"`
	ValueName  string `json:"value_name"`
	IsCritical bool   `json:"is_critical"`
}

// Key returns the stable identity string for the item. Name takes
// precedence when set; otherwise the identity is derived from the
// platform-specific fields.
func (s *ItemSpec) Key() string {
	if s.Name != "" {
		return s.Name
	}

	if s.PlistPath != "" {
		return fmt.Sprintf("%s:%s", s.PlistPath, s.ValueName)
	}

	return fmt.Sprintf("%s\\%s\\%s", s.Hive, s.KeyPath, s.ValueName)
}

// Path returns the human-readable location of the value, used for the
// configuration snapshot table.
func (s *ItemSpec) Path() string {
	if s.PlistPath != "" {
		return s.PlistPath
	}

	return fmt.Sprintf("%s\\%s", s.Hive, s.KeyPath)
}

// Validate checks that the spec carries a usable identity.
func (s *ItemSpec) Validate() error {
	if s.ValueName == "" {
		return fmt.Errorf("item %q: value_name is required", s.Name)
	}

	if s.PlistPath == "" && (s.Hive == "" || s.KeyPath == "") {
		return fmt.Errorf("item %q: either plist_path or hive and key_path are required", s.Name)
	}

	return nil
}
