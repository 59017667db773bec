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

// Package accessor implements platform item access for the monitoring
// engine: Windows registry values, macOS plist entries, and a flat-file
// backend used on other platforms and in tests. The engine itself only
// sees the read/write contract, never the platform details.
package accessor

import "errors"

// ErrValueNotFound indicates the backing resource or the value within it
// does not exist. The engine treats such reads as "unchanged this tick".
var ErrValueNotFound = errors.New("accessor: value not found")
