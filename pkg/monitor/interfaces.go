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

//go:generate mockgen -destination=mock_monitor.go -package=monitor github.com/carverauto/configwatch/pkg/monitor Clock,Ticker,Timer,Accessor,Dispatcher

import (
	"context"
	"time"

	"github.com/carverauto/configwatch/pkg/models"
)

// Accessor reads and writes values in the platform configuration store.
// Implementations must treat a missing value as an error and must confirm
// writes synchronously; the engine relies on Read-after-Write to verify
// restores.
type Accessor interface {
	Read(spec *models.ItemSpec) (string, error)
	Write(spec *models.ItemSpec, value string) error
}

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
	AfterFunc(d time.Duration, f func()) Timer
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// Timer abstracts a one-shot deferred call.
type Timer interface {
	Stop() bool
}

// Dispatcher fans an alert message out to the configured contact channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, message string) error
}

// ItemSource supplies the monitored item specs, typically from the items
// file on disk.
type ItemSource interface {
	Items() ([]models.ItemSpec, error)
}
