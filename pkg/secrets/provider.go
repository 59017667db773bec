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

package secrets

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/carverauto/configwatch/pkg/logger"
)

// ErrNoKeyMaterial indicates no valid key material has ever been loaded.
var ErrNoKeyMaterial = errors.New("secrets: no key material loaded")

// keyFile is the on-disk JSON shape of the key source: base64-encoded
// "key" (32 bytes) and "iv" (16 bytes).
type keyFile struct {
	Key string `json:"key"`
	IV  string `json:"iv"`
}

// Provider serves the current Cipher, transparently reloading key material
// when the key file changes on disk. Invalid material is rejected and the
// previous in-memory cipher stays in effect.
type Provider struct {
	mu       sync.Mutex
	path     string
	cipher   *Cipher
	loadedAt time.Time
	logger   logger.Logger
}

// NewProvider loads key material from path. The initial load must succeed;
// later reload failures keep the prior key.
func NewProvider(path string, log logger.Logger) (*Provider, error) {
	p := &Provider{
		path:   path,
		logger: log.WithComponent("secrets"),
	}

	if err := p.reload(); err != nil {
		return nil, err
	}

	return p, nil
}

// Cipher returns the current cipher, reloading first if the key file was
// modified since the last load.
func (p *Provider) Cipher() (*Cipher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if err == nil && info.ModTime().After(p.loadedAt) {
		if rerr := p.reload(); rerr != nil {
			p.logger.Warn().Err(rerr).Str("path", p.path).
				Msg("Key material reload failed, previous key remains in effect")
		}
	}

	if p.cipher == nil {
		return nil, ErrNoKeyMaterial
	}

	return p.cipher, nil
}

// reload reads and validates the key file. Callers hold p.mu.
func (p *Provider) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("secrets: read key file: %w", err)
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return fmt.Errorf("secrets: parse key file: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(kf.Key)
	if err != nil {
		return fmt.Errorf("secrets: decode key: %w", err)
	}

	iv, err := base64.StdEncoding.DecodeString(kf.IV)
	if err != nil {
		return fmt.Errorf("secrets: decode iv: %w", err)
	}

	cipher, err := NewCipher(key, iv)
	if err != nil {
		return err
	}

	info, err := os.Stat(p.path)
	if err != nil {
		return fmt.Errorf("secrets: stat key file: %w", err)
	}

	p.cipher = cipher
	p.loadedAt = info.ModTime()

	p.logger.Info().Str("path", p.path).Msg("Loaded encryption key material")

	return nil
}
