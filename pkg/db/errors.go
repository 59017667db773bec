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

package db

import "errors"

var (
	// ErrNoContact indicates a user settings write carried neither an email
	// address nor a phone number.
	ErrNoContact = errors.New("db: user settings require an email or phone number")
	// ErrInvalidEmail indicates the email address failed format validation.
	ErrInvalidEmail = errors.New("db: invalid email address")
	// ErrInvalidPhone indicates the phone number failed format validation.
	ErrInvalidPhone = errors.New("db: invalid phone number")
	// ErrFailedToOpen indicates the database file could not be opened.
	ErrFailedToOpen = errors.New("db: failed to open database")
	// ErrFailedToMigrate indicates the schema could not be applied.
	ErrFailedToMigrate = errors.New("db: failed to apply schema")
)
