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

// Package alerts implements the outbound notification channels. Senders
// report delivery failure through their error return; they never panic and
// a failure on one channel must not affect another.
package alerts

import "context"

// ChannelKind identifies a delivery channel.
type ChannelKind string

const (
	// ChannelEmail delivers through AWS SESv2.
	ChannelEmail ChannelKind = "email"
	// ChannelSMS delivers through AWS SNS.
	ChannelSMS ChannelKind = "sms"
)

// Sender delivers one message to one address on a single channel.
type Sender interface {
	Kind() ChannelKind
	Send(ctx context.Context, address, message string) error
}
