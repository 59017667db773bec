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

package alerts

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// snsAPI is the slice of the SNS client the sender needs.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSSender delivers alert messages as SMS through SNS.
type SMSSender struct {
	client snsAPI
}

// NewSMSSender wraps the SNS client.
func NewSMSSender(client snsAPI) *SMSSender {
	return &SMSSender{client: client}
}

func (*SMSSender) Kind() ChannelKind { return ChannelSMS }

// Send delivers the message to one E.164 phone number.
func (s *SMSSender) Send(ctx context.Context, address, message string) error {
	input := &sns.PublishInput{
		Message:     aws.String(message),
		PhoneNumber: aws.String(address),
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("alerts: send sms to %s: %w", address, err)
	}

	return nil
}
