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
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Credentials is the on-disk JSON contract for the AWS delivery account.
type Credentials struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	Region          string `json:"region"`
	FromAddress     string `json:"fromAddress,omitempty"`
}

// LoadCredentials reads and validates the credentials file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("alerts: read credentials file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("alerts: parse credentials file: %w", err)
	}

	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" || creds.Region == "" {
		return nil, fmt.Errorf("alerts: credentials file %q is missing required fields", path)
	}

	return &creds, nil
}

// NewSenders constructs the email and SMS senders from one credentials
// file.
func NewSenders(path string) ([]Sender, error) {
	creds, err := LoadCredentials(path)
	if err != nil {
		return nil, err
	}

	provider := credentials.NewStaticCredentialsProvider(
		creds.AccessKeyID, creds.SecretAccessKey, "")

	sesClient := sesv2.New(sesv2.Options{
		Region:      creds.Region,
		Credentials: provider,
	})

	snsClient := sns.New(sns.Options{
		Region:      creds.Region,
		Credentials: provider,
	})

	return []Sender{
		NewEmailSender(sesClient, creds.FromAddress),
		NewSMSSender(snsClient),
	}, nil
}
