// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrStatus = errors.New("status code is invalid")
)

const DefaultPingURL = "https://hc-ping.com"

// Check reports the outcome of a run to a healthchecks.io check. A Check
// with an empty ID does nothing.
type Check struct {
	ID      string
	BaseURL string

	client *resty.Client
}

func New(id string) *Check {
	return &Check{
		ID:      id,
		BaseURL: DefaultPingURL,
		client: resty.New().
			SetRetryCount(2).
			SetTimeout(10 * time.Second),
	}
}

// Start signals that a run has begun
func (check *Check) Start(ctx context.Context) error {
	return check.ping(ctx, "start", "")
}

// Success signals that a run completed; msg is attached to the ping
func (check *Check) Success(ctx context.Context, msg string) error {
	return check.ping(ctx, "", msg)
}

// Fail signals that a run failed with err
func (check *Check) Fail(ctx context.Context, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return check.ping(ctx, "fail", msg)
}

func (check *Check) ping(ctx context.Context, signal, msg string) error {
	if check == nil || check.ID == "" {
		return nil
	}

	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(check.BaseURL, "/"), check.ID)
	if signal != "" {
		url = fmt.Sprintf("%s/%s", url, signal)
	}

	resp, err := check.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetBody(msg).
		Post(url)
	if err != nil {
		return err
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return nil
}
