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
package healthcheck_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/boxoffice/healthcheck"
)

var _ = Describe("Check", func() {
	var (
		server   *httptest.Server
		paths    []string
		bodies   []string
		response int
	)

	BeforeEach(func() {
		paths = nil
		bodies = nil
		response = http.StatusOK
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			paths = append(paths, r.URL.Path)
			bodies = append(bodies, string(body))
			w.WriteHeader(response)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("pings start, success and fail endpoints", func() {
		check := healthcheck.New("abc-123")
		check.BaseURL = server.URL

		ctx := context.Background()
		Expect(check.Start(ctx)).To(Succeed())
		Expect(check.Success(ctx, "402 movies")).To(Succeed())
		Expect(check.Fail(ctx, errors.New("year not supported"))).To(Succeed())

		Expect(paths).To(Equal([]string{"/abc-123/start", "/abc-123", "/abc-123/fail"}))
		Expect(bodies[1]).To(Equal("402 movies"))
		Expect(bodies[2]).To(Equal("year not supported"))
	})

	It("does nothing without a check id", func() {
		check := healthcheck.New("")
		check.BaseURL = server.URL
		Expect(check.Success(context.Background(), "")).To(Succeed())
		Expect(paths).To(BeEmpty())
	})

	It("reports unexpected status codes", func() {
		response = http.StatusNotFound
		check := healthcheck.New("abc-123")
		check.BaseURL = server.URL
		Expect(check.Start(context.Background())).To(MatchError(healthcheck.ErrStatus))
	})
})
