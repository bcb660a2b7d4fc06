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
package export_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/penny-vault/boxoffice/data"
	"github.com/penny-vault/boxoffice/export"
)

var _ = Describe("Parquet", func() {
	It("writes one row per movie", func() {
		movies := []*data.Movie{
			{Title: "Avatar", Year: 2009, Month: 12, Budget: 237000000, WorldwideGross: 2923706026, OscarWins: 3},
			{Title: "Titanic", Year: 1997, Month: 12, Budget: 200000000, WorldwideGross: 2264750694, OscarWins: 11},
		}
		fn := filepath.Join(GinkgoT().TempDir(), "movies.parquet")
		Expect(export.SaveParquet(movies, fn)).To(Succeed())

		fr, err := local.NewLocalFileReader(fn)
		Expect(err).NotTo(HaveOccurred())
		defer fr.Close()

		pr, err := reader.NewParquetReader(fr, new(export.MovieRecord), 1)
		Expect(err).NotTo(HaveOccurred())
		defer pr.ReadStop()

		Expect(pr.GetNumRows()).To(Equal(int64(2)))

		records := make([]export.MovieRecord, 2)
		Expect(pr.Read(&records)).To(Succeed())
		Expect(records[0].Title).To(Equal("Avatar"))
		Expect(records[0].Year).To(Equal(int32(2009)))
		Expect(records[1].OscarWins).To(Equal(int32(11)))
		Expect(records[1].Budget).To(Equal(200000000.0))
	})
})

var _ = Describe("Backblaze", func() {
	It("is disabled without a bucket", func() {
		Expect(export.Backblaze{}.Enabled()).To(BeFalse())
		Expect(export.Backblaze{Bucket: "boxoffice"}.Enabled()).To(BeTrue())
	})

	It("requires credentials before contacting the service", func() {
		bb := export.Backblaze{Bucket: "boxoffice"}
		Expect(bb.Upload(context.Background(), "2024", "merged.csv")).To(MatchError(export.ErrMissingCredentials))
	})
})
