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
package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the library in markdown
func (myLibrary *Library) Summary(ctx context.Context) (string, error) {
	runs, err := myLibrary.Runs(ctx)
	if err != nil {
		return "", err
	}

	totalMovies, err := myLibrary.TotalMovies(ctx)
	if err != nil {
		return "", err
	}

	return RenderSummary(myLibrary.Name, myLibrary.DBUrl, totalMovies, runs), nil
}

// RenderSummary formats library statistics as markdown
func RenderSummary(name, dbURL string, totalMovies int, runs []*Run) string {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if name == "" {
		name = "Movie library"
	}

	builder.WriteString(fmt.Sprintf("# %s\n", name))
	builder.WriteString("## Details\n\n")
	builder.WriteString(fmt.Sprintf("Database: %s\n\n", dbURL))
	builder.WriteString(p.Sprintf("  * Published Runs: %d\n", len(runs)))
	builder.WriteString(p.Sprintf("  * Total Movies: %d\n\n", totalMovies))

	if len(runs) == 0 {
		builder.WriteString("Last Published: Never\n\n")
		return builder.String()
	}

	last := runs[0].PublishedOn
	builder.WriteString(fmt.Sprintf("Last Published: %s (%s)\n\n", timeago.English.Format(last), last.Local().Format("01/02/2006")))

	builder.WriteString("## Runs\n\n")
	for _, run := range runs {
		builder.WriteString(p.Sprintf("  * %s %d movies, CPI %s (%d), took %s [%s]\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"), run.RowsOut, run.CPISource, run.TargetYear,
			durafmt.Parse(run.Duration.Round(time.Millisecond)).LimitFirstN(2).String(), run.ID.String()[:6]))
	}

	return builder.String()
}
