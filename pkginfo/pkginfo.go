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
package pkginfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"

	"github.com/rs/zerolog/log"
)

// set at link time with -ldflags "-X github.com/penny-vault/boxoffice/pkginfo.Version=..."
var (
	BuildDate  string
	CommitHash string
	Version    = "dev"
)

// Build describes the running binary
type Build struct {
	Version    string `json:"version"`
	BuildDate  string `json:"build_date"`
	CommitHash string `json:"commit_hash"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Info() Build {
	info := Build{
		Version:    Version,
		BuildDate:  BuildDate,
		CommitHash: CommitHash,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	// fall back to the vcs stamp written by the go tool
	if info.CommitHash == "" {
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range buildInfo.Settings {
				switch setting.Key {
				case "vcs.revision":
					info.CommitHash = setting.Value
				case "vcs.time":
					if info.BuildDate == "" {
						info.BuildDate = setting.Value
					}
				}
			}
		}
	}

	return info
}

// BuildVersionString returns a version info string suitable for printing on the command line
func BuildVersionString() string {
	info := Info()

	return fmt.Sprintf(`boxoffice %s %s

Build Date: %s
Commit: %s
Built with: %s`, info.Version, info.Platform, info.BuildDate, info.CommitHash, info.GoVersion)
}

// GetDependencyList returns an array of all dependencies linked in with this program
// each string is of the form `package="version"`
func GetDependencyList() []string {
	var deps []string

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		log.Error().Msg("could not get package build info")
		return deps
	}

	for _, dep := range buildInfo.Deps {
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, dep.Version))
	}

	sort.Strings(deps)

	return deps
}
