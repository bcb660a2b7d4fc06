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
package export

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"

	"github.com/kothar/go-backblaze"
	"github.com/rs/zerolog"
)

var (
	ErrMissingCredentials = errors.New("backblaze credentials not configured")
	ErrBucketNotFound     = errors.New("bucket not found")
)

// Backblaze uploads run artifacts to a B2 bucket
type Backblaze struct {
	ApplicationID  string `mapstructure:"application_id" toml:"application_id"`
	ApplicationKey string `mapstructure:"application_key" toml:"application_key"`
	Bucket         string `mapstructure:"bucket" toml:"bucket"`
}

// Enabled reports whether a bucket has been configured
func (bb Backblaze) Enabled() bool {
	return bb.Bucket != ""
}

// Upload copies every file to <dirname>/<basename> in the bucket
func (bb Backblaze) Upload(ctx context.Context, dirname string, files ...string) error {
	logger := zerolog.Ctx(ctx)

	if bb.ApplicationID == "" || bb.ApplicationKey == "" {
		return ErrMissingCredentials
	}

	b2, err := backblaze.NewB2(backblaze.Credentials{
		KeyID:          bb.ApplicationID,
		ApplicationKey: bb.ApplicationKey,
	})
	if err != nil {
		logger.Error().Err(err).Str("BucketName", bb.Bucket).Msg("authorize backblaze failed")
		return err
	}

	bucket, err := b2.Bucket(bb.Bucket)
	if err != nil {
		logger.Error().Err(err).Str("BucketName", bb.Bucket).Msg("lookup bucket failed")
		return err
	}
	if bucket == nil {
		logger.Error().Str("BucketName", bb.Bucket).Msg("bucket does not exist")
		return ErrBucketNotFound
	}

	for _, fn := range files {
		if err := uploadFile(ctx, bucket, fn, dirname); err != nil {
			return err
		}
	}

	return nil
}

func uploadFile(ctx context.Context, bucket *backblaze.Bucket, fn, dirname string) error {
	logger := zerolog.Ctx(ctx)

	reader, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer reader.Close()

	outName := path.Join(dirname, filepath.Base(fn))
	metadata := make(map[string]string)

	file, err := bucket.UploadFile(outName, metadata, reader)
	if err != nil {
		logger.Error().Err(err).Str("FileName", outName).Str("BucketName", bucket.Name).Msg("save file to backblaze failed")
		return err
	}

	logger.Info().Str("FileName", file.Name).Int64("Size", file.ContentLength).Str("ID", file.ID).Msg("uploaded file to backblaze")
	return nil
}
