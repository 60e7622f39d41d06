// Copyright 2021-2023
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

package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/penny-vault/jtmomentum/common"
	"github.com/penny-vault/jtmomentum/data/database"
	"github.com/rs/zerolog/log"
)

// Load reads observations from source, which is one of:
//
//	postgres://... or postgresql://...  table named by table
//	http://... or https://...           csv document
//	anything else                       path to a csv file
//
// Paths and URLs ending in .lz4 are decompressed first.
func Load(ctx context.Context, source string, table string, cols ColumnMap) ([]Observation, error) {
	switch {
	case strings.HasPrefix(source, "postgres://"), strings.HasPrefix(source, "postgresql://"):
		if err := database.Connect(ctx, source); err != nil {
			return nil, err
		}
		defer database.Close()
		return LoadDatabase(ctx, table, cols)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return LoadURL(ctx, http.DefaultClient, source, cols)
	case strings.Contains(source, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	default:
		return LoadFile(ctx, source, cols)
	}
}

// LoadFile reads a csv, or lz4 compressed csv, file from disk
func LoadFile(ctx context.Context, fn string, cols ColumnMap) ([]Observation, error) {
	subLog := log.With().Str("FileName", fn).Logger()

	fh, err := os.Open(fn)
	if err != nil {
		subLog.Error().Err(err).Msg("could not open input file")
		return nil, err
	}
	defer fh.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return readMaybeCompressed(fh, fn, cols)
}

// LoadURL downloads a csv, or lz4 compressed csv, document
func LoadURL(ctx context.Context, client *http.Client, url string, cols ColumnMap) ([]Observation, error) {
	subLog := log.With().Str("Url", url).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("http request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		subLog.Error().Int("StatusCode", resp.StatusCode).Msg("received invalid status code")
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	path := url
	if idx := strings.IndexAny(path, "?#"); idx != -1 {
		path = path[:idx]
	}

	return readMaybeCompressed(resp.Body, path, cols)
}

func readMaybeCompressed(r io.Reader, name string, cols ColumnMap) ([]Observation, error) {
	if strings.HasSuffix(strings.ToLower(name), ".lz4") {
		r = common.NewDecompressReader(r)
	}
	return ReadCSV(r, cols)
}
