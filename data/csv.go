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
	"encoding/csv"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
)

// ReadCSV parses delimited text with a header row into observations. Rows
// with the wrong number of fields are kept; absent fields read as missing.
func ReadCSV(r io.Reader, cols ColumnMap) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Missing: []string{cols.Security, cols.Exchange, cols.Return}}
	}
	if err != nil {
		return nil, err
	}

	// header is reused by the reader, copy it before resolving
	l, err := resolve(append([]string(nil), header...), cols)
	if err != nil {
		log.Error().Strs("Header", header).Err(err).Msg("input does not match column map")
		return nil, err
	}

	observations := make([]Observation, 0, 1024)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		observations = append(observations, l.observation(record))
	}

	log.Debug().Int("NumRows", len(observations)).Msg("read csv observations")

	return observations, nil
}
