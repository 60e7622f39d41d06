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
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/penny-vault/jtmomentum/data/database"
	"github.com/rs/zerolog/log"
)

// LoadDatabase selects the mapped columns from table. Every column is cast to
// text so the observations carry the same raw strings a csv export would.
// table may be schema qualified (e.g. crsp.msf).
func LoadDatabase(ctx context.Context, table string, cols ColumnMap) ([]Observation, error) {
	if table == "" {
		return nil, ErrNoDatabaseTable
	}

	db, err := database.Pool()
	if err != nil {
		return nil, err
	}

	subLog := log.With().Str("Table", table).Logger()

	// NOTE: identifiers cannot be bound as query parameters so they are
	// sanitized with pgx.Identifier
	selected := []string{cols.Security, cols.Exchange, cols.Return, cols.Date}
	if cols.Period != "" {
		selected = append(selected, cols.Period)
	}
	exprs := make([]string, 0, len(selected))
	header := make([]string, 0, len(selected))
	for _, col := range selected {
		if col == "" {
			continue
		}
		ident := pgx.Identifier{col}
		exprs = append(exprs, fmt.Sprintf("%s::text", ident.Sanitize()))
		header = append(header, col)
	}

	l, err := resolve(header, cols)
	if err != nil {
		return nil, err
	}

	tableIdent := pgx.Identifier(strings.Split(table, "."))
	sql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), tableIdent.Sanitize())

	rows, err := db.Query(ctx, sql)
	if err != nil {
		subLog.Error().Err(err).Str("Query", sql).Msg("database query failed")
		return nil, err
	}
	defer rows.Close()

	observations := make([]Observation, 0, 1024)
	record := make([]string, len(header))
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			subLog.Error().Err(err).Msg("could not read row values")
			return nil, err
		}
		for idx := range record {
			record[idx] = ""
			if idx < len(vals) {
				record[idx] = textValue(vals[idx])
			}
		}
		observations = append(observations, l.observation(record))
	}

	if err := rows.Err(); err != nil {
		subLog.Error().Err(err).Msg("error iterating rows")
		return nil, err
	}

	subLog.Debug().Int("NumRows", len(observations)).Msg("read database observations")

	return observations, nil
}

// textValue renders a column value the way postgres would cast it to text
func textValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
