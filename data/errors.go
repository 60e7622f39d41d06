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
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchema            = errors.New("schema error")
	ErrUnexpectedStatus  = errors.New("unexpected http status")
	ErrNoDatabaseTable   = errors.New("database source requires a table name")
	ErrUnsupportedSource = errors.New("unsupported source")
)

// SchemaError reports required columns that are missing from the input or a
// required field whose value could not be parsed
type SchemaError struct {
	Missing []string
	Column  string
	Value   string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("schema error: missing required columns [%s]", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("schema error: column %q value %q: %s", e.Column, e.Value, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
