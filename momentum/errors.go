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

package momentum

import (
	"errors"
	"strings"
)

var (
	ErrDataEmpty          = errors.New("no observations survived cleaning")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrNoExchanges        = errors.New("at least one exchange code is required")
	ErrUndefinedAggregate = errors.New("aggregate is undefined")
)

// UndefinedAggregateError is a soft error: the study ran to completion but at
// least one mean had no forward returns to average
type UndefinedAggregateError struct {
	Aggregates []string
}

func (e *UndefinedAggregateError) Error() string {
	return "undefined aggregate (no forward returns): " + strings.Join(e.Aggregates, ", ")
}

func (e *UndefinedAggregateError) Is(target error) bool {
	return target == ErrUndefinedAggregate
}
