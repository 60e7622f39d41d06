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

package dataframe

import (
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// New creates an empty dataframe with the given index and no columns
func New[T comparable](index []T) *DataFrame[T] {
	return &DataFrame[T]{
		Index:    index,
		ColNames: []string{},
		Vals:     [][]float64{},
	}
}

// ColIndex returns the index of the specified column or -1 if the column doesn't exist
func (df *DataFrame[T]) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame[T]) ColCount() int {
	return len(df.ColNames)
}

// Column returns the values of the named column
func (df *DataFrame[T]) Column(colName string) ([]float64, error) {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, colName)
	}
	return df.Vals[colIdx], nil
}

// Copy creates a copy of the dataframe
func (df *DataFrame[T]) Copy() *DataFrame[T] {
	df2 := &DataFrame[T]{
		ColNames: make([]string, len(df.ColNames)),
		Index:    make([]T, len(df.Index)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Index, df.Index)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Drop returns a new dataframe without the rows that contain the value `val` in any column.
// NaN matches NaN.
func (df *DataFrame[T]) Drop(val float64) *DataFrame[T] {
	isNA := math.IsNaN(val)
	return df.Filter(func(_ T, row map[string]float64) bool {
		for _, rowVal := range row {
			if rowVal == val || (isNA && math.IsNaN(rowVal)) {
				return false
			}
		}
		return true
	})
}

// Filter returns a new dataframe with the rows for which keep returns true
func (df *DataFrame[T]) Filter(keep func(idx T, row map[string]float64) bool) *DataFrame[T] {
	newVals := make([][]float64, len(df.Vals))
	newIndex := make([]T, 0, len(df.Index))
	row := make(map[string]float64, len(df.ColNames))

	for idx, rowIdx := range df.Index {
		for colIdx, colName := range df.ColNames {
			row[colName] = df.Vals[colIdx][idx]
		}

		if keep(rowIdx, row) {
			newIndex = append(newIndex, rowIdx)
			for colIdx, col := range df.Vals {
				newVals[colIdx] = append(newVals[colIdx], col[idx])
			}
		}
	}

	colNames := make([]string, len(df.ColNames))
	copy(colNames, df.ColNames)

	return &DataFrame[T]{
		Index:    newIndex,
		ColNames: colNames,
		Vals:     newVals,
	}
}

// Insert a new column to the end of the dataframe
func (df *DataFrame[T]) Insert(name string, col []float64) error {
	if len(col) != len(df.Index) {
		return fmt.Errorf("%w: %s has %d values, index has %d", ErrColumnLength, name, len(col), len(df.Index))
	}
	if df.ColIndex(name) != -1 {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
	}
	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, col)
	return nil
}

// Len returns the number of rows in the dataframe
func (df *DataFrame[T]) Len() int {
	return len(df.Index)
}

// Table renders the dataframe as an ASCII table
func (df *DataFrame[T]) Table() string {
	if len(df.Index) == 0 {
		return "<NO DATA>" // nothing to do as there is no data available in the dataframe
	}

	// construct table header
	tableCols := append([]string{"Index"}, df.ColNames...)

	// initialize table
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	if len(footer) > 1 {
		footer[1] = fmt.Sprintf("%d", df.Len())
	}
	table.SetFooter(footer)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)

	for idx, rowIdx := range df.Index {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, fmt.Sprint(rowIdx))

		for _, col := range df.Vals {
			if math.IsNaN(col[idx]) {
				row = append(row, "")
			} else {
				row = append(row, fmt.Sprintf("%.4f", col[idx]))
			}
		}

		table.Append(row)
	}

	table.Render()
	return s.String()
}
