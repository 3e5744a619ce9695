// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pileup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRowWellFormed(t *testing.T) {
	line := []byte("chr1\t100\tA\t3\t.,T\tFFF\t<<<\tread1,read2,read3")
	row, err := ParseRow(line)
	assert.NoError(t, err)
	assert.Equal(t, "chr1", row.Contig)
	assert.Equal(t, 100, row.Pos)
	assert.Equal(t, byte('A'), row.RefBase)
	assert.Len(t, row.Calls, 3)
	assert.Equal(t, []string{"read1", "read2", "read3"}, row.Names)
	assert.Nil(t, row.HP)
}

func TestParseRowWithHP(t *testing.T) {
	line := []byte("chr1\t100\ta\t2\t.T\tFF\t<<\tread1,read2\t0,2")
	row, err := ParseRow(line)
	assert.NoError(t, err)
	assert.Equal(t, byte('A'), row.RefBase)
	assert.Equal(t, []int{0, 2}, row.HP)
}

func TestParseRowLengthMismatch(t *testing.T) {
	line := []byte("chr1\t100\tA\t3\t.,T\tFF\t<<<\tread1,read2,read3")
	_, err := ParseRow(line)
	assert.Error(t, err)
}

func TestParseRowTooFewFields(t *testing.T) {
	_, err := ParseRow([]byte("chr1\t100"))
	assert.Error(t, err)
}

func TestRowToPosition(t *testing.T) {
	line := []byte("chr1\t100\tA\t4\tAAAT\tFFFF\t<<<<\tr1,r2,r3,r4")
	row, err := ParseRow(line)
	assert.NoError(t, err)
	pos := row.ToPosition(0.2, 0.1)
	assert.Equal(t, 4, pos.Depth)
	assert.True(t, pos.PassAF)
}
