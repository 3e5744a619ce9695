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

func TestDecodeBasesSimple(t *testing.T) {
	calls, err := DecodeBases(".,AaT")
	assert.NoError(t, err)
	assert.Len(t, calls, 5)
	assert.Equal(t, byte('.'), calls[0].Base)
	assert.Equal(t, byte(','), calls[1].Base)
	assert.Equal(t, byte('A'), calls[2].Base)
	assert.Equal(t, byte('a'), calls[3].Base)
	assert.Equal(t, byte('T'), calls[4].Base)
}

func TestDecodeBasesIndel(t *testing.T) {
	calls, err := DecodeBases("A+2ACT")
	assert.NoError(t, err)
	assert.Len(t, calls, 2)
	assert.Equal(t, "+2AC", calls[0].Indel)
	assert.Equal(t, byte('T'), calls[1].Base)
}

func TestDecodeBasesReadStartEnd(t *testing.T) {
	calls, err := DecodeBases("^]A$T")
	assert.NoError(t, err)
	assert.Len(t, calls, 2)
	assert.Equal(t, byte('A'), calls[0].Base)
	assert.Equal(t, byte('T'), calls[1].Base)
}

func TestDecodeBasesMalformed(t *testing.T) {
	_, err := DecodeBases("+")
	assert.Error(t, err)
	_, err = DecodeBases("+2A")
	assert.Error(t, err)
}

func TestEvaluateAFGatePassesOnSNV(t *testing.T) {
	calls, err := DecodeBases("AAAAAAAAAATTTTT")
	assert.NoError(t, err)
	r := EvaluateAFGate(calls, 'A', 0.2, 0.1)
	assert.Equal(t, 15, r.Depth)
	assert.True(t, r.PassAF)
	assert.InDelta(t, 5.0/15.0, r.AF, 1e-9)
}

func TestEvaluateAFGateBelowThreshold(t *testing.T) {
	calls, err := DecodeBases("AAAAAAAAAAT")
	assert.NoError(t, err)
	r := EvaluateAFGate(calls, 'A', 0.5, 0.5)
	assert.False(t, r.PassAF)
}
