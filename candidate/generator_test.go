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

package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biopileup/svcandidate/bedtree"
	"github.com/biopileup/svcandidate/config"
	"github.com/biopileup/svcandidate/pileup"
)

func rowLine(pos int, ref byte, bases string, n int) string {
	bq := make([]byte, n)
	mq := make([]byte, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		bq[i] = 'F'
		mq[i] = '<'
		names[i] = "r" + string(rune('0'+i))
	}
	joined := ""
	for i, name := range names {
		if i > 0 {
			joined += ","
		}
		joined += name
	}
	return "chr1\t" + itoa(pos) + "\t" + string(ref) + "\t" + itoa(n) + "\t" + bases + "\t" + string(bq) + "\t" + string(mq) + "\t" + joined
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

func TestGeneratorEmitsAfterWindowComplete(t *testing.T) {
	profile := config.DefaultProfile(config.ONT)
	profile.F = 2
	profile.ExtendBP = 1
	profile.MinCoverage = 1
	profile.SNVMinAF = 0.1

	var lines []string
	// center candidate at pos 10 with a mismatch; need coverage through
	// pos 10 + F + ExtendBP = 13 before it can emit.
	for p := 8; p <= 14; p++ {
		bases := "AAA"
		if p == 10 {
			bases = "AAT"
		}
		lines = append(lines, rowLine(p, 'A', bases, 3))
	}
	src := pileup.NewSliceSource(lines)
	gen := New(src, profile, "chr1", 0, 0, true, nil, nil, nil)

	pos, _, ok, err := gen.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, pos)

	_, _, ok, err = gen.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGeneratorSkipsNonACGTReference(t *testing.T) {
	profile := config.DefaultProfile(config.ONT)
	lines := []string{rowLine(5, 'N', "AAA", 3)}
	src := pileup.NewSliceSource(lines)
	gen := New(src, profile, "chr1", 0, 0, true, nil, nil, nil)
	_, _, ok, err := gen.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGeneratorCandidatesBedOverridesAFGate(t *testing.T) {
	profile := config.DefaultProfile(config.ONT)
	profile.F = 2
	profile.ExtendBP = 1
	profile.MinCoverage = 1000 // unreachable: every row must fail the AF gate on its own
	profile.SNVMinAF = 0.9     // unreachable: 1/3 alt fraction never passes this

	var lines []string
	// center candidate at pos 10 carries only 1 of 3 alt reads (AF well
	// below SNVMinAF) and coverage well below MinCoverage; absent a
	// candidates-bed entry this position would never be accepted.
	for p := 8; p <= 14; p++ {
		bases := "AAA"
		if p == 10 {
			bases = "AAT"
		}
		lines = append(lines, rowLine(p, 'A', bases, 3))
	}
	src := pileup.NewSliceSource(lines)

	candidatesBed := bedtree.New()
	candidatesBed.Insert("chr1", 9, 10, "homo_somatic")

	gen := New(src, profile, "chr1", 0, 0, true, nil, candidatesBed, nil)

	pos, variantType, ok, err := gen.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, pos)
	assert.Equal(t, "homo_somatic", variantType)

	_, _, ok, err = gen.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGeneratorCandidatesBedSkipsPositionsOutsideBed(t *testing.T) {
	profile := config.DefaultProfile(config.ONT)
	profile.F = 2
	profile.ExtendBP = 1
	profile.MinCoverage = 1000
	profile.SNVMinAF = 0.9

	var lines []string
	for p := 8; p <= 14; p++ {
		bases := "AAA"
		if p == 10 {
			bases = "AAT"
		}
		lines = append(lines, rowLine(p, 'A', bases, 3))
	}
	src := pileup.NewSliceSource(lines)

	candidatesBed := bedtree.New() // no interval covers pos 10
	gen := New(src, profile, "chr1", 0, 0, true, nil, candidatesBed, nil)

	_, _, ok, err := gen.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGeneratorCountsMalformedRows(t *testing.T) {
	profile := config.DefaultProfile(config.ONT)
	lines := []string{"chr1\t5\tA\t3\tAAA\tFFF\t<<<\tr0,r1"} // names count mismatch
	src := pileup.NewSliceSource(lines)
	gen := New(src, profile, "chr1", 0, 0, true, nil, nil, nil)
	_, _, ok, err := gen.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, gen.MalformedCount())
}
