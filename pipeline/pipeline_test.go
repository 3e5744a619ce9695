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

package pipeline

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biopileup/svcandidate/config"
	"github.com/biopileup/svcandidate/pileup"
	"github.com/biopileup/svcandidate/record"
)

func rowLine(pos int, ref byte, bases string, n int) string {
	bq := strings.Repeat("F", n)
	mq := strings.Repeat("<", n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = "r" + strconv.Itoa(i)
	}
	return "chr1\t" + strconv.Itoa(pos) + "\t" + string(ref) + "\t" + strconv.Itoa(n) + "\t" + bases + "\t" + bq + "\t" + mq + "\t" + strings.Join(names, ",")
}

func buildLines(mismatchPos int, lastPos int) []string {
	var lines []string
	for p := 1; p <= lastPos; p++ {
		bases := "AAA"
		if p == mismatchPos {
			bases = "AAT"
		}
		lines = append(lines, rowLine(p, 'A', bases, 3))
	}
	return lines
}

func TestRunEmitsPairedCandidate(t *testing.T) {
	profile := config.DefaultProfile(config.ONT)
	profile.F = 2
	profile.ExtendBP = 1
	profile.MinCoverage = 1
	profile.SNVMinAF = 0.1

	normalLines := buildLines(10, 14)
	tumorLines := buildLines(10, 14)

	var buf bytes.Buffer
	w := record.NewWriter(&buf)

	cfg := Config{
		Profile:           profile,
		Contig:            "chr1",
		NormalSource:      pileup.NewSliceSource(normalLines),
		TumorSource:       pileup.NewSliceSource(tumorLines),
		SkipIfNormalEmpty: true,
		Writer:            w,
	}

	stats, err := Run(cfg)
	assert.NoError(t, err)
	assert.NoError(t, w.Flush())
	assert.Equal(t, 1, stats.Emitted)

	line := strings.TrimRight(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	assert.Len(t, fields, 8)
	assert.Equal(t, "chr1", fields[0])
	assert.Equal(t, "10", fields[1])
}

func TestRunYieldsNothingWhenTumorOnly(t *testing.T) {
	profile := config.DefaultProfile(config.ONT)
	profile.F = 2
	profile.ExtendBP = 1
	profile.MinCoverage = 1
	profile.SNVMinAF = 0.1

	// Normal stream never mismatches, so no normal candidate is ever
	// recorded as seen; SkipIfNormalEmpty requires pairing.
	normalLines := buildLines(-1, 14)
	tumorLines := buildLines(10, 14)

	var buf bytes.Buffer
	w := record.NewWriter(&buf)

	cfg := Config{
		Profile:           profile,
		Contig:            "chr1",
		NormalSource:      pileup.NewSliceSource(normalLines),
		TumorSource:       pileup.NewSliceSource(tumorLines),
		SkipIfNormalEmpty: true,
		Writer:            w,
	}

	stats, err := Run(cfg)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Emitted)
}
