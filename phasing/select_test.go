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

package phasing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biopileup/svcandidate/vcfio"
)

func het(pos int, ref, alt string, qual float64) *vcfio.Record {
	return &vcfio.Record{Contig: "chr1", Pos: pos, Ref: ref, Alt: alt, Qual: qual, GT0: 0, GT1: 1}
}

func TestSelectEndToEndScenario(t *testing.T) {
	normal := []*vcfio.Record{het(100, "A", "G", 30), het(200, "A", "C", 5)}
	tumor := []*vcfio.Record{het(100, "A", "G", 25), het(200, "A", "T", 20)}

	out, diag := Select(normal, tumor, Options{VarPctFull: 0.0, MinQual: 10})
	assert.Len(t, out, 1)
	assert.Equal(t, 100, out[0].Pos)
	assert.Equal(t, 1, diag.NotMatchInTumor)
}

func TestSelectDropsLowQualTail(t *testing.T) {
	normal := []*vcfio.Record{het(100, "A", "G", 10), het(200, "A", "C", 50)}
	tumor := []*vcfio.Record{het(100, "A", "G", 10), het(200, "A", "C", 50)}

	out, _ := Select(normal, tumor, Options{VarPctFull: 0.5, MinQual: 0})
	assert.Len(t, out, 1)
	assert.Equal(t, 200, out[0].Pos)
}

func TestSelectSkipsIndelsAndHomozygous(t *testing.T) {
	normal := []*vcfio.Record{
		{Contig: "chr1", Pos: 100, Ref: "A", Alt: "AT", Qual: 30, GT0: 0, GT1: 1},
		{Contig: "chr1", Pos: 200, Ref: "A", Alt: "G", Qual: 30, GT0: 1, GT1: 1},
	}
	tumor := []*vcfio.Record{
		{Contig: "chr1", Pos: 100, Ref: "A", Alt: "AT", Qual: 30, GT0: 0, GT1: 1},
		{Contig: "chr1", Pos: 200, Ref: "A", Alt: "G", Qual: 30, GT0: 1, GT1: 1},
	}
	out, _ := Select(normal, tumor, Options{VarPctFull: 0, MinQual: 0})
	assert.Empty(t, out)
}
