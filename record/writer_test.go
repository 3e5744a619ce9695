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

package record

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biopileup/svcandidate/tensor"
)

func TestWriteFormatsTabSeparatedFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	normal := &tensor.Tensor{Depth: 1, Width: 1, Channels: 2, Rows: [][][]int{{{1, 2}}}}
	tumor := &tensor.Tensor{Depth: 1, Width: 1, Channels: 2, Rows: [][][]int{{{3, 4}}}}

	err := w.Write(Record{
		Contig:        "chr1",
		Pos:           100,
		RefWindow:     "ACGT",
		NormalTensor:  normal,
		NormalAltInfo: tensor.AltInfo{Depth: 5, Counts: map[string]int{}},
		TumorTensor:   tumor,
		TumorAltInfo:  tensor.AltInfo{Depth: 6, Counts: map[string]int{}},
		VariantType:   "homo_somatic",
	})
	assert.NoError(t, err)
	assert.NoError(t, w.Flush())

	line := strings.TrimRight(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	assert.Len(t, fields, 8)
	assert.Equal(t, "chr1", fields[0])
	assert.Equal(t, "100", fields[1])
	assert.Equal(t, "1 2", fields[3])
	assert.Equal(t, "3 4", fields[5])
	assert.Equal(t, "homo_somatic", fields[7])
}
