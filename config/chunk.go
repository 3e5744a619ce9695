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

package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ChunkRange is a contiguous reference interval processed independently;
// chunks tile a contig so a whole-genome run can fan out across processes.
type ChunkRange struct {
	Contig     string
	Start, End int // 1-based, End exclusive, as in the CLI's --ctg_start/--ctg_end
}

// ChunkRangeFromFai splits contigName's full length (read from a .fai-style
// "name\tlength\t..." index) into chunkNum equal pieces and returns the
// chunkID'th (0-based) piece, mirroring the whole-genome chunk derivation
// in the upstream tool's driver.
func ChunkRangeFromFai(fai io.Reader, contigName string, chunkID, chunkNum int) (ChunkRange, error) {
	if chunkNum <= 0 {
		return ChunkRange{}, errors.New("config: chunk_num must be positive")
	}
	scanner := bufio.NewScanner(fai)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != contigName {
			continue
		}
		length, err := strconv.Atoi(fields[1])
		if err != nil {
			return ChunkRange{}, errors.Wrapf(err, "config: bad length in fai line %q", scanner.Text())
		}
		chunkSize := (length + chunkNum - 1) / chunkNum
		start := chunkID*chunkSize + 1
		end := start + chunkSize
		if end > length+1 {
			end = length + 1
		}
		return ChunkRange{Contig: contigName, Start: start, End: end}, nil
	}
	if err := scanner.Err(); err != nil {
		return ChunkRange{}, errors.Wrap(err, "config: couldn't read fai")
	}
	return ChunkRange{}, errors.Errorf("config: contig %q not found in fai", contigName)
}
