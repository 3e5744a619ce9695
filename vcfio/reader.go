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

package vcfio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Reader scans VCF text, splitting header lines from data records.
type Reader struct {
	scanner *bufio.Scanner
	Header  []string
}

// NewReader wraps r. It does not itself decompress; callers with .vcf.gz
// input should wrap r in a gzip.Reader first.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{scanner: scanner}
}

// Next returns the next data Record, or (nil, io.EOF) once exhausted.
// Header lines (leading '#') are accumulated into Reader.Header rather than
// returned.
func (r *Reader) Next() (*Record, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			continue
		}
		if line[0] == '#' {
			r.Header = append(r.Header, line)
			continue
		}
		return parseRecord(line)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "vcfio: scan failed")
	}
	return nil, io.EOF
}

func parseRecord(line string) (*Record, error) {
	columns := strings.Fields(line)
	if len(columns) < 8 {
		return nil, errors.Errorf("vcfio: line has only %d columns, want at least 8: %q", len(columns), line)
	}
	pos, err := strconv.Atoi(columns[1])
	if err != nil {
		return nil, errors.Wrapf(err, "vcfio: bad POS in line %q", line)
	}
	qual := 0.0
	if columns[5] != "." {
		qual, err = strconv.ParseFloat(columns[5], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "vcfio: bad QUAL in line %q", line)
		}
	}
	rec := &Record{
		Contig: columns[0],
		Pos:    pos,
		Ref:    columns[3],
		Alt:    columns[4],
		Qual:   qual,
		GT0:    -1,
		GT1:    -1,
		Line:   line,
	}
	if len(columns) >= 10 {
		rec.GT0, rec.GT1 = parseGenotype(columns[9])
	}
	return rec, nil
}

// ReadAll drains the reader into a slice, for the batch-oriented use in the
// het-SNP selection pipeline where every record is held in memory anyway
// (mirroring the original implementation's dict-of-everything approach).
func ReadAll(r io.Reader) ([]*Record, []string, error) {
	reader := NewReader(r)
	var records []*Record
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
	}
	return records, reader.Header, nil
}
