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
	"strconv"
	"strings"

	"github.com/biopileup/svcandidate/errs"
)

// Row is one decoded pileup text line: contig, 1-based pos, reference base,
// and per-read parallel arrays of equal length.
type Row struct {
	Contig  string
	Pos     int
	RefBase byte // upper-case

	Calls []BaseCall
	BQ    []byte
	MQ    []byte
	Names []string
	HP    []int // nil if the HP column is absent; otherwise one per read
}

// ParseRow decodes one tab-separated pileup line:
//
//	<contig> <pos> <refN> <depth> <bases_str> <bq_str> <mq_str> <names_csv> [<hp_csv>]
//
// '.' and ',' reference-match calls are replaced with the reference base,
// upper-case for '.' (forward) and lower-case for ',' (reverse).
func ParseRow(line []byte) (*Row, error) {
	fields := strings.Split(string(line), "\t")
	if len(fields) < 8 {
		return nil, errs.MalformedPileup
	}
	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, errs.MalformedPileup
	}
	refField := fields[2]
	if len(refField) != 1 {
		return nil, errs.MalformedPileup
	}
	refBase := refField[0]
	if refBase >= 'a' && refBase <= 'z' {
		refBase -= 'a' - 'A'
	}

	calls, err := DecodeBases(fields[4])
	if err != nil {
		return nil, err
	}
	for i := range calls {
		switch calls[i].Base {
		case '.':
			calls[i].Base = refBase
		case ',':
			calls[i].Base = refBase
			if refBase >= 'A' && refBase <= 'Z' {
				calls[i].Base += 'a' - 'A'
			}
		}
	}
	bqStr, mqStr := fields[5], fields[6]
	names := splitNonEmpty(fields[7], ',')

	if len(calls) != len(bqStr) || len(calls) != len(mqStr) || len(calls) != len(names) {
		return nil, errs.MalformedPileup
	}

	row := &Row{
		Contig:  fields[0],
		Pos:     pos,
		RefBase: refBase,
		Calls:   calls,
		BQ:      []byte(bqStr),
		MQ:      []byte(mqStr),
		Names:   names,
	}

	if len(fields) >= 9 && fields[8] != "" {
		hpStrs := splitNonEmpty(fields[8], ',')
		if len(hpStrs) != len(calls) {
			return nil, errs.MalformedPileup
		}
		hp := make([]int, len(hpStrs))
		for i, s := range hpStrs {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.MalformedPileup
			}
			hp[i] = v
		}
		row.HP = hp
	}

	return row, nil
}

func splitNonEmpty(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, string(sep))
}

// ToPosition folds a decoded row into a Position accumulator and runs the
// AF gate with the given thresholds.
func (r *Row) ToPosition(minSNVAF, minIndelAF float64) *Position {
	p := NewPosition(r.Pos, r.RefBase)
	for i := range r.Calls {
		p.Add(r.Names[i], r.Calls[i], r.BQ[i], r.MQ[i])
	}
	p.EvaluateAFGate(minSNVAF, minIndelAF)
	return p
}
