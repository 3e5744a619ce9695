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

// Package record serializes tensor records to the outbound wire format: one
// line per (position, normal, tumor) tuple, optionally zstd-compressed.
package record

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/biopileup/svcandidate/errs"
	"github.com/biopileup/svcandidate/tensor"
)

// Writer serializes Records to an underlying io.Writer, one line each.
type Writer struct {
	w       *bufio.Writer
	zstdEnc *zstd.Encoder
}

// NewWriter wraps w with buffered line output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 1<<20)}
}

// NewZstdWriter wraps w in a zstd encoder, matching the teacher's
// recordio-over-zstd output path for the tensor-record stream.
func NewZstdWriter(w io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, errors.Wrap(err, "record: couldn't create zstd encoder")
	}
	return &Writer{w: bufio.NewWriterSize(enc, 1<<20), zstdEnc: enc}, nil
}

// Record is one emitted (position, normal, tumor) tuple.
type Record struct {
	Contig        string
	Pos           int
	RefWindow     string
	NormalTensor  *tensor.Tensor
	NormalAltInfo tensor.AltInfo
	TumorTensor   *tensor.Tensor
	TumorAltInfo  tensor.AltInfo
	VariantType   string
}

// Write appends one serialized record line. A closed downstream pipe
// surfaces as errs.OutputPipeBroken.
func (w *Writer) Write(r Record) error {
	var b strings.Builder
	b.WriteString(r.Contig)
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(r.Pos))
	b.WriteByte('\t')
	b.WriteString(r.RefWindow)
	b.WriteByte('\t')
	writeTensor(&b, r.NormalTensor)
	b.WriteByte('\t')
	b.WriteString(r.NormalAltInfo.String())
	b.WriteByte('\t')
	writeTensor(&b, r.TumorTensor)
	b.WriteByte('\t')
	b.WriteString(r.TumorAltInfo.String())
	b.WriteByte('\t')
	b.WriteString(r.VariantType)
	b.WriteByte('\n')

	if _, err := w.w.WriteString(b.String()); err != nil {
		return errors.Wrap(errs.OutputPipeBroken, err.Error())
	}
	return nil
}

func writeTensor(b *strings.Builder, t *tensor.Tensor) {
	if t == nil {
		return
	}
	first := true
	for d := 0; d < t.Depth; d++ {
		for w := 0; w < t.Width; w++ {
			for c := 0; c < t.Channels; c++ {
				if !first {
					b.WriteByte(' ')
				}
				first = false
				b.WriteString(strconv.Itoa(t.Rows[d][w][c]))
			}
		}
	}
}

// Flush flushes any buffered output and, if this Writer owns a zstd
// encoder, closes it so the final frame is complete.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return errors.Wrap(errs.OutputPipeBroken, err.Error())
	}
	if w.zstdEnc != nil {
		return w.zstdEnc.Close()
	}
	return nil
}
