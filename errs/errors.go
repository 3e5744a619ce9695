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

// Package errs defines the chunk-fatal and row-recoverable error kinds
// shared across the candidate-enumeration and tensor-materialization
// packages.
package errs

import "github.com/pkg/errors"

// MalformedPileup is returned when a single pileup row cannot be decoded:
// a length mismatch between bases/qualities/names, or an unterminated
// indel numeric run. The owning row is skipped and counted; the chunk
// continues.
var MalformedPileup = errors.New("malformed pileup row")

// ReferenceUnavailable is returned when the reference fetch for a chunk
// returned no sequence, or the expected base at a requested position is 'N'.
// Chunk-fatal.
var ReferenceUnavailable = errors.New("reference sequence unavailable")

// UpstreamClosed is returned when a pileup line source ends before EOF is
// expected (the producing process died). Chunk-fatal: the sibling stream
// must also be closed.
var UpstreamClosed = errors.New("upstream pileup stream closed unexpectedly")

// OutputPipeBroken is returned when the downstream tensor-record consumer
// has closed its end of the pipe. The chunk aborts cleanly; a partially
// written final record is an acceptable suffix truncation.
var OutputPipeBroken = errors.New("output pipe broken")

// BudgetExhausted is returned when a configuration value makes the
// retention window or tensor depth unbounded (max depth <= 0, or a
// nonsensical flanking width). Always a programming/configuration error.
var BudgetExhausted = errors.New("resource budget exhausted")
