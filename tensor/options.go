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

package tensor

// Options configures optional, training-mode-only read-ordering behavior
// (--tensor_sample_mode, SPEC_FULL.md §13).
type Options struct {
	// SampleMode, when true, disables OrderReads' deterministic subsample
	// and instead relies on PriorityReads to keep truth-matched reads
	// ahead of the max-depth cutoff Build applies afterward.
	SampleMode bool
	// PriorityReads names reads (typically the output of MatchTruthReads)
	// that must sort ahead of every other read so they survive Build's
	// fixed-depth truncation even when more reads exist than maxDepth.
	PriorityReads map[string]bool
}
