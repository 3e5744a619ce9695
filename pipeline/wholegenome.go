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
	"runtime"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Job pairs one chunk's Config with the index used to label its log lines.
// Each Config must own an independent Writer (and independent
// NormalSource/TumorSource); chunks share no mutable state, matching
// spec.md §5's single-threaded-per-chunk model.
type Job struct {
	Config Config
	Label  string
}

// RunAll drives every job's chunk concurrently, bounded by parallelism (0
// or less means runtime.NumCPU()). It mirrors the teacher's
// traverse-over-independent-shards fan-out (pileup/snp/pileup.go).
// Returns one Stats per job, aligned by index (a failed job's entry stays
// zero), and the traversal's error, which is non-nil if any job failed.
func RunAll(jobs []Job, parallelism int) ([]Stats, error) {
	results := make([]Stats, len(jobs))
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	err := traverse.Limit(parallelism).Each(len(jobs), func(i int) error {
		job := jobs[i]
		stats, err := Run(job.Config)
		if err != nil {
			log.Printf("pipeline: chunk %q failed: %v", job.Label, err)
			return err
		}
		results[i] = stats
		return nil
	})
	return results, err
}
