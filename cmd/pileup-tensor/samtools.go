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

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/biopileup/svcandidate/config"
)

// mpileupStream launches `samtools mpileup` restricted to one region and
// adapts its stdout into a pileup.LineSource-compatible io.Reader. The
// pileup byte format itself is an external collaborator (spec.md §6); this
// is only the CLI-level wiring that produces it.
type mpileupStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

func startMpileup(bamPath, refPath, contig string, start, end int, profile config.Profile, phaseHP bool) (*mpileupStream, error) {
	region := fmt.Sprintf("%s:%d-%d", contig, start, end)
	args := []string{
		"mpileup",
		"-f", refPath,
		"-r", region,
		"-q", itoa(profile.MinMQ),
		"-Q", itoa(profile.MinBQ),
		"--ff", itoa(profile.SamtoolsViewFilterFlag),
		"--output-MAPQ",
		"--output-QNAME",
	}
	if phaseHP {
		args = append(args, "--output-extra", "HP")
	}
	args = append(args, "-a", bamPath)
	cmd := exec.Command("samtools", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "pileup-tensor: couldn't open samtools stdout pipe")
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "pileup-tensor: couldn't start samtools mpileup on %s", bamPath)
	}
	return &mpileupStream{cmd: cmd, stdout: stdout}, nil
}

func (m *mpileupStream) Read(p []byte) (int, error) { return m.stdout.Read(p) }

func (m *mpileupStream) Close() error {
	m.stdout.Close()
	return m.cmd.Wait()
}

func itoa(n int) string { return fmt.Sprintf("%d", n) }
