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

// Package config holds the per-platform tuning constants that the original
// implementation drew from a process-wide "param" module. Here they are an
// explicit value threaded through every constructor; nothing is global.
package config

import "fmt"

// Platform identifies a sequencing technology, each with its own default
// thresholds and tensor depths.
type Platform string

const (
	ONT  Platform = "ont"
	HiFi Platform = "hifi"
	Ilmn Platform = "ilmn"
)

// Profile is the full set of tunables needed by the pileup decoder,
// candidate generator, and tensor builder for one chunk.
type Profile struct {
	Platform Platform

	// F is the flanking half-width; the tensor window is 2F+1 wide.
	F int
	// ChannelSize is the width of each per-read channel row. The channel
	// layout only defines 7 meaningful slots (0-6); the 8th is reserved,
	// matching the upstream tool's channel_size constant.
	ChannelSize int

	// NormalMatrixDepth and TumorMatrixDepth cap the number of tensor rows
	// per sample.
	NormalMatrixDepth int
	TumorMatrixDepth  int

	SNVMinAF    float64
	IndelMinAF  float64
	MinCoverage float64
	MinMQ       int
	MinBQ       int
	MaxDepth    int

	// ExtendBP is added to F to determine the retention-window trim
	// distance and the "window complete" emission threshold (spec.md §4.3).
	ExtendBP int

	// ExpandReferenceRegion is the platform preset's reference padding beyond
	// [ctg_start, ctg_end]. Nothing in this repository reads it: the
	// reference package holds the whole contig, so flanking bases near chunk
	// boundaries are always available.
	ExpandReferenceRegion int

	// MaskLowBQ, when true, clears the alt-base channel and zeroes BQ for
	// mismatches with BQ < 33 (spec.md §4.6).
	MaskLowBQ bool

	// SamtoolsViewFilterFlag is passed through unchanged to the external
	// samtools mpileup invocation; the core itself never interprets it.
	SamtoolsViewFilterFlag int
}

// NoOfPositions returns the tensor window width, 2F+1.
func (p Profile) NoOfPositions() int { return 2*p.F + 1 }

// ExtendDistance is the distance used by the retention window: a candidate
// at pos is complete once the stream has advanced past pos + F + ExtendBP.
func (p Profile) ExtendDistance() int { return p.F + p.ExtendBP }

// Validate reports an errs.BudgetExhausted-class problem as a plain error;
// callers decide whether that is chunk-fatal.
func (p Profile) Validate() error {
	if p.F <= 0 {
		return fmt.Errorf("config: F must be positive, got %d", p.F)
	}
	if p.NormalMatrixDepth <= 0 || p.TumorMatrixDepth <= 0 {
		return fmt.Errorf("config: matrix depth must be positive (normal=%d tumor=%d)", p.NormalMatrixDepth, p.TumorMatrixDepth)
	}
	if p.ChannelSize <= 0 {
		return fmt.Errorf("config: channel size must be positive, got %d", p.ChannelSize)
	}
	return nil
}

// DefaultProfile returns the built-in preset for a platform, mirroring the
// per-platform tables (min_af_dict, tumor_matrix_depth_dict, ...) consulted
// by the original implementation's "param" module.
func DefaultProfile(platform Platform) Profile {
	switch platform {
	case HiFi:
		return Profile{
			Platform:               HiFi,
			F:                      16,
			ChannelSize:            8,
			NormalMatrixDepth:      89,
			TumorMatrixDepth:       171,
			SNVMinAF:               0.08,
			IndelMinAF:             0.15,
			MinCoverage:            4,
			MinMQ:                  5,
			MinBQ:                  0,
			ExtendBP:               16,
			ExpandReferenceRegion:  100,
			SamtoolsViewFilterFlag: 2316,
		}
	case Ilmn:
		return Profile{
			Platform:               Ilmn,
			F:                      16,
			ChannelSize:            8,
			NormalMatrixDepth:      55,
			TumorMatrixDepth:       99,
			SNVMinAF:               0.05,
			IndelMinAF:             0.1,
			MinCoverage:            4,
			MinMQ:                  20,
			MinBQ:                  0,
			ExtendBP:               16,
			ExpandReferenceRegion:  100,
			SamtoolsViewFilterFlag: 2316,
		}
	default: // ONT
		return Profile{
			Platform:               ONT,
			F:                      16,
			ChannelSize:            8,
			NormalMatrixDepth:      100,
			TumorMatrixDepth:       200,
			SNVMinAF:               0.05,
			IndelMinAF:             0.1,
			MinCoverage:            4,
			MinMQ:                  5,
			MinBQ:                  0,
			ExtendBP:               16,
			ExpandReferenceRegion:  100,
			SamtoolsViewFilterFlag: 2316,
		}
	}
}

// NormalizeBQ clips a raw (Phred+33-decoded) base quality to the
// platform's ceiling: [0,50] for HiFi, [0,40] for ONT and Ilmn.
func (p Profile) NormalizeBQ(raw int) int {
	ceiling := 40
	if p.Platform == HiFi {
		ceiling = 50
	}
	if raw < 0 {
		raw = 0
	}
	if raw > ceiling {
		raw = ceiling
	}
	return raw
}

// NormalizeMQ rescales a raw mapping quality onto [0,60].
func (p Profile) NormalizeMQ(raw int) int {
	if raw < 0 {
		raw = 0
	}
	if raw > 60 {
		raw = 60
	}
	return raw
}
