// Copyright 2025-2026 AI Keynote Bot contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workspacefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/moby/patternmatcher"
	"k8s.io/apimachinery/pkg/api/resource"
)

// EnsureWorkdir creates the scratch directory the bot writes voice clips
// into. Safe to call on every run.
func EnsureWorkdir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// TempArtifactName mirrors the bot's own naming for transient audio files:
// prefix, wall-clock timestamp, then a short random id to dodge collisions
// within the same second.
func TempArtifactName(prefix, ext string) string {
	timestamp := time.Now().Format("20060102_150405")
	randomID := uuid.NewString()[:8]
	return fmt.Sprintf("%s%s_%s%s", prefix, timestamp, randomID, ext)
}

// ProbeWritable verifies dir accepts writes by round-tripping a scratch
// file named like a real voice artifact.
func ProbeWritable(dir string) error {
	probe := filepath.Join(dir, TempArtifactName("probe_", ".tmp"))
	if err := os.WriteFile(probe, []byte("kb"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// DirSize sums the bytes of all regular files under dir.
func DirSize(dir string) (int64, error) {
	var total int64
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// ParseSizeLimit accepts kubernetes-style quantities ("200Mi", "1Gi",
// "500000") and returns bytes.
func ParseSizeLimit(s string) (int64, error) {
	quantity, err := resource.ParseQuantity(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse size quantity: %v", err)
	}
	return quantity.Value(), nil
}

// HumanSize renders bytes in the same binary-suffix notation ParseSizeLimit
// accepts.
func HumanSize(bytes int64) string {
	return resource.NewQuantity(bytes, resource.BinarySI).String()
}

// SweepOptions controls which temp artifacts a sweep removes.
type SweepOptions struct {
	// OlderThan removes files whose mtime is older than the duration.
	// Zero disables the age filter.
	OlderThan time.Duration
	// All removes every candidate regardless of age.
	All bool
	// MaxSize is a byte budget. After the age pass, the oldest remaining
	// files are removed until the directory fits. Zero disables it.
	MaxSize int64
	// Keep lists dockerignore-style patterns that are never removed.
	Keep []string
	// DryRun reports what would be removed without touching anything.
	DryRun bool
}

// SweepResult reports what a sweep did (or, under DryRun, would do).
type SweepResult struct {
	Removed      []string `json:"removed"`
	RemovedBytes int64    `json:"removed_bytes"`
	KeptFiles    int      `json:"kept_files"`
	KeptBytes    int64    `json:"kept_bytes"`
}

type sweepCandidate struct {
	rel     string
	size    int64
	modTime time.Time
}

// Sweep clears old voice artifacts out of dir. Files matching a Keep
// pattern survive every pass. Paths in the result are relative to dir.
func Sweep(dir string, opts SweepOptions) (*SweepResult, error) {
	var matcher *patternmatcher.PatternMatcher
	if len(opts.Keep) > 0 {
		m, err := patternmatcher.New(opts.Keep)
		if err != nil {
			return nil, fmt.Errorf("failed to create pattern matcher: %w", err)
		}
		matcher = m
	}

	result := &SweepResult{}
	var candidates []sweepCandidate
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		if matcher != nil {
			if kept, err := matcher.MatchesOrParentMatches(rel); err == nil && kept {
				result.KeptFiles++
				result.KeptBytes += info.Size()
				return nil
			}
		}
		candidates = append(candidates, sweepCandidate{rel: rel, size: info.Size(), modTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// oldest first, so the size budget evicts in mtime order
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.Before(candidates[j].modTime)
	})

	cutoff := time.Now().Add(-opts.OlderThan)
	var survivors []sweepCandidate
	for _, c := range candidates {
		expired := opts.All || (opts.OlderThan > 0 && c.modTime.Before(cutoff))
		if expired {
			if err := removeCandidate(dir, c, opts.DryRun, result); err != nil {
				return nil, err
			}
			continue
		}
		survivors = append(survivors, c)
	}

	evicted := 0
	if opts.MaxSize > 0 {
		var total int64
		for _, c := range survivors {
			total += c.size
		}
		for evicted < len(survivors) && total > opts.MaxSize {
			if err := removeCandidate(dir, survivors[evicted], opts.DryRun, result); err != nil {
				return nil, err
			}
			total -= survivors[evicted].size
			evicted++
		}
	}

	for _, c := range survivors[evicted:] {
		result.KeptFiles++
		result.KeptBytes += c.size
	}
	return result, nil
}

func removeCandidate(dir string, c sweepCandidate, dryRun bool, result *SweepResult) error {
	if !dryRun {
		if err := os.Remove(filepath.Join(dir, c.rel)); err != nil {
			return err
		}
	}
	result.Removed = append(result.Removed, c.rel)
	result.RemovedBytes += c.size
	return nil
}
