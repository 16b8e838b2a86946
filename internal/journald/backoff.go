// Copyright 2024 The Drashta Authors
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

package journald

import (
	"context"
	"math/rand"
	"time"
)

const (
	backoffStart = 100 * time.Millisecond
	backoffCap   = 3 * time.Second
)

// jitteredBackoff implements full-jitter exponential backoff (start
// 100ms, cap 3s) for Tail's retry loop on transient journal errors.
type jitteredBackoff struct {
	attempt int
	rng     *rand.Rand
}

func newBackoff() *jitteredBackoff {
	return &jitteredBackoff{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (b *jitteredBackoff) reset() {
	b.attempt = 0
}

// sleep blocks for one backoff interval, or returns false immediately
// if ctx is cancelled first.
func (b *jitteredBackoff) sleep(ctx context.Context) bool {
	d := b.next()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (b *jitteredBackoff) next() time.Duration {
	ceiling := backoffStart << b.attempt
	if ceiling > backoffCap || ceiling <= 0 {
		ceiling = backoffCap
	} else {
		b.attempt++
	}
	return time.Duration(b.rng.Int63n(int64(ceiling)))
}
