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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffStaysUnderCap(t *testing.T) {
	b := newBackoff()
	for i := 0; i < 50; i++ {
		d := b.next()
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, backoffCap)
	}
}

func TestBackoffResetShrinksCeiling(t *testing.T) {
	b := newBackoff()
	for i := 0; i < 20; i++ {
		b.next()
	}
	b.reset()
	// After reset the first interval is again bounded by the start
	// ceiling, not the cap.
	for i := 0; i < 10; i++ {
		d := b.next()
		assert.Less(t, d, backoffStart)
		b.reset()
	}
}

func TestBackoffSleepHonorsCancellation(t *testing.T) {
	b := newBackoff()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, b.sleep(ctx))
}
