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

import "fmt"

// FatalError wraps a journal error that leaves the handle unusable,
// terminating the stream rather than retrying. Reader methods return
// this directly; Tail's caller sees it surface as the stream's
// terminal error.
type FatalError struct {
	Err error
}

func (e FatalError) Error() string {
	return fmt.Sprintf("journald: fatal: %v", e.Err)
}

func (e FatalError) Unwrap() error {
	return e.Err
}

// TransientJournalError wraps a recoverable read failure that Tail's
// backoff loop retries without surfacing to the caller.
type TransientJournalError struct {
	Err error
}

func (e TransientJournalError) Error() string {
	return fmt.Sprintf("journald: transient: %v", e.Err)
}

func (e TransientJournalError) Unwrap() error {
	return e.Err
}
