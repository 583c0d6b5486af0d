// Copyright 2020-2021 Dolthub, Inc.
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

package route

// LockingBehavior says whether a statement or function pins the client
// session to a single backend until released (§4.4 "Read/write
// classification rationale").
type LockingBehavior int

const (
	// NoLock is the common case: the statement neither locks rows nor
	// needs session affinity.
	NoLock LockingBehavior = iota
	// Lock marks statements like `SELECT ... FOR UPDATE`, `LOCK TABLE`,
	// or an advisory-lock call that must pin the session.
	Lock
)

// FunctionBehavior describes whether a statement (or a function it calls)
// writes, and separately, whether it locks. The two are independent: a
// read-only advisory lock can pin the session without forcing a write
// route, and a volatile write function forces primary without
// necessarily taking a session lock.
type FunctionBehavior struct {
	Writes  bool
	Locking LockingBehavior
}
