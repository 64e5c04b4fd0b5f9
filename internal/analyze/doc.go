// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
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
//
// SPDX-License-Identifier: Apache-2.0

// Package analyze implements the sinkguard analysis pipeline.
//
// # Overview
//
// sinkguard reports calls that reach a security or correctness sink (injection, cross-site
// scripting, nil dereference, missing authorization) and weighs every report by the
// mitigations found on the control-flow paths leading to it.
//
// # Example
//
//	func find(db *sql.DB, id string) (*sql.Rows, error) {
//	    if _, err := strconv.Atoi(id); err != nil { // every path is mitigated
//	        return nil, err
//	    }
//	    return db.Query("SELECT * FROM t WHERE id = " + id) // not reported
//	}
//
// # Architecture
//
// For every file, in parallel, and every function in it:
//
//  1. Candidates: find sink calls and nil-able dereferences using the pattern catalog
//  2. Paths: enumerate the control-flow paths from function entry to the sink
//  3. Resolve: search each path for mitigations, following calls into the package's functions
//  4. Coverage: derive status and severity downgrade from the covered path fraction
//  5. Assemble: build the finding, suppressing fully mitigated defects
//
// A resource budget bounds the run. When it runs out the analysis continues with a reduced
// call depth and findings are marked as degraded.
//
// # Current Limitations
//
//   - Calls into other packages are not followed.
//   - Panics and deferred recovery do not create control-flow edges.
package analyze
