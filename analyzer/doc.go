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

// Package analyzer implements the sinkguard static analysis pass.
//
// # Overview
//
// SinkGuard reports calls of security-sensitive sinks, like SQL queries built from non-constant
// text, that are not preceded by a mitigation on every control-flow path. Mitigations are found
// in the function containing the sink and in the functions it calls, up to a configurable call
// depth.
//
// # Example
//
//	func find(db *sql.DB, id string, strict bool) {
//	    if strict {
//	        if _, err := strconv.Atoi(id); err != nil {
//	            return
//	        }
//	    }
//	    db.Query("SELECT * FROM t WHERE id = " + id) // possible injection, 1 of 2 paths mitigated
//	}
//
// A sink mitigated on all paths is not reported. A partially mitigated sink is reported with a
// lowered severity: two levels down at 75% path coverage and one level at 50%.
//
// # Budgets
//
// Each package is analyzed within a time and a size budget. When a budget is exhausted the
// analysis continues with a reduced call depth, and a notice reports the degradation.
//
// # Suppression
//
// A //nolint:sinkguard comment on the sink line, the function or the file disables reporting.
package analyzer
