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

package pattern

import "strings"

// NormalizeSignature removes pointer markers from method receivers, so that
// "(*database/sql.DB).Query" and "(database/sql.DB).Query" are the same signature.
func NormalizeSignature(sig string) string {
	sig = strings.TrimSpace(sig)
	if strings.HasPrefix(sig, "(*") {
		return "(" + sig[2:]
	}

	return sig
}

// matchSignature reports whether the normalized call signature sig is matched by pattern.
// A pattern without package or receiver matches any callee with the same name.
func matchSignature(pattern, sig string) bool {
	if pattern == sig {
		return true
	}

	if strings.ContainsAny(pattern, "./()") {
		return false
	}

	return shortName(sig) == pattern
}

func shortName(sig string) string {
	if i := strings.LastIndexAny(sig, ".)"); i >= 0 {
		return sig[i+1:]
	}

	return sig
}
