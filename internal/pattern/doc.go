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

// Package pattern holds the pattern catalog and the bounded pattern matcher.
//
// Patterns are either sinks, which detect candidate defects, or mitigations, which prove a
// defect neutralized along a control-flow path. Each pattern relates to one or more
// [DefectClass]es and matches text or call signatures in one of three [Kind]s.
//
// The [Catalog] is loaded all-or-nothing and is read-only afterwards, so it can be shared
// between concurrent workers. The [Matcher] evaluates a pattern against a [Subject] within a
// fixed time ceiling, reporting a timeout as a non-match.
package pattern
