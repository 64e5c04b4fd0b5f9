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

package analyzer

import (
	"flag"

	"fillmore-labs.com/sinkguard/internal/config"
	"fillmore-labs.com/sinkguard/internal/run"
)

// registerFlags binds the [run.Options] values to command line flag values.
// A nil flag set value defaults to the program's command line.
func registerFlags(flags *flag.FlagSet, r *run.Options) {
	if flags == nil {
		flags = flag.CommandLine
	}

	c := &r.Config

	flags.Var(configFile(c), "config", "YAML configuration `file`, overlaid on the settings given before it")
	flags.IntVar(&c.MaxCallDepth, "max-depth", c.MaxCallDepth, "maximum number of call hops followed to find a mitigation")
	flags.Var(millisValue{&c.TimeBudgetMs}, "time-budget", "time budget per package")
	flags.IntVar(&c.SizeBudgetLines, "size-budget", c.SizeBudgetLines, "number of function lines analyzed per package before degrading")
	flags.Var(millisValue{&c.PatternTimeoutMs}, "pattern-timeout", "time limit of a single pattern evaluation")
	flags.Var(patternsFile(c), "patterns", "YAML `file` with additional pattern declarations")
	flags.Var(listValue{&c.Disabled}, "disable", "comma separated `ids` of patterns to disable")
	flags.Var(newBehaviorValue(&r.Behavior, config.IncludeGenerated), "generated", "check generated files")
	flags.Var(newBehaviorValue(&r.Behavior, config.ReportDeprecated), "deprecated", "report matches of deprecated mitigation patterns")
	flags.IntVar(&r.Workers, "workers", r.Workers, "number of files analyzed in parallel, 0 means GOMAXPROCS")
}
