// SPDX-License-Identifier: MPL-2.0

// Package runtime executes a parsed command chain against discovered files.
// The Coordinator walks a chain's steps for one file, wiring redirections to
// capture sinks and deciding from each exit code whether the next step runs;
// Spawner implementations launch individual steps natively (os/exec) or in
// the embedded mvdan/sh interpreter.
package runtime
