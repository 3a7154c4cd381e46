// SPDX-License-Identifier: MPL-2.0

// Package cmdchain models and parses the per-file command DSL: a small
// shell-like language with input/output redirection, append, handle
// duplication, and four chain operators (`|`, `&`, `&&`, `||`).
//
// The parser is a single left-to-right scan over a token stream. It never
// fails; malformed operator sequences degrade to literal text. Control
// characters are escaped with `^`.
package cmdchain
