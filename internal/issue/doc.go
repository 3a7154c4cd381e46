// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines error types that carry remediation steps, plus a small catalog of
// Markdown help cards rendered in the terminal when a fatal error occurs.
package issue
