/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"fmt"
	"runtime"
)

var (
	// These variables are set using -ldflags
	cypherhttpVersion string
	gitBranch         string
	lastCommitSHA     string
	lastCommitTime    string
)

// BuildDetails returns a string containing details about the cypherc binary.
func BuildDetails() string {
	return fmt.Sprintf(`
cypherc version  : %v
Commit SHA-1     : %v
Commit timestamp : %v
Branch           : %v
Go version       : %v

Licensed under the Apache Public License 2.0.
`,
		Version(), lastCommitSHA, lastCommitTime, gitBranch, runtime.Version())
}

// Version returns the version of the binary, "dev" when it was built without ldflags.
func Version() string {
	if cypherhttpVersion == "" {
		return "dev"
	}
	return cypherhttpVersion
}
