// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
)

// EnsureAbsolute - ensure the path is absolute
// if not, prepend the directory to make absolute path
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// IsDirectory - check that a path exists and is a directory
func IsDirectory(name string) bool {
	info, err := os.Stat(name)
	if nil != err {
		return false
	}
	return info.IsDir()
}

// EnsureFileExists - check that a file exists
func EnsureFileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}
