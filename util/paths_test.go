// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/rentald/util"
)

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/var/lib/rentald/data", util.EnsureAbsolute("/var/lib/rentald", "data"), "relative")
	assert.Equal(t, "/etc/rpc.crt", util.EnsureAbsolute("/var/lib/rentald", "/etc/rpc.crt"), "absolute")
	assert.Equal(t, "/var/lib/data", util.EnsureAbsolute("/var/lib/rentald", "../data"), "cleaned")
}

func TestFileChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present")
	assert.Nil(t, os.WriteFile(file, []byte("x"), 0o600), "write")

	assert.True(t, util.IsDirectory(dir), "directory")
	assert.False(t, util.IsDirectory(file), "file is not a directory")
	assert.False(t, util.IsDirectory(filepath.Join(dir, "missing")), "missing directory")

	assert.True(t, util.EnsureFileExists(file), "file exists")
	assert.False(t, util.EnsureFileExists(filepath.Join(dir, "missing")), "missing file")
}
