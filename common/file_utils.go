//
// (C) Copyright 2019-2023 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package common

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// AppendFile appends to existing or creates new file with default options
func AppendFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0640)
}

// GetAbsPath returns an absolute, cleaned version of inPath. Relative
// paths are resolved against workDir, or against the current working
// directory if workDir is empty.
func GetAbsPath(inPath, workDir string) (string, error) {
	if inPath == "" {
		return "", errors.New("empty path")
	}
	if filepath.IsAbs(inPath) {
		return filepath.Clean(inPath), nil
	}

	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "unable to determine working directory")
		}
		workDir = wd
	}
	if !filepath.IsAbs(workDir) {
		return "", errors.Errorf("working directory %q is not absolute", workDir)
	}

	return filepath.Join(workDir, inPath), nil
}
