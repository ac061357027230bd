//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package config

import (
	"fmt"
	"os"

	"github.com/rayleyva/eden/fault"
	"github.com/rayleyva/eden/fault/code"
)

// FaultBadPermissions creates a Fault for a config file which could be
// modified by someone other than root.
func FaultBadPermissions(path string, uid uint32, mode os.FileMode) *fault.Fault {
	return configFault(
		code.ConfigBadPermissions,
		fmt.Sprintf("config file %s is owned by uid %d with mode %s", path, uid, mode.Perm()),
		fmt.Sprintf("chown root %s && chmod go-w %s", path, path),
	)
}

// FaultValidationFailed creates a Fault for a config file containing
// an invalid value.
func FaultValidationFailed(path, reason string) *fault.Fault {
	return configFault(
		code.ConfigValidationFailed,
		fmt.Sprintf("invalid config file %s: %s", path, reason),
		"fix the config file or remove it to use the defaults",
	)
}

func configFault(code code.Code, desc, res string) *fault.Fault {
	return &fault.Fault{
		Domain:      "config",
		Code:        code,
		Description: desc,
		Resolution:  res,
	}
}
