//
// (C) Copyright 2020-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package privilege

import (
	"fmt"

	"github.com/rayleyva/eden/fault"
	"github.com/rayleyva/eden/fault/code"
)

// FaultBadEscalationHint creates a Fault for an unusable value in one of
// the variables set by sudo to identify the invoking user.
func FaultBadEscalationHint(name, value string) *fault.Fault {
	return privilegeFault(
		code.PrivilegeBadEscalationHint,
		fmt.Sprintf("environment variable %s has invalid value %q", name, value),
		fmt.Sprintf("unset %s or set it to a decimal id", name),
	)
}

// FaultUntrustedCommandPath creates a Fault for an attempt to run a
// command that is not named by an absolute path.
func FaultUntrustedCommandPath(path string) *fault.Fault {
	return privilegeFault(
		code.PrivilegeUntrustedCommandPath,
		fmt.Sprintf("refusing to run %q: command paths must be absolute", path),
		"",
	)
}

// FaultNotElevated creates a Fault for an operation that needs root
// privileges when the helper is not running with an effective uid of root.
func FaultNotElevated() *fault.Fault {
	return privilegeFault(
		code.PrivilegeNotElevated,
		"helper is not running with root privileges",
		"install the helper setuid root (chown root and chmod u+s)",
	)
}

func privilegeFault(code code.Code, desc, res string) *fault.Fault {
	return &fault.Fault{
		Domain:      "privilege",
		Code:        code,
		Description: desc,
		Resolution:  res,
	}
}
