//
// (C) Copyright 2020-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package privilege

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

const (
	sudoUIDEnv = "SUDO_UID"
	sudoGIDEnv = "SUDO_GID"
)

// Identity is the user on whose behalf the helper acts.
type Identity struct {
	UID uint32 `json:"uid"`
	GID uint32 `json:"gid"`
}

func (id Identity) String() string {
	return fmt.Sprintf("%d:%d", id.UID, id.GID)
}

// parseEscalationHint converts the value of a sudo-provided id variable.
// Only a non-empty run of decimal digits that fits in 32 bits is accepted.
func parseEscalationHint(name, value string) (uint32, error) {
	if value == "" || !utf8.ValidString(value) {
		return 0, FaultBadEscalationHint(name, value)
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, FaultBadEscalationHint(name, value)
		}
	}

	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, FaultBadEscalationHint(name, value)
	}
	return uint32(id), nil
}

// ResolveRealIdentity determines the user that invoked the helper.
//
// If the real uid is not root, the real uid and gid are used. Otherwise the
// helper was started by root, possibly via sudo, in which case SUDO_UID and
// SUDO_GID identify the invoking user. A malformed value is an error.
func ResolveRealIdentity(proc ProcessProvider) (Identity, error) {
	id := Identity{
		UID: uint32(proc.Getuid()),
		GID: uint32(proc.Getgid()),
	}
	if id.UID != 0 {
		return id, nil
	}

	if val, set := proc.LookupEnv(sudoUIDEnv); set {
		uid, err := parseEscalationHint(sudoUIDEnv, val)
		if err != nil {
			return Identity{}, err
		}
		id.UID = uid
	}
	if val, set := proc.LookupEnv(sudoGIDEnv); set {
		gid, err := parseEscalationHint(sudoGIDEnv, val)
		if err != nil {
			return Identity{}, err
		}
		id.GID = gid
	}

	return id, nil
}
