//
// (C) Copyright 2018-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

// Package code is a central repository for all mount helper fault codes.
package code

import (
	"encoding/json"
	"strconv"
)

// Code represents a stable fault code.
//
// NB: All errors should register their codes in the following blocks
// in order to avoid conflicts.
//
// Also note that new codes should always be added at the bottom of
// their respective blocks. This ensures stability of fault codes
// over time.
type Code int

// UnmarshalJSON implements a custom unmarshaler
// to convert an int or string code to a Code.
func (c *Code) UnmarshalJSON(data []byte) (err error) {
	var ic int
	if err = json.Unmarshal(data, &ic); err == nil {
		*c = Code(ic)
		return
	}

	var sc string
	if err = json.Unmarshal(data, &sc); err != nil {
		return
	}

	if ic, err = strconv.Atoi(sc); err == nil {
		*c = Code(ic)
	}
	return
}

const (
	// general fault codes
	Unknown Code = iota
	MissingSoftwareDependency
)

const (
	// privilege fault codes
	PrivilegeUnknown Code = iota + 100
	PrivilegeBadEscalationHint
	PrivilegeUntrustedCommandPath
	PrivilegeNotElevated
)

const (
	// generic storage fault codes
	StorageUnknown Code = iota + 200
	StorageTargetNotOwned
	StorageTargetNotDirectory
	StorageTargetAlreadyMounted
	StorageVolumeNotFound
	StorageVolumeNotRelocated
	StorageListDecodeFailed
	StorageTargetChownFailed
)

const (
	// config fault codes
	ConfigUnknown Code = iota + 300
	ConfigBadPermissions
	ConfigValidationFailed
)
