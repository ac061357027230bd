//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package storage

import "strings"

// VolumeLabelPrefix namespaces the labels of volumes managed by the helper.
const VolumeLabelPrefix = "edenfs:"

// VolumeLabel is the name given to an APFS volume.
type VolumeLabel string

// EncodeVolumeLabel returns the label of the volume that backs the
// supplied mount target. The target is embedded verbatim, so distinct
// targets always produce distinct labels.
func EncodeVolumeLabel(mountTarget string) VolumeLabel {
	return VolumeLabel(VolumeLabelPrefix + mountTarget)
}

// IsManaged returns true if the label was produced by EncodeVolumeLabel.
func (l VolumeLabel) IsManaged() bool {
	return strings.HasPrefix(string(l), VolumeLabelPrefix)
}

func (l VolumeLabel) String() string {
	return string(l)
}
