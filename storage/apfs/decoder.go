//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package apfs

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"howett.net/plist"

	"github.com/rayleyva/eden/storage"
)

const (
	// DecoderNative decodes diskutil property lists in-process.
	DecoderNative = "native"
	// DecoderPlutil converts diskutil property lists to JSON with plutil
	// before decoding them.
	DecoderPlutil = "plutil"

	// PlutilPath is the absolute path of the plutil binary.
	PlutilPath = "/usr/bin/plutil"
)

type (
	// Decoder converts the output of `diskutil apfs list -plist` into
	// the container catalog.
	Decoder interface {
		Decode(data []byte) (storage.ApfsContainers, error)
		Name() string
	}

	// NativeDecoder parses the property list directly.
	NativeDecoder struct{}

	// PlutilDecoder uses plutil to convert the property list to JSON.
	PlutilDecoder struct {
		runner CmdRunner
	}

	// apfsList is the schema shared by both encodings of the listing.
	apfsList struct {
		Containers []apfsContainer `plist:"Containers" json:"Containers"`
	}

	apfsContainer struct {
		UUID               string       `plist:"APFSContainerUUID,omitempty" json:"APFSContainerUUID,omitempty"`
		CapacityCeiling    uint64       `plist:"CapacityCeiling" json:"CapacityCeiling"`
		CapacityFree       uint64       `plist:"CapacityFree" json:"CapacityFree"`
		ContainerReference string       `plist:"ContainerReference" json:"ContainerReference"`
		Volumes            []apfsVolume `plist:"Volumes" json:"Volumes"`
	}

	apfsVolume struct {
		UUID             string `plist:"APFSVolumeUUID,omitempty" json:"APFSVolumeUUID,omitempty"`
		CapacityInUse    uint64 `plist:"CapacityInUse" json:"CapacityInUse"`
		DeviceIdentifier string `plist:"DeviceIdentifier" json:"DeviceIdentifier"`
		MountPoint       string `plist:"MountPoint,omitempty" json:"MountPoint,omitempty"`
		Name             string `plist:"Name,omitempty" json:"Name,omitempty"`
	}
)

// NewDecoder returns the Decoder with the given name.
func NewDecoder(name string, runner CmdRunner) (Decoder, error) {
	switch name {
	case DecoderNative:
		return &NativeDecoder{}, nil
	case DecoderPlutil:
		return &PlutilDecoder{runner: runner}, nil
	default:
		return nil, errors.Errorf("unknown plist decoder %q", name)
	}
}

func checkInput(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return storage.FaultListDecodeFailed("empty input")
	}
	return nil
}

func parseUUID(in string) (uuid.UUID, error) {
	if in == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(in)
}

// normalize converts the wire schema into catalog records. Both decoders
// finish here so that their results are identical.
func (al *apfsList) normalize() (storage.ApfsContainers, error) {
	if al.Containers == nil {
		return nil, storage.FaultListDecodeFailed("missing Containers key")
	}

	containers := make(storage.ApfsContainers, 0, len(al.Containers))
	for ci, wc := range al.Containers {
		if wc.ContainerReference == "" {
			return nil, storage.FaultListDecodeFailed(
				fmt.Sprintf("container %d has no ContainerReference", ci))
		}
		if wc.Volumes == nil {
			return nil, storage.FaultListDecodeFailed(
				fmt.Sprintf("container %s has no Volumes key", wc.ContainerReference))
		}
		cUUID, err := parseUUID(wc.UUID)
		if err != nil {
			return nil, storage.FaultListDecodeFailed(
				fmt.Sprintf("container %s: %s", wc.ContainerReference, err))
		}

		c := &storage.ApfsContainer{
			ContainerReference: wc.ContainerReference,
			UUID:               cUUID,
			CapacityCeiling:    wc.CapacityCeiling,
			CapacityFree:       wc.CapacityFree,
			Volumes:            make(storage.ApfsVolumes, 0, len(wc.Volumes)),
		}

		for vi, wv := range wc.Volumes {
			if wv.DeviceIdentifier == "" {
				return nil, storage.FaultListDecodeFailed(
					fmt.Sprintf("volume %d in container %s has no DeviceIdentifier",
						vi, wc.ContainerReference))
			}
			vUUID, err := parseUUID(wv.UUID)
			if err != nil {
				return nil, storage.FaultListDecodeFailed(
					fmt.Sprintf("volume %s: %s", wv.DeviceIdentifier, err))
			}

			c.Volumes = append(c.Volumes, &storage.ApfsVolume{
				DeviceIdentifier: wv.DeviceIdentifier,
				Name:             storage.VolumeLabel(wv.Name),
				MountPoint:       wv.MountPoint,
				UUID:             vUUID,
				CapacityInUse:    wv.CapacityInUse,
			})
		}

		containers = append(containers, c)
	}

	return containers, nil
}

// Name returns the name of the decoder.
func (d *NativeDecoder) Name() string {
	return DecoderNative
}

// Decode parses an XML or binary property list.
func (d *NativeDecoder) Decode(data []byte) (storage.ApfsContainers, error) {
	if err := checkInput(data); err != nil {
		return nil, err
	}

	var al apfsList
	format, err := plist.Unmarshal(data, &al)
	if err != nil {
		return nil, storage.FaultListDecodeFailed(err.Error())
	}
	if format != plist.XMLFormat && format != plist.BinaryFormat {
		return nil, storage.FaultListDecodeFailed(
			fmt.Sprintf("unexpected property list format %q", plist.FormatNames[format]))
	}

	return al.normalize()
}

// Name returns the name of the decoder.
func (d *PlutilDecoder) Name() string {
	return DecoderPlutil
}

// Decode converts the property list to JSON using plutil, then parses
// the result.
func (d *PlutilDecoder) Decode(data []byte) (storage.ApfsContainers, error) {
	if err := checkInput(data); err != nil {
		return nil, err
	}

	out, err := d.runner.RunUnprivileged(data, PlutilPath, "-convert", "json", "-o", "-", "-")
	if err != nil {
		return nil, errors.Wrap(err, "converting volume listing to json")
	}

	return decodeJSON(out)
}

func decodeJSON(data []byte) (storage.ApfsContainers, error) {
	if err := checkInput(data); err != nil {
		return nil, err
	}

	var al apfsList
	if err := json.Unmarshal(data, &al); err != nil {
		return nil, storage.FaultListDecodeFailed(err.Error())
	}

	return al.normalize()
}

func encodePlist(al *apfsList) ([]byte, error) {
	return plist.MarshalIndent(al, plist.XMLFormat, "\t")
}
