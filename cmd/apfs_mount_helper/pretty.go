//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/rayleyva/eden/lib/txtfmt"
	"github.com/rayleyva/eden/storage"
)

const (
	deviceTitle     = "Device"
	labelTitle      = "Label"
	mountPointTitle = "Mount Point"
	usedTitle       = "Used"
)

func printApfsContainers(out io.Writer, containers storage.ApfsContainers, all bool) error {
	if containers.VolumeCount() == 0 {
		_, err := fmt.Fprintln(out, "No volumes found")
		return err
	}

	ew := &errWriter{w: out}
	table := txtfmt.NewTableFormatter(deviceTitle, labelTitle, mountPointTitle, usedTitle).
		WithIndent(2)

	for _, c := range containers {
		if len(c.Volumes) == 0 && !all {
			continue
		}

		header := fmt.Sprintf("Container %s", c.ContainerReference)
		if c.UUID != uuid.Nil {
			header += fmt.Sprintf(" (%s)", c.UUID)
		}
		if c.CapacityCeiling > 0 {
			header += fmt.Sprintf(": %s total, %s free",
				humanize.Bytes(c.CapacityCeiling), humanize.Bytes(c.CapacityFree))
		}
		fmt.Fprintln(ew, header)

		rows := make([]txtfmt.TableRow, 0, len(c.Volumes))
		for _, v := range c.Volumes {
			rows = append(rows, txtfmt.TableRow{
				deviceTitle:     v.DeviceIdentifier,
				labelTitle:      v.Name.String(),
				mountPointTitle: v.MountPoint,
				usedTitle:       humanize.Bytes(v.CapacityInUse),
			})
		}
		if err := table.Write(ew, rows); err != nil {
			return err
		}
	}

	return ew.err
}

func printMountResponse(out io.Writer, resp *storage.MountResponse) error {
	var err error
	switch {
	case resp.AlreadyMounted:
		_, err = fmt.Fprintf(out, "%s already mounted at %s\n", resp.DeviceIdentifier, resp.Target)
	case resp.Created:
		_, err = fmt.Fprintf(out, "created and mounted %s at %s\n", resp.DeviceIdentifier, resp.Target)
	case resp.MovedFrom != "":
		_, err = fmt.Fprintf(out, "moved %s from %s to %s\n", resp.DeviceIdentifier, resp.MovedFrom, resp.Target)
	default:
		_, err = fmt.Fprintf(out, "mounted %s at %s\n", resp.DeviceIdentifier, resp.Target)
	}
	return err
}

func printVolumeAction(out io.Writer, action, dev, target string) error {
	_, err := fmt.Fprintf(out, "%s %s (%s)\n", action, dev, target)
	return err
}

// errWriter keeps the first write error and drops subsequent writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	var n int
	n, ew.err = ew.w.Write(p)
	return n, ew.err
}
