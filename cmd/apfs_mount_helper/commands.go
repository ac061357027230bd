//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package main

import (
	"io"
	"os"

	"github.com/rayleyva/eden/common"
	"github.com/rayleyva/eden/storage"
)

type outputCmd struct {
	jsonOutputCmd
	out io.Writer
}

func (c *outputCmd) writer() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

type targetCmd struct {
	logCmd
	providerCmd
	outputCmd
	Args struct {
		Path string `positional-arg-name:"path" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

// target returns the cleaned absolute form of the path argument, so that
// the volume label does not depend on how the directory was named.
func (c *targetCmd) target() (string, error) {
	return common.GetAbsPath(c.Args.Path, "")
}

// listCmd is the struct representing the command to list volumes.
type listCmd struct {
	logCmd
	providerCmd
	outputCmd
	All bool `short:"a" long:"all" description:"Include volumes not managed by the helper"`
}

// Execute is run when listCmd activates.
func (cmd *listCmd) Execute(_ []string) error {
	resp, err := cmd.provider.List(storage.ListRequest{All: cmd.All})
	if err != nil {
		return err
	}

	if cmd.JSON {
		return cmd.outputJSON(cmd.writer(), resp)
	}
	return printApfsContainers(cmd.writer(), resp.Containers, cmd.All)
}

// mountCmd is the struct representing the command to mount a volume.
type mountCmd struct {
	targetCmd
}

// Execute is run when mountCmd activates.
//
// A response returned alongside an error is still reported, as the volume
// is mounted in that case.
func (cmd *mountCmd) Execute(_ []string) error {
	target, err := cmd.target()
	if err != nil {
		return err
	}
	cmd.log.Debugf("mount requested on %s", target)

	resp, err := cmd.provider.Mount(storage.MountRequest{Target: target})
	if resp != nil {
		var outErr error
		if cmd.JSON {
			outErr = cmd.outputJSON(cmd.writer(), resp)
		} else {
			outErr = printMountResponse(cmd.writer(), resp)
		}
		if err == nil {
			err = outErr
		}
	}
	return err
}

// unmountCmd is the struct representing the command to unmount a volume.
type unmountCmd struct {
	targetCmd
	Force bool `short:"f" long:"force" description:"Unmount even if the volume is in use"`
}

// Execute is run when unmountCmd activates.
func (cmd *unmountCmd) Execute(_ []string) error {
	target, err := cmd.target()
	if err != nil {
		return err
	}
	cmd.log.Debugf("unmount requested on %s (force: %t)", target, cmd.Force)

	resp, err := cmd.provider.Unmount(storage.UnmountRequest{Target: target, Force: cmd.Force})
	if err != nil {
		return err
	}

	if cmd.JSON {
		return cmd.outputJSON(cmd.writer(), resp)
	}
	return printVolumeAction(cmd.writer(), "unmounted", resp.DeviceIdentifier, resp.Target)
}

// deleteCmd is the struct representing the command to delete a volume.
type deleteCmd struct {
	targetCmd
}

// Execute is run when deleteCmd activates.
func (cmd *deleteCmd) Execute(_ []string) error {
	target, err := cmd.target()
	if err != nil {
		return err
	}
	cmd.log.Debugf("delete requested on %s", target)

	resp, err := cmd.provider.Delete(storage.DeleteRequest{Target: target})
	if err != nil {
		return err
	}

	if cmd.JSON {
		return cmd.outputJSON(cmd.writer(), resp)
	}
	return printVolumeAction(cmd.writer(), "deleted", resp.DeviceIdentifier, resp.Target)
}
