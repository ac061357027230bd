//
// (C) Copyright 2018-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

// eden_apfs_mount_helper is installed setuid root so that unprivileged
// users can mount private APFS volumes on directories they own.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/rayleyva/eden/build"
	"github.com/rayleyva/eden/common"
	"github.com/rayleyva/eden/config"
	"github.com/rayleyva/eden/fault"
	"github.com/rayleyva/eden/logging"
	"github.com/rayleyva/eden/privilege"
	"github.com/rayleyva/eden/provider/system"
	"github.com/rayleyva/eden/storage"
	"github.com/rayleyva/eden/storage/apfs"
	"github.com/rayleyva/eden/storage/mount"
)

type (
	// providerFactory builds the volume provider once the command line
	// has been parsed.
	providerFactory func(log *logging.LeveledLogger) (storage.VolumeProvider, error)

	providerSetter interface {
		setProvider(storage.VolumeProvider)
	}

	providerCmd struct {
		provider storage.VolumeProvider
	}

	cmdLogger interface {
		setLog(*logging.LeveledLogger)
	}

	logCmd struct {
		log *logging.LeveledLogger
	}

	jsonOutputCmd struct {
		JSON bool `short:"j" long:"json" description:"Enable JSON output"`
	}
)

func (c *providerCmd) setProvider(p storage.VolumeProvider) {
	c.provider = p
}

func (c *logCmd) setLog(log *logging.LeveledLogger) {
	c.log = log
}

func (c *jsonOutputCmd) outputJSON(out io.Writer, in interface{}) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return err
	}

	_, err = out.Write(append(data, '\n'))
	return err
}

type cliOptions struct {
	Debug    bool       `short:"d" long:"debug" description:"Enable debug output"`
	JSONLogs bool       `short:"J" long:"json-logging" description:"Enable JSON-formatted log output"`
	List     listCmd    `command:"list" alias:"ls" description:"List managed APFS volumes"`
	Mount    mountCmd   `command:"mount" description:"Mount the volume for a directory, creating it if needed"`
	Unmount  unmountCmd `command:"unmount" description:"Unmount the volume for a directory"`
	Delete   deleteCmd  `command:"delete" description:"Delete the volume for a directory"`
	Version  versionCmd `command:"version" description:"Print helper version"`
}

type versionCmd struct{}

func (cmd *versionCmd) Execute(_ []string) error {
	fmt.Println(build.String(build.HelperName))
	return nil
}

func exitWithError(log logging.Logger, err error) {
	cmdName := path.Base(os.Args[0])
	log.Errorf("%s: %v", cmdName, err)
	if fault.HasResolution(err) {
		log.Errorf("%s: %s", cmdName, fault.ShowResolutionFor(err))
	}
	os.Exit(1)
}

// newProvider loads the root-owned config file and builds the volume
// provider on top of the privilege context for this process.
func newProvider(log *logging.LeveledLogger) (storage.VolumeProvider, error) {
	cfg, err := config.Load(config.DefaultPath(), system.DefaultProvider())
	if err != nil {
		return nil, err
	}

	if cfg.LogFile != "" {
		f, err := common.AppendFile(cfg.LogFile)
		if err != nil {
			return nil, errors.Wrap(err, "opening log file")
		}
		log.WithFileOutput(build.HelperName, f)
		if cfg.LogLevel > log.Level() {
			log.SetLevel(cfg.LogLevel)
		}
	}

	ctx, err := privilege.NewContext(log, privilege.DefaultProcess())
	if err != nil {
		return nil, err
	}
	log.Debugf("acting for %s (elevated: %t)", ctx.Identity(), ctx.IsElevated())

	decoder, err := apfs.NewDecoder(cfg.PlistDecoder, ctx)
	if err != nil {
		return nil, err
	}
	catalog := apfs.NewProvider(log, ctx, decoder, cfg.Container)

	return mount.DefaultProvider(log, ctx, catalog), nil
}

func parseOpts(args []string, opts *cliOptions, log *logging.LeveledLogger, factory providerFactory) error {
	p := flags.NewParser(opts, flags.Default)
	p.Name = build.HelperName
	p.Options ^= flags.PrintErrors // Don't allow the library to print errors
	p.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}

		if opts.Debug {
			log.WithLogLevel(logging.LogLevelTrace)
			log.Debug("debug output enabled")
		}

		if opts.JSONLogs {
			log.WithJSONOutput()
		}

		if logCmd, ok := cmd.(cmdLogger); ok {
			logCmd.setLog(log)
		}

		if provCmd, ok := cmd.(providerSetter); ok {
			provider, err := factory(log)
			if err != nil {
				return err
			}
			provCmd.setProvider(provider)
		}

		return cmd.Execute(args)
	}

	_, err := p.ParseArgs(args)
	return err
}

func main() {
	var opts cliOptions
	log := logging.NewCommandLineLogger()

	if err := parseOpts(os.Args[1:], &opts, log, newProvider); err != nil {
		exitWithError(log, err)
	}
}
