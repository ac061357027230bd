//
// (C) Copyright 2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package system

import (
	"os"
	"sync"

	"github.com/rayleyva/eden/logging"
)

type (
	// ChownCall records the arguments of a MockSysProvider.Chown call.
	ChownCall struct {
		Path string
		UID  uint32
		GID  uint32
	}

	// MockSysConfig alters mock SystemProvider behavior.
	MockSysConfig struct {
		Ownership         map[string]*FileOwnership
		GetOwnershipErr   error
		ChownErr          error
		MountSources      map[string]string
		GetMountSourceErr error
	}

	// MockSysProvider gives a mock SystemProvider implementation.
	MockSysProvider struct {
		sync.RWMutex
		log                  logging.Logger
		cfg                  MockSysConfig
		GetOwnershipInputs   []string
		GetMountSourceInputs []string
		ChownCalls           []ChownCall
	}
)

func (msp *MockSysProvider) GetOwnership(path string) (*FileOwnership, error) {
	msp.Lock()
	defer msp.Unlock()

	msp.GetOwnershipInputs = append(msp.GetOwnershipInputs, path)

	if msp.cfg.GetOwnershipErr != nil {
		return nil, msp.cfg.GetOwnershipErr
	}

	fo, found := msp.cfg.Ownership[path]
	if !found {
		return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}
	cp := *fo
	return &cp, nil
}

func (msp *MockSysProvider) Chown(path string, uid, gid uint32) error {
	msp.Lock()
	defer msp.Unlock()

	msp.ChownCalls = append(msp.ChownCalls, ChownCall{Path: path, UID: uid, GID: gid})
	return msp.cfg.ChownErr
}

func (msp *MockSysProvider) GetMountSource(target string) (string, bool, error) {
	msp.Lock()
	defer msp.Unlock()

	msp.GetMountSourceInputs = append(msp.GetMountSourceInputs, target)

	if msp.cfg.GetMountSourceErr != nil {
		return "", false, msp.cfg.GetMountSourceErr
	}

	src, found := msp.cfg.MountSources[target]
	return src, found, nil
}

func NewMockSysProvider(log logging.Logger, cfg *MockSysConfig) *MockSysProvider {
	if cfg == nil {
		cfg = &MockSysConfig{}
	}
	msp := &MockSysProvider{
		log: log,
		cfg: *cfg,
	}
	log.Debugf("creating MockSysProvider with cfg: %+v", msp.cfg)
	return msp
}
