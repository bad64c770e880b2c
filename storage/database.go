// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/utils/perms"

	"github.com/ava-labs/phoenixvm/pebble"
	"github.com/ava-labs/phoenixvm/state"
)

const stateDir = "statedb"

// New opens the pebble state database under [dataDir] and registers its
// metrics with [gatherer].
func New(cfg pebble.Config, dataDir string, gatherer metrics.MultiGatherer) (state.Database, error) {
	path := filepath.Join(dataDir, stateDir)
	if err := os.MkdirAll(path, perms.ReadWriteExecute); err != nil {
		return nil, err
	}
	db, registry, err := pebble.New(path, cfg)
	if err != nil {
		return nil, err
	}
	if err := gatherer.Register(stateDir, registry); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
