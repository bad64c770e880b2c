// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/phoenixvm/config"
	"github.com/ava-labs/phoenixvm/consts"
)

// newLogger writes to stderr and, when a log directory is configured, to a
// rotated JSON file.
func newLogger(cfg *config.Config) (logging.Logger, error) {
	format, err := logging.ToFormat(cfg.LogDisplayHighlight, os.Stderr.Fd())
	if err != nil {
		return nil, err
	}
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(cfg.GetLogLevel(), os.Stderr, format.ConsoleEncoder()),
	}
	if cfg.LogDir != "" {
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, consts.Name+".log"),
			MaxSize:    cfg.LogMaxSize, // megabytes
			MaxBackups: cfg.LogMaxBackups,
			Compress:   true,
		}
		cores = append(cores, logging.NewWrappedCore(cfg.GetLogLevel(), rw, logging.JSON.FileEncoder()))
	}
	return logging.NewLogger(logging.JSON.WrapPrefix(consts.Name), cores...), nil
}
