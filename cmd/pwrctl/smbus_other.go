// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package main

import "log/slog"

func registerPlatformFlags(cfg *config) {
	cfg.smbus = -1
}

func platformTransport(cfg config, logger *slog.Logger) transport {
	return nil
}
