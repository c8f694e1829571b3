// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import "go.uber.org/zap"

// NewLogger builds the kernel's default structured logger. Production
// callers (cmd/aam) get a JSON production logger; tests and library
// embedders that never called this get zap.NewNop() wherever RunOptions
// leaves Logger nil, so the kernel works with zero required setup —
// the same "nothing to configure to get started" property the teacher
// package aimed for.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	return cfg.Build()
}
