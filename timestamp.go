// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Timestamp is the context-sensitivity coordinate of spec.md §4.3.
// It is kept as a single comparable string key so that it can be used
// directly as a map key and as an Address coordinate (spec.md requires
// Timestamp equality, nothing more).
type Timestamp struct {
	key string
}

func (t Timestamp) String() string { return t.key }

// TimestampPolicy advances context per spec.md §4.3.
type TimestampPolicy interface {
	Zero() Timestamp
	Tick(t Timestamp, e Exp) Timestamp
	TickCall(t Timestamp, e Exp, callsite Exp) Timestamp
}

// KCFA retains the last k call sites (spec.md §4.3/glossary).
type KCFA struct {
	K int
}

func (p KCFA) Zero() Timestamp { return Timestamp{} }

func (p KCFA) Tick(t Timestamp, _ Exp) Timestamp { return t }

func (p KCFA) TickCall(t Timestamp, _ Exp, callsite Exp) Timestamp {
	if p.K <= 0 {
		return Timestamp{}
	}
	sites := splitSites(t.key)
	sites = append(sites, strconv.FormatUint(uint64(callsite.ExpID()), 36))
	if len(sites) > p.K {
		sites = sites[len(sites)-p.K:]
	}
	return Timestamp{key: strings.Join(sites, ",")}
}

func splitSites(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, ",")
}

// Concrete is globally unique per step: every tick mints a fresh UUID,
// so two states reached via different concrete execution paths never
// collapse (spec.md §4.3 "A concrete timestamp is unbounded and
// globally unique per step").
type Concrete struct{}

func (Concrete) Zero() Timestamp { return Timestamp{key: "0"} }

func (Concrete) Tick(Timestamp, Exp) Timestamp {
	return Timestamp{key: uuid.NewString()}
}

func (p Concrete) TickCall(t Timestamp, e Exp, _ Exp) Timestamp {
	return p.Tick(t, e)
}
