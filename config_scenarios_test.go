// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam_test

import (
	"os"
	"strings"
	"testing"

	"github.com/hybscloud/aam"
	"github.com/hybscloud/aam/internal/testlat"
)

// sweepModeOf/sweepAddressOf/sweepTimestampOf/sweepMachineOf mirror
// cmd/aam/main.go's modeOf/addressPolicyOf/timestampPolicyOf/machineOf
// just closely enough to drive a aam.Config loaded from YAML through a
// real machine — cmd/aam's own versions are unexported in package main
// and out of reach here.
func sweepModeOf(lattice string) testlat.Mode {
	switch lattice {
	case "TypeSet":
		return testlat.ModeTypeSet
	case "BoundedInt":
		return testlat.ModeBounded
	default:
		return testlat.ModeConcrete
	}
}

func sweepAddressOf(address string) aam.AddressPolicy {
	if address == "ValueSensitive" {
		return aam.ValueSensitive{}
	}
	return aam.Classical{}
}

func sweepTimestampOf(cfg *aam.Config) aam.TimestampPolicy {
	if cfg.Machine == "ConcreteMachine" || cfg.Concrete {
		return aam.Concrete{}
	}
	return aam.KCFA{K: 0}
}

func sweepMachineOf(cfg *aam.Config, sem aam.Semantics, addr aam.AddressPolicy, tp aam.TimestampPolicy) (aam.Machine, error) {
	switch cfg.Machine {
	case "AAM":
		return aam.NewAAMMachine(sem, addr, tp, cfg.Counting, 256), nil
	case "AAMGlobalStore":
		if cfg.Counting {
			return aam.NewAAMGlobalStoreMachineCounting(sem, addr, tp), nil
		}
		return aam.NewAAMGlobalStoreMachine(sem, addr, tp), nil
	case "Free":
		if cfg.Counting {
			return aam.NewFreeMachineCounting(sem, addr, tp), nil
		}
		return aam.NewFreeMachine(sem, addr, tp), nil
	case "ConcreteMachine":
		return aam.NewConcreteMachine(sem, addr), nil
	default:
		return nil, aam.NewInfraError(aam.ExitUnsupportedConfig, "unknown machine variant: "+cfg.Machine)
	}
}

// TestLoadConfigYAMLDrivesScenarioSweep reads testdata/scenarios.yaml —
// a multi-document fixture, one aam.Config per "---"-separated chunk —
// parses each chunk with aam.LoadConfigYAML, and runs the named
// built-in scenario through the requested machine/lattice/address
// combination, asserting the driver reaches at least one final value
// and never times out. This is config.go's "batch/CI sweep" YAML path
// actually exercised end to end, not just unit-tested in isolation.
func TestLoadConfigYAMLDrivesScenarioSweep(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios.yaml")
	if err != nil {
		t.Fatalf("reading testdata/scenarios.yaml: %v", err)
	}
	chunks := strings.Split(string(data), "\n---\n")
	if len(chunks) < 2 {
		t.Fatalf("expected testdata/scenarios.yaml to contain multiple '---'-separated documents, found %d", len(chunks))
	}

	for i, chunk := range chunks {
		cfg, err := aam.LoadConfigYAML([]byte(chunk))
		if err != nil {
			t.Fatalf("document %d: LoadConfigYAML: %v", i, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("document %d (%s/%s/%s): Validate: %v", i, cfg.Machine, cfg.Lattice, cfg.Scenario, err)
		}

		program, ok := testlat.Build(cfg.Scenario)
		if !ok {
			t.Fatalf("document %d: unknown scenario %q", i, cfg.Scenario)
		}

		addr := sweepAddressOf(cfg.Address)
		tp := sweepTimestampOf(cfg)
		sem := testlat.BuildSemantics(sweepModeOf(cfg.Lattice), cfg.Bound, addr)

		machine, err := sweepMachineOf(cfg, sem, addr, tp)
		if err != nil {
			t.Fatalf("document %d: building machine: %v", i, err)
		}

		result := aam.Run(program, machine, aam.RunOptions{})
		if result.TimedOut {
			t.Fatalf("document %d (%s/%s/%s): exploration timed out unexpectedly", i, cfg.Machine, cfg.Lattice, cfg.Scenario)
		}
		if len(result.FinalValues()) == 0 {
			t.Fatalf("document %d (%s/%s/%s): expected at least one final value, got none", i, cfg.Machine, cfg.Lattice, cfg.Scenario)
		}
	}
}
