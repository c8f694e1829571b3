// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/hybscloud/aam"
	"github.com/hybscloud/aam/internal/testlat"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := aam.ParseArgs(args)
	if err != nil {
		return reportErr(err)
	}
	if err := cfg.Validate(); err != nil {
		return reportErr(err)
	}

	logger, err := aam.NewLogger(cfg.Inspect)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return int(aam.ExitUnsupportedConfig)
	}
	defer logger.Sync() //nolint:errcheck

	program, ok := testlat.Build(cfg.Scenario)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q; available: %v\n", cfg.Scenario, testlat.Names())
		return int(aam.ExitInputError)
	}

	addrPolicy := addressPolicyOf(cfg.Address)
	timePolicy := timestampPolicyOf(cfg)
	sem := testlat.BuildSemantics(modeOf(cfg.Lattice), cfg.Bound, addrPolicy)

	machine, err := machineOf(cfg, sem, addrPolicy, timePolicy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return int(aam.ExitUnsupportedConfig)
	}

	result := aam.Run(program, machine, aam.RunOptions{
		Workers:     cfg.Workers,
		Timeout:     cfg.Timeout,
		Logger:      logger,
		Metrics:     aam.NewMetrics(nil),
		RecordGraph: cfg.DotFile != "",
	})

	report(cfg, result)

	if cfg.DotFile != "" {
		if err := writeDot(cfg.DotFile, result); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return int(aam.ExitUnsupportedConfig)
		}
	}

	if result.TimedOut {
		return int(aam.ExitTimeout)
	}
	return int(aam.ExitOK)
}

func reportErr(err error) int {
	fmt.Fprintln(os.Stderr, err)
	if ie, ok := err.(*aam.InfraError); ok {
		return int(ie.Code)
	}
	return int(aam.ExitInputError)
}

func report(cfg *aam.Config, result aam.Result) {
	fmt.Printf("scenario:       %s\n", cfg.Scenario)
	fmt.Printf("machine:        %s\n", cfg.Machine)
	fmt.Printf("lattice:        %s\n", cfg.Lattice)
	fmt.Printf("states explored: %d\n", result.NumberOfStates)
	fmt.Printf("elapsed:        %s\n", result.Time)
	fmt.Printf("timed out:      %v\n", result.TimedOut)
	fmt.Printf("final values:   %d\n", len(result.FinalValues()))
	if errs := result.Errors(); len(errs) > 0 {
		fmt.Println("reachable errors:")
		for _, e := range errs {
			fmt.Printf("  - %s\n", e.Error())
		}
	}
}

func writeDot(path string, result aam.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return aam.WriteDOT(f, result.Edges())
}

func modeOf(lattice string) testlat.Mode {
	switch lattice {
	case "TypeSet":
		return testlat.ModeTypeSet
	case "BoundedInt":
		return testlat.ModeBounded
	default: // Concrete, ConcreteNew
		return testlat.ModeConcrete
	}
}

func addressPolicyOf(address string) aam.AddressPolicy {
	if address == "ValueSensitive" {
		return aam.ValueSensitive{}
	}
	return aam.Classical{}
}

func timestampPolicyOf(cfg *aam.Config) aam.TimestampPolicy {
	if cfg.Machine == "ConcreteMachine" || cfg.Concrete {
		return aam.Concrete{}
	}
	return aam.KCFA{K: 0}
}

// defaultInternCapacity bounds AAM's structural store-interning cache
// (store.go's internTable). Large enough that a typical scenario sweep
// never evicts a live entry, small enough that a runaway exploration
// can't grow the cache without bound.
const defaultInternCapacity = 4096

// machineOf builds the selected machine variant. cfg.Counting is
// threaded into every variant's initial store except ConcreteMachine:
// its globally-unique timestamps already make every address a
// guaranteed single allocation, so Store.Extend's default join already
// behaves as a strong update there (see machine_concrete.go).
func machineOf(cfg *aam.Config, sem aam.Semantics, addrPolicy aam.AddressPolicy, timePolicy aam.TimestampPolicy) (aam.Machine, error) {
	switch cfg.Machine {
	case "AAM":
		return aam.NewAAMMachine(sem, addrPolicy, timePolicy, cfg.Counting, defaultInternCapacity), nil
	case "AAMGlobalStore":
		if cfg.Counting {
			return aam.NewAAMGlobalStoreMachineCounting(sem, addrPolicy, timePolicy), nil
		}
		return aam.NewAAMGlobalStoreMachine(sem, addrPolicy, timePolicy), nil
	case "Free":
		if cfg.Counting {
			return aam.NewFreeMachineCounting(sem, addrPolicy, timePolicy), nil
		}
		return aam.NewFreeMachine(sem, addrPolicy, timePolicy), nil
	case "ConcreteMachine":
		return aam.NewConcreteMachine(sem, addrPolicy), nil
	default:
		return nil, aam.NewInfraError(aam.ExitUnsupportedConfig, "unknown machine variant: "+cfg.Machine)
	}
}
