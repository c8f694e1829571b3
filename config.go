// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aam

import (
	"time"

	"github.com/alecthomas/kong"
	"sigs.k8s.io/yaml"
)

// Config is the configuration surface of spec.md §6, parseable either
// from CLI flags (via kong, for cmd/aam) or from a YAML document (via
// sigs.k8s.io/yaml, for batch sweeps and the kernel's own end-to-end
// scenario fixtures).
type Config struct {
	Machine  string        `kong:"short='m',help='machine variant',enum='AAM,AAMGlobalStore,Free,ConcreteMachine',default='AAM'" json:"machine"`
	Lattice  string        `kong:"short='l',help='lattice instance',enum='Concrete,ConcreteNew,TypeSet,BoundedInt',default='TypeSet'" json:"lattice"`
	Concrete bool          `kong:"short='c',help='force concrete semantics'" json:"concrete,omitempty"`
	Address  string        `kong:"short='a',help='address policy',enum='Classical,ValueSensitive',default='Classical'" json:"address"`
	File     string        `kong:"short='f',help='input program file',optional" json:"file,omitempty"`
	Scenario string        `kong:"short='s',help='built-in scenario name (see internal/testlat.Names)',optional" json:"scenario,omitempty"`
	DotFile  string        `kong:"short='d',help='emit state graph in DOT',optional" json:"dotfile,omitempty"`
	Timeout  time.Duration `kong:"short='t',help='wall-clock deadline',optional" json:"timeout,omitempty"`
	Bound    int           `kong:"short='b',help='bound for bounded lattice',default='100'" json:"bound,omitempty"`
	Inspect  bool          `kong:"short='i',help='enable inspection REPL'" json:"inspect,omitempty"`
	Counting bool          `kong:"name='counting',help='enable abstract counting'" json:"counting,omitempty"`
	Workers  int           `kong:"short='w',help='parallel driver workers',default='1'" json:"workers,omitempty"`
}

// ParseArgs parses argv into a Config using kong (spec.md §6 flag
// table). kong itself reports unknown-flag errors; Validate below
// covers the combinations kong's enum/type checks cannot express.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	parser, err := kong.New(cfg, kong.Name("aam"), kong.Description(
		"Abstracting Abstract Machine state-space exploration kernel."))
	if err != nil {
		return nil, WrapInfraError(ExitUnsupportedConfig, err, "building CLI parser")
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, WrapInfraError(ExitInputError, err, "parsing arguments")
	}
	return cfg, nil
}

// LoadConfigYAML parses a YAML document into a Config, for batch/CI
// sweeps and testdata/scenarios.yaml.
func LoadConfigYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, WrapInfraError(ExitInputError, err, "parsing YAML config")
	}
	return cfg, nil
}

// Validate rejects unsupported configuration combinations before
// exploration starts (spec.md §6 exit code 3; §7 "unsupported
// lattice/machine combination... terminate with a non-zero exit
// code").
func (c *Config) Validate() error {
	switch c.Machine {
	case "AAM", "AAMGlobalStore", "Free", "ConcreteMachine":
	default:
		return NewInfraError(ExitUnsupportedConfig, "unknown machine variant: "+c.Machine)
	}
	switch c.Lattice {
	case "Concrete", "ConcreteNew", "TypeSet", "BoundedInt":
	default:
		return NewInfraError(ExitUnsupportedConfig, "unknown lattice instance: "+c.Lattice)
	}
	switch c.Address {
	case "Classical", "ValueSensitive":
	default:
		return NewInfraError(ExitUnsupportedConfig, "unknown address policy: "+c.Address)
	}
	if c.Machine == "ConcreteMachine" && c.Lattice != "Concrete" && c.Lattice != "ConcreteNew" {
		return NewInfraError(ExitUnsupportedConfig, "ConcreteMachine requires a concrete lattice")
	}
	if c.Concrete && c.Machine != "ConcreteMachine" {
		return NewInfraError(ExitUnsupportedConfig, "-c/--concrete requires -m ConcreteMachine")
	}
	if c.Workers < 0 {
		return NewInfraError(ExitUnsupportedConfig, "--workers must be >= 0")
	}
	if c.Bound <= 0 && c.Lattice == "BoundedInt" {
		return NewInfraError(ExitUnsupportedConfig, "--bound must be positive for BoundedInt")
	}
	if c.File != "" {
		return NewInfraError(ExitUnsupportedConfig, "-f/--file: parsing source text into a program is out of scope; use -s/--scenario to select a built-in program")
	}
	if c.Scenario == "" {
		return NewInfraError(ExitUnsupportedConfig, "-s/--scenario is required (no input file front-end is wired)")
	}
	return nil
}
