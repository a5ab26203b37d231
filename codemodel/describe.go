// Copyright (C) 2026 GR Compiler Contributors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package codemodel

import (
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// Describe writes a human-readable text rendering of p to dst: one
// section per component (fields, memory, per-output step programs) and
// one per service (inputs/outputs/timers/handlers).
func (p *Project) Describe(dst io.Writer) error {
	for _, c := range p.Components {
		if err := describeComponent(dst, c); err != nil {
			return err
		}
	}
	for _, r := range p.Services {
		if err := describeRuntime(dst, r); err != nil {
			return err
		}
	}
	return nil
}

func describeComponent(dst io.Writer, c ComponentModel) error {
	if _, err := fmt.Fprintf(dst, "component %s {\n", c.Name); err != nil {
		return err
	}
	for _, f := range c.Input.Fields {
		fmt.Fprintf(dst, "  in %s: %s\n", f.Name, f.Type)
	}
	if c.Input.EventField != "" {
		fmt.Fprintf(dst, "  in event: %s\n", c.Input.EventField)
	}
	for _, f := range c.State.Memory {
		fmt.Fprintf(dst, "  mem %s: %s\n", f.Name, f.Type)
	}
	for _, step := range c.State.Step {
		fmt.Fprintf(dst, "  step %s (%s) <- %v {\n", step.ShortID, step.Output, step.Inputs)
		for _, s := range step.Statements {
			fmt.Fprintf(dst, "    %v = %v\n", s.Pattern, s.Expr)
		}
		fmt.Fprintf(dst, "  }\n")
	}
	_, err := fmt.Fprintf(dst, "}\n")
	return err
}

func describeRuntime(dst io.Writer, r Runtime) error {
	if _, err := fmt.Fprintf(dst, "service %s {\n", r.Name); err != nil {
		return err
	}
	for _, i := range r.Inputs {
		if i.Timer {
			fmt.Fprintf(dst, "  I::%s(Instant)\n", i.Name)
		} else {
			fmt.Fprintf(dst, "  I::%s(%s, Instant)\n", i.Name, i.Type)
		}
	}
	for _, o := range r.Outputs {
		fmt.Fprintf(dst, "  O::%s(%s, Instant)\n", o.Name, o.Type)
	}
	for _, tm := range r.Timers {
		fmt.Fprintf(dst, "  T::%s {duration=%dms, reset=%v}\n", tm.Name, tm.GetDuration, tm.DoReset)
	}
	for _, h := range r.Handlers {
		fmt.Fprintf(dst, "  on %s:\n", h.Flow)
		describeInstrs(dst, h.Body, "    ")
	}
	_, err := fmt.Fprintf(dst, "}\n")
	return err
}

func describeInstrs(dst io.Writer, body []InstrNode, indent string) {
	for _, n := range body {
		switch n.Kind {
		case "if_throttle":
			fmt.Fprintf(dst, "%sif_throttle(%s, %s) {\n", indent, n.Target, n.Source)
			describeInstrs(dst, n.Then, indent+"  ")
			fmt.Fprintf(dst, "%s}\n", indent)
		case "if_change":
			fmt.Fprintf(dst, "%sif_change(%s) {\n", indent, n.Source)
			describeInstrs(dst, n.Then, indent+"  ")
			fmt.Fprintf(dst, "%s} else {\n", indent)
			describeInstrs(dst, n.Else, indent+"  ")
			fmt.Fprintf(dst, "%s}\n", indent)
		default:
			fmt.Fprintf(dst, "%s%s %s %s\n", indent, n.Kind, n.Target, n.Component)
		}
	}
}

// Dump serializes p to YAML, a human-diffable text format suited to
// golden-file testing.
func (p *Project) Dump() ([]byte, error) {
	return yaml.Marshal(p)
}

// Load reverses Dump. Fields tagged json:"-" are not in the dump and
// come back empty.
func Load(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
