// This file is part of bolt - a toolchain for a small 32-bit virtual machine.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package linker resolves a set of assembled modules into a single
// core.Image: it solves cross-module symbol relocations and hatch
// references, discards modules no live code path reaches, and assigns
// the surviving modules their final segment ids.
package linker

import (
	"github.com/monti-tls/bolt/core"
	"github.com/monti-tls/bolt/isa"
	"github.com/monti-tls/bolt/module"
)

type provider struct {
	modIndex int
	offset   int
}

// Link resolves mods into a ready-to-run Image. Exactly one module must
// carry a `.entry` directive (ErrNoEntry / ErrMultipleEntry otherwise);
// modules unreachable from it are dropped rather than linked in.
func Link(mods []*module.Module, opts ...Option) (*core.Image, error) {
	cfg := newConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	entryIdx, err := findEntry(mods)
	if err != nil {
		return nil, err
	}

	providers, err := buildSymbolTable(mods)
	if err != nil {
		return nil, err
	}

	used, err := reachable(mods, providers, entryIdx)
	if err != nil {
		return nil, err
	}

	// Segment ids are assigned by walking modules in insertion order and
	// handing the next free id to each used module in turn (spec.md
	// §4.5 step 3); order of *discovery* during reachability has no
	// bearing on id assignment.
	var order []int
	segID := make([]int, len(mods))
	for i := range mods {
		if !used[i] {
			continue
		}
		segID[i] = len(order)
		order = append(order, i)
	}

	segments := make([]core.Segment, len(order))
	for id, modIndex := range order {
		m := mods[modIndex]
		code := make([]isa.Word, len(m.Segment))
		copy(code, m.Segment)
		segments[id] = core.Segment{Code: code, Entry: m.Entry}
	}

	for id, modIndex := range order {
		m := mods[modIndex]
		if err := applyRelocations(m, segments[id].Code, providers, segID); err != nil {
			return nil, err
		}
		if err := applyHatchReferences(m, segments[id].Code, cfg.hatchIdx); err != nil {
			return nil, err
		}
	}

	return &core.Image{
		StackSize: cfg.stackSize,
		HeapSize:  cfg.heapSize,
		Segments:  segments,
		Hatches:   append([]core.Hatch(nil), cfg.hatches...),
		Base:      segID[entryIdx],
	}, nil
}

func findEntry(mods []*module.Module) (int, error) {
	idx := -1
	for i, m := range mods {
		if !m.HasEntry {
			continue
		}
		if idx != -1 {
			return 0, wrapf(ErrMultipleEntry, "%q and %q both declare .entry", mods[idx].Name, m.Name)
		}
		idx = i
	}
	if idx == -1 {
		return 0, ErrNoEntry
	}
	return idx, nil
}

func buildSymbolTable(mods []*module.Module) (map[string]provider, error) {
	providers := make(map[string]provider)
	for i, m := range mods {
		for name, sym := range m.Symbols {
			if !sym.Exported || !sym.Defined {
				continue
			}
			if existing, ok := providers[name]; ok {
				return nil, wrapf(ErrMultipleDefinition, "%q defined in both %q and %q", name, mods[existing.modIndex].Name, m.Name)
			}
			providers[name] = provider{modIndex: i, offset: sym.Offset}
		}
	}
	return providers, nil
}

// reachable computes the fixed-point closure of modules reachable from
// entryIdx by following relocation references to their defining module.
// The returned set is unordered; segment id assignment (insertion order)
// is a separate pass over it.
func reachable(mods []*module.Module, providers map[string]provider, entryIdx int) (map[int]bool, error) {
	used := map[int]bool{entryIdx: true}
	queue := []int{entryIdx}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		m := mods[i]
		for name := range m.Relocations {
			p, ok := providers[name]
			if !ok {
				return nil, wrapf(ErrUnresolvedSymbol, "%q, referenced from %q", name, m.Name)
			}
			if !used[p.modIndex] {
				used[p.modIndex] = true
				queue = append(queue, p.modIndex)
			}
		}
	}
	return used, nil
}

func applyRelocations(m *module.Module, code []isa.Word, providers map[string]provider, segID []int) error {
	for name, slots := range m.Relocations {
		p, ok := providers[name]
		if !ok {
			return wrapf(ErrUnresolvedSymbol, "%q, referenced from %q", name, m.Name)
		}
		for _, slot := range slots {
			code[slot.SegSlot] = isa.Word(segID[p.modIndex])
			code[slot.LocSlot] = isa.Word(p.offset)
		}
	}
	return nil
}

func applyHatchReferences(m *module.Module, code []isa.Word, hatchIdx map[string]int) error {
	for name, ref := range m.HatchReferences {
		id, ok := hatchIdx[name]
		if !ok {
			return wrapf(ErrUnknownHatch, "%q, referenced from %q", name, m.Name)
		}
		for _, locSlot := range ref.LocSlots {
			code[locSlot] = isa.Word(id)
		}
	}
	return nil
}
