// Package scene builds the initial contents of a world from named presets.
package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aquilax/go-perlin"

	"sandfall/internal/core"
	"sandfall/internal/material"
)

var ErrUnknownScene = errors.New("unknown scene")

// Canvas is the write surface a scene paints onto.
type Canvas interface {
	Size() core.Size
	Fill(x, y int, id material.ID)
}

// Builder paints a scene. It draws randomness only from rng.
type Builder func(c Canvas, reg *material.Registry, rng *core.RNG) error

var scenes = map[string]Builder{
	"empty":     func(Canvas, *material.Registry, *core.RNG) error { return nil },
	"sandbox":   sandbox,
	"dunes":     dunes,
	"hourglass": hourglass,
	"bonfire":   bonfire,
}

// Register adds a scene under name, replacing any previous one.
func Register(name string, b Builder) {
	if name == "" || b == nil {
		return
	}
	scenes[name] = b
}

// Names lists the registered scenes in lexical order.
func Names() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build paints the named scene onto c. The same seed always produces the
// same scene.
func Build(name string, c Canvas, reg *material.Registry, seed int64) error {
	b, ok := scenes[name]
	if !ok {
		return fmt.Errorf("scene %q: %w", name, ErrUnknownScene)
	}
	return b(c, reg, core.NewRNG(seed))
}

type painter struct {
	c   Canvas
	reg *material.Registry
	err error
}

func (p *painter) id(name string) material.ID {
	id, err := p.reg.ByName(name)
	if err != nil && p.err == nil {
		p.err = err
	}
	return id
}

func (p *painter) rect(x0, y0, x1, y1 int, id material.ID) {
	if p.err != nil {
		return
	}
	size := p.c.Size()
	for y := max(y0, 0); y < min(y1, size.H); y++ {
		for x := max(x0, 0); x < min(x1, size.W); x++ {
			p.c.Fill(x, y, id)
		}
	}
}

// heights samples a Perlin ridge line, one value per column in [lo, hi].
func heights(w int, lo, hi float64, rng *core.RNG) []int {
	noise := perlin.NewPerlin(2, 2, 3, int64(rng.Source().Uint64()>>1))
	out := make([]int, w)
	for x := range out {
		v := min(max((noise.Noise2D(float64(x)/64, 0.5)+1)/2, 0), 1)
		out[x] = int(lo + v*(hi-lo))
	}
	return out
}

func dunes(c Canvas, reg *material.Registry, rng *core.RNG) error {
	p := &painter{c: c, reg: reg}
	sand, stone := p.id(material.NameSand), p.id(material.NameStone)
	size := c.Size()
	bedrock := heights(size.W, float64(size.H)*0.05, float64(size.H)*0.15, rng)
	crest := heights(size.W, float64(size.H)*0.15, float64(size.H)*0.4, rng)
	for x := 0; x < size.W; x++ {
		p.rect(x, size.H-bedrock[x], x+1, size.H, stone)
		p.rect(x, size.H-bedrock[x]-crest[x], x+1, size.H-bedrock[x], sand)
	}
	return p.err
}

func sandbox(c Canvas, reg *material.Registry, rng *core.RNG) error {
	if err := dunes(c, reg, rng); err != nil {
		return err
	}
	p := &painter{c: c, reg: reg}
	size := c.Size()
	w, h := size.W, size.H

	p.rect(w/8, h/3, w/8+w/5, h/3+2, p.id(material.NameWood))
	p.rect(w/8+2, h/3-6, w/8+w/5-2, h/3, p.id(material.NameDust))
	p.rect(w/2, h/4, w/2+w/6, h/4+1, p.id(material.NameWall))
	p.rect(w/2+2, h/4-10, w/2+w/6-2, h/4, p.id(material.NameWater))
	p.rect(w-w/6, 2, w-w/6+3, 3, p.id(material.NameWaterSource))
	for i := 0; i < w/4; i++ {
		x := rng.IntN(w)
		y := rng.IntN(max(h/5, 1))
		p.rect(x, y, x+1, y+1, p.id(material.NameSalt))
	}
	return p.err
}

func hourglass(c Canvas, reg *material.Registry, _ *core.RNG) error {
	p := &painter{c: c, reg: reg}
	wall, sand := p.id(material.NameWall), p.id(material.NameSand)
	size := c.Size()
	cx, cy := size.W/2, size.H/2
	half := min(size.W, size.H) / 3
	for d := 0; d <= half; d++ {
		gap := max(half-d, 1)
		p.rect(cx-gap-1, cy-d, cx-gap, cy-d+1, wall)
		p.rect(cx+gap, cy-d, cx+gap+1, cy-d+1, wall)
		p.rect(cx-gap-1, cy+d, cx-gap, cy+d+1, wall)
		p.rect(cx+gap, cy+d, cx+gap+1, cy+d+1, wall)
		if d > half/3 {
			p.rect(cx-gap, cy-d, cx+gap, cy-d+1, sand)
		}
	}
	return p.err
}

func bonfire(c Canvas, reg *material.Registry, _ *core.RNG) error {
	p := &painter{c: c, reg: reg}
	size := c.Size()
	w, h := size.W, size.H
	p.rect(0, h-4, w, h, p.id(material.NameStone))
	p.rect(w/2-w/8, h-12, w/2+w/8, h-4, p.id(material.NameWood))
	p.rect(w/2-1, h-14, w/2+2, h-12, p.id(material.NameFire))
	p.rect(w/6, h-10, w/6+6, h-4, p.id(material.NameGasoline))
	p.rect(w/6-1, h-11, w/6, h-4, p.id(material.NameWall))
	p.rect(w/6+6, h-11, w/6+7, h-4, p.id(material.NameWall))
	p.rect(w-w/5, h/6, w-w/5+2, h/6+1, p.id(material.NameWaterSource))
	return p.err
}
