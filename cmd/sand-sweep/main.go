// Command sand-sweep runs one scene under a grid of physics settings and
// seeds, and ranks the outcomes.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"sandfall/internal/core"
	"sandfall/internal/grid"
	"sandfall/internal/material"
	"sandfall/internal/sim"
)

// sweepable is what a registered sim must offer to be ranked.
type sweepable interface {
	core.Sim
	Registry() *material.Registry
	Grid() *grid.Grid
	Stats() sim.Stats
	ActiveChunks() int
}

type paramSet struct {
	ignitionScale float64
	reactionScale float64
	flowBudget    int
	seed          int64
}

func (p paramSet) String() string {
	return fmt.Sprintf("ignition=%.2f reaction=%.2f flow=%d seed=%d",
		p.ignitionScale, p.reactionScale, p.flowBudget, p.seed)
}

type scenarioResult struct {
	params      paramSet
	tracked     int
	remaining   int
	burningPeak int
	activePeak  int
	settledAt   int
	elapsed     time.Duration
}

func (r scenarioResult) consumed() float64 {
	if r.tracked == 0 {
		return 0
	}
	return 1 - float64(r.remaining)/float64(r.tracked)
}

// kvList collects repeated key=value flags.
type kvList []string

func (l *kvList) String() string { return strings.Join(*l, ",") }

func (l *kvList) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("%q is not key=value", value)
	}
	*l = append(*l, value)
	return nil
}

func (l kvList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		k, v, _ := strings.Cut(kv, "=")
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

func main() {
	var overrides kvList
	flag.Var(&overrides, "set", "config override as key=value, e.g. dispersion.water=3 (repeatable)")
	simName := flag.String("sim", "sand", "registered simulation to sweep")
	steps := flag.Int("steps", 600, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	scene := flag.String("scene", "bonfire", "scene to run")
	track := flag.String("track", material.NameWood, "material whose consumption is ranked")
	seeds := flag.Int("seeds", 3, "seeds per parameter set")
	width := flag.Int("w", 160, "world width")
	height := flag.Int("h", 96, "world height")
	flag.Parse()

	base := overrides.Map()
	base["w"] = strconv.Itoa(*width)
	base["h"] = strconv.Itoa(*height)
	base["scene"] = *scene

	if _, err := core.Build(*simName, base); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v (available: %s)\n", err, strings.Join(core.Names(), ", "))
		os.Exit(1)
	}
	if _, err := material.Default().ByName(*track); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: track: %v\n", err)
		os.Exit(1)
	}

	ignitionOptions := []float64{0.5, 1, 2}
	reactionOptions := []float64{0.5, 1, 2}
	flowOptions := []int{4, 8, 16}

	var sets []paramSet
	for _, ign := range ignitionOptions {
		for _, rx := range reactionOptions {
			for _, flow := range flowOptions {
				for s := 1; s <= *seeds; s++ {
					sets = append(sets, paramSet{
						ignitionScale: ign,
						reactionScale: rx,
						flowBudget:    flow,
						seed:          int64(s),
					})
				}
			}
		}
	}

	fmt.Printf("Sweeping %d scenarios of %q (%d workers, %d steps)\n", len(sets), *scene, *workers, *steps)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				res, err := runScenario(*simName, base, params, *track, *steps)
				if err != nil {
					fmt.Fprintf(os.Stderr, "scenario %s: %v\n", params, err)
					continue
				}
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
		if res.settledAt >= 0 {
			fmt.Printf("Settled at tick %d with %s\n", res.settledAt, res.params)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].consumed() != all[j].consumed() {
			return all[i].consumed() > all[j].consumed()
		}
		return all[i].params.seed < all[j].params.seed
	})
	elapsed := time.Since(start)

	fmt.Printf("\nTop 5 by %s consumed (elapsed %s):\n", *track, elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < 5; i++ {
		res := all[i]
		fmt.Printf("%2d) consumed=%.1f%% burningPeak=%d activePeak=%d settled=%d run=%s params=%s\n",
			i+1, 100*res.consumed(), res.burningPeak, res.activePeak, res.settledAt, res.elapsed.Round(time.Millisecond), res.params)
	}
}

func runScenario(name string, base map[string]string, params paramSet, track string, steps int) (scenarioResult, error) {
	cfg := maps.Clone(base)
	cfg["ignition_scale"] = strconv.FormatFloat(params.ignitionScale, 'f', -1, 64)
	cfg["reaction_scale"] = strconv.FormatFloat(params.reactionScale, 'f', -1, 64)
	cfg["flow_budget"] = strconv.Itoa(params.flowBudget)

	built, err := core.Build(name, cfg)
	if err != nil {
		return scenarioResult{}, err
	}
	world, ok := built.(sweepable)
	if !ok {
		return scenarioResult{}, fmt.Errorf("sim %q does not report sweep statistics", name)
	}
	world.Reset(params.seed)
	id, err := world.Registry().ByName(track)
	if err != nil {
		return scenarioResult{}, err
	}

	res := scenarioResult{params: params, settledAt: -1}
	res.tracked = world.Grid().Count(id)

	start := time.Now()
	for step := 0; step < steps; step++ {
		world.Step()
		st := world.Stats()
		res.activePeak = max(res.activePeak, st.ActiveChunks)
		if burning := countBurning(world); burning > res.burningPeak {
			res.burningPeak = burning
		}
		if world.ActiveChunks() == 0 {
			res.settledAt = step + 1
			break
		}
	}
	res.elapsed = time.Since(start)
	res.remaining = world.Grid().Count(id)
	return res, nil
}

func countBurning(world core.Sim) int {
	n := 0
	for _, v := range world.Cells() {
		if v&sim.DisplayBurningBit != 0 {
			n++
		}
	}
	return n
}
