// Command sandterm shows a world in the terminal using half-block cells.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"sandfall/internal/config"
	"sandfall/internal/core"
	"sandfall/internal/logging"
	"sandfall/internal/material"
	"sandfall/internal/mutation"
	"sandfall/internal/render"
	"sandfall/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML settings file")
	seed := flag.Int64("seed", 0, "world seed (0 keeps the configured seed)")
	scene := flag.String("scene", "", "initial scene")
	tps := flag.Int("tps", 30, "ticks per second")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *scene != "" {
		cfg.World.Scene = *scene
	}
	// The terminal owns stdout and stderr while running.
	cfg.Logging.Level = "error"
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	world := sim.NewWithConfig(cfg.Sim(), sim.WithRegistry(reg), sim.WithLogger(log))
	world.Reset(cfg.World.Seed)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()
	defer screen.Fini()

	v := newViewer(world, screen, *tps)
	v.loop()
	return nil
}

type viewer struct {
	world   *sim.World
	screen  tcell.Screen
	palette []color.RGBA
	clock   *core.FixedStep

	materials []material.ID
	selected  int
	brush     mutation.Brush
	ox, oy    int
	paused    bool
	status    string
}

func newViewer(world *sim.World, screen tcell.Screen, tps int) *viewer {
	v := &viewer{
		world:   world,
		screen:  screen,
		palette: world.Palette(),
		clock:   core.NewFixedStep(tps),
		brush:   mutation.Brush{Shape: mutation.Circle, Size: 1},
	}
	all := world.Registry().All()
	for i := range all {
		if !all[i].IsEmpty() {
			v.materials = append(v.materials, all[i].ID)
		}
	}
	if sand, err := world.Registry().ByName(material.NameSand); err == nil {
		for i, id := range v.materials {
			if id == sand {
				v.selected = i
			}
		}
	}
	return v
}

func (v *viewer) loop() {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	frame := time.NewTicker(33 * time.Millisecond)
	defer frame.Stop()
	for {
		select {
		case ev := <-events:
			if !v.handle(ev) {
				return
			}
		case <-frame.C:
			n := v.clock.Due()
			for ; n > 0 && !v.paused; n-- {
				v.world.Step()
			}
			v.draw()
		}
	}
}

func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.ox -= 4
		case tcell.KeyRight:
			v.ox += 4
		case tcell.KeyUp:
			v.oy -= 4
		case tcell.KeyDown:
			v.oy += 4
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			case 'n':
				v.world.Step()
			case 'r':
				v.world.Reset(v.world.Seed())
			case 's':
				v.world.Reset(time.Now().UnixNano())
			case ']':
				v.selected = (v.selected + 1) % len(v.materials)
			case '[':
				v.selected = (v.selected + len(v.materials) - 1) % len(v.materials)
			case '+':
				v.brush.Size = min(v.brush.Size+1, mutation.MaxBrushSize)
			case '-':
				v.brush.Size = max(v.brush.Size-1, 0)
			}
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := v.ox+col, v.oy+2*row
		var err error
		switch ev.Buttons() {
		case tcell.Button1:
			err = v.world.Paint(v.brush, x, y, v.materials[v.selected])
		case tcell.Button2:
			err = v.world.Erase(v.brush, x, y)
		case tcell.Button3:
			err = v.world.Ignite(x, y)
		}
		if err != nil {
			v.status = err.Error()
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) draw() {
	cols, rows := v.screen.Size()
	if rows < 2 {
		return
	}
	size := v.world.Size()
	v.ox = min(max(v.ox, 0), max(size.W-cols, 0))
	v.oy = min(max(v.oy, 0), max(size.H-2*(rows-1), 0))

	render.DrawHalfBlocks(v.screen, v.world.Cells(), size, v.palette, v.ox, v.oy, cols, rows-1)

	st := v.world.Stats()
	name := v.world.Registry().MustLookup(v.materials[v.selected]).Name
	line := fmt.Sprintf(" %s  brush %d  tick %d  chunks %d  moves %d  %s",
		name, v.brush.Size, v.world.Tick(), st.ActiveChunks, st.Moves, v.status)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i := 0; i < cols; i++ {
		r := ' '
		if i < len(line) {
			r = rune(line[i])
		}
		v.screen.SetContent(i, rows-1, r, nil, style)
	}
	v.screen.Show()
}
