package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"

	"github.com/1siamBot/voxel-engine/engine/components"
	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/render"
	"github.com/1siamBot/voxel-engine/engine/render/term"
	"github.com/1siamBot/voxel-engine/engine/sandbox"
)

// terminals send no key release, so movement stops after this long without
// a repeat
const moveHold = 150 * time.Millisecond

// Game runs the sandbox in a terminal
type Game struct {
	screen   tcell.Screen
	sb       *sandbox.Sandbox
	cam      *render.Camera
	renderer *term.Renderer
	log      *slog.Logger

	move     mgl64.Vec3
	lastMove time.Time
	lastJump time.Time
	lastDraw time.Time
}

func NewGame(screen tcell.Screen, opts sandbox.Options) (*Game, error) {
	w, h := screen.Size()
	cam := render.NewCamera(w, h)
	sb, err := sandbox.New(opts, cam)
	if err != nil {
		return nil, err
	}
	g := &Game{
		screen:   screen,
		sb:       sb,
		cam:      cam,
		renderer: term.NewRenderer(screen, sb.Scene),
		log:      sb.Entities.Logger(),
		lastDraw: time.Now(),
	}
	sb.Loop.Play()
	return g, nil
}

// handleInput returns false when the game should quit
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.steer(0, -1)
		case tcell.KeyDown:
			g.steer(0, 1)
		case tcell.KeyLeft:
			g.steer(-1, 0)
		case tcell.KeyRight:
			g.steer(1, 0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'w':
				g.steer(0, -1)
			case 's':
				g.steer(0, 1)
			case 'a':
				g.steer(-1, 0)
			case 'd':
				g.steer(1, 0)
			case ' ':
				g.lastJump = time.Now()
			case '+', '=':
				g.cam.ZoomBy(-1)
			case '-':
				g.cam.ZoomBy(1)
			case 'p':
				if g.sb.Loop.State == core.StatePlaying {
					g.sb.Loop.Pause()
				} else {
					g.sb.Loop.Play()
				}
			}
		}
	case *tcell.EventResize:
		g.screen.Sync()
		g.cam.ScreenW, g.cam.ScreenH = g.screen.Size()
	}
	return true
}

func (g *Game) steer(dx, dz float64) {
	g.move = mgl64.Vec3{dx, 0, dz}
	g.lastMove = time.Now()
}

func (g *Game) update() error {
	if time.Since(g.lastMove) > moveHold {
		g.move = mgl64.Vec3{}
	}
	g.sb.Input.Current = components.Intent{
		Move: g.move,
		Jump: time.Since(g.lastJump) <= moveHold,
	}
	_, err := g.sb.Loop.Update()
	return err
}

func (g *Game) draw() {
	now := time.Now()
	if err := g.sb.Loop.Render(now.Sub(g.lastDraw).Seconds()); err != nil {
		g.log.Warn("render pass failed", "err", err)
	}
	g.lastDraw = now
	g.sb.Follow(g.cam)
	g.renderer.Draw()
	g.renderer.DrawHUD(g.sb.Status(), "[WASD/arrows] move [space] jump [+/-] zoom [p] pause [q] quit")
	g.renderer.Show()
}

func (g *Game) run() error {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return nil
			}
		case <-ticker.C:
			if err := g.update(); err != nil {
				if eris.Is(err, core.ErrFatalMisuse) {
					return err
				}
				g.log.Warn("tick failed", "err", err)
			}
			g.draw()
		}
	}
}

func main() {
	configPath := flag.String("config", "", "JSON simulation config")
	catalogPath := flag.String("catalog", "", "JSON block catalog")
	mapPath := flag.String("map", "", "JSON voxel map")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	opts := sandbox.DefaultOptions()
	if *configPath != "" {
		cfg, err := core.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		opts.Config = cfg
	}
	opts.Catalog = *catalogPath
	opts.Map = *mapPath
	// the terminal is the screen, so logs only go to a file
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		opts.Logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: opts.Config.Level()}))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	game, err := NewGame(screen, opts)
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}
	err = game.run()
	screen.Fini()
	if err != nil {
		log.Fatal(err)
	}
}
