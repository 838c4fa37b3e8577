package main

import (
	"flag"
	"image/color"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rotisserie/eris"
	"golang.org/x/image/font/basicfont"

	"github.com/1siamBot/voxel-engine/engine/audio"
	"github.com/1siamBot/voxel-engine/engine/core"
	"github.com/1siamBot/voxel-engine/engine/input"
	"github.com/1siamBot/voxel-engine/engine/render"
	"github.com/1siamBot/voxel-engine/engine/sandbox"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

// Game implements ebiten.Game interface
type Game struct {
	sb       *sandbox.Sandbox
	cam      *render.Camera
	renderer *render.IsoRenderer
	input    *input.InputState
	controls input.Controls
	face     *text.GoXFace
	log      *slog.Logger

	lastDraw    time.Time
	showGrid    bool
	showMinimap bool
	showDebug   bool
}

func NewGame(opts sandbox.Options) (*Game, error) {
	cam := render.NewCamera(ScreenWidth, ScreenHeight)
	sb, err := sandbox.New(opts, cam)
	if err != nil {
		return nil, err
	}
	g := &Game{
		sb:          sb,
		cam:         cam,
		renderer:    render.NewIsoRenderer(sb.Scene),
		input:       input.NewInputState(),
		controls:    input.DefaultControls(),
		face:        text.NewGoXFace(basicfont.Face7x13),
		log:         sb.Entities.Logger(),
		lastDraw:    time.Now(),
		showMinimap: true,
	}
	sb.Loop.Play()
	return g, nil
}

func (g *Game) Update() error {
	g.input.Update()
	if g.input.JustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.input.JustPressed(ebiten.KeyP) {
		if g.sb.Loop.State == core.StatePlaying {
			g.sb.Loop.Pause()
		} else {
			g.sb.Loop.Play()
		}
	}
	if g.input.JustPressed(ebiten.KeyF3) {
		g.showDebug = !g.showDebug
	}
	if g.input.JustPressed(ebiten.KeyG) {
		g.showGrid = !g.showGrid
	}
	if g.input.JustPressed(ebiten.KeyM) {
		g.showMinimap = !g.showMinimap
	}

	g.input.Apply(g.controls, g.cam, g.sb.Input)

	if _, err := g.sb.Loop.Update(); err != nil {
		if eris.Is(err, core.ErrFatalMisuse) {
			return err
		}
		g.log.Warn("tick failed", "err", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	now := time.Now()
	dt := now.Sub(g.lastDraw).Seconds()
	g.lastDraw = now
	if err := g.sb.Loop.Render(dt); err != nil {
		g.log.Warn("render pass failed", "err", err)
	}
	g.sb.Follow(g.cam)

	screen.Fill(color.RGBA{20, 20, 30, 255})
	g.renderer.DrawGround(screen, sandbox.MapSize, sandbox.MapSize)
	if g.showGrid {
		g.renderer.DrawGrid(screen, sandbox.MapSize, sandbox.MapSize)
	}
	g.renderer.DrawScene(screen)
	if g.showMinimap {
		g.renderer.DrawMinimap(screen, ScreenWidth-170, ScreenHeight-170, 160, sandbox.MapSize, sandbox.MapSize)
	}
	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	info := "Voxel sandbox | " + g.sb.Status() + "\n" +
		"[WASD] Move [Space] Jump [Scroll/+/-] Zoom [P] Pause [G] Grid [M] Map [F3] Debug [Esc] Quit"
	if g.showDebug {
		for _, name := range g.sb.Entities.ComponentNames(g.sb.Player) {
			info += "\n  " + name
		}
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.LineSpacing = 16
	text.Draw(screen, info, g.face, op)
}

// speakerSink plays effects through the ebiten audio context
type speakerSink struct {
	ctx *ebaudio.Context
}

func (s speakerSink) Play(pcm []byte) error {
	s.ctx.NewPlayerFromBytes(pcm).Play()
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func main() {
	configPath := flag.String("config", "", "JSON simulation config")
	catalogPath := flag.String("catalog", "", "JSON block catalog")
	mapPath := flag.String("map", "", "JSON voxel map")
	mute := flag.Bool("mute", false, "disable sound effects")
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
	if !*mute {
		opts.Audio = audio.NewManager(speakerSink{ctx: ebaudio.NewContext(int(audio.SampleRate))})
	}
	opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.Config.Level()}))

	game, err := NewGame(opts)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("Voxel Engine Sandbox")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
