package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"

	"gochip8/pkg/beeper"
	"gochip8/pkg/beeper/player"
	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
	"gochip8/pkg/keymap"
	"gochip8/pkg/romloader"
)

// layoutScale is the logical pixel size; ebiten scales the result to the window.
const layoutScale = 4

// hostKeys are the ebiten keys in keymap.Layout order.
var hostKeys = [16]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyR,
	ebiten.KeyA, ebiten.KeyS, ebiten.KeyD, ebiten.KeyF,
	ebiten.KeyZ, ebiten.KeyX, ebiten.KeyC, ebiten.KeyV,
}

type Game struct {
	vm      *cpu.CPU
	logger  *log.Logger
	player  *player.Player // nil when no audio device is available
	opts    config.Options
	rom     []byte
	romName string

	displayImg *ebiten.Image // reused 64×32 canvas
	keypad     [16]int       // keypad index per hostKeys entry
	paused     bool
	status     string
}

func newGame(vm *cpu.CPU, logger *log.Logger, opts config.Options, rom []byte, romName string) *Game {
	g := &Game{
		vm:      vm,
		logger:  logger,
		opts:    opts,
		rom:     rom,
		romName: romName,
	}
	for i, r := range keymap.Layout {
		g.keypad[i], _ = keymap.Index(r)
	}
	return g
}

func (g *Game) Update() error {
	g.handleHotkeys()

	g.syncKeypad(ebiten.IsKeyPressed)

	if !g.paused {
		if err := g.vm.RunSteps(g.opts.StepsPerFrame()); err != nil {
			g.logger.Error("Execution stopped", log.Err(err))
			g.paused = true
			g.status = err.Error()
		}
	}

	if g.player != nil {
		g.player.SetActive(!g.paused && g.vm.SoundActive())
	}
	return nil
}

// syncKeypad copies the level of every host key into the keypad, so keys
// held across a reload stay pressed.
func (g *Game) syncKeypad(pressed func(ebiten.Key) bool) {
	for i, k := range hostKeys {
		if pressed(k) {
			_ = g.vm.SetKeyDown(g.keypad[i])
		} else {
			_ = g.vm.SetKeyUp(g.keypad[i])
		}
	}
}

func (g *Game) handleHotkeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := g.vm.LoadProgram(g.rom); err != nil {
			g.status = err.Error()
			return
		}
		g.paused = false
		g.status = ""
		g.logger.Info("Reloaded program", log.String("name", g.romName))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
		g.status = ""
		if g.paused {
			g.status = "paused"
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		name := fmt.Sprintf("%s-%s.png",
			strings.TrimSuffix(g.romName, filepath.Ext(g.romName)),
			time.Now().Format("20060102-150405"))
		if err := g.vm.SnapshotFramebuffer().SaveScreenshot(name, g.opts.Scale); err != nil {
			g.logger.Error("Saving screenshot failed", log.Err(err))
			return
		}
		g.logger.Info("Saved screenshot", log.String("file", name))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.displayImg == nil {
		g.displayImg = ebiten.NewImage(cpu.DisplayWidth, cpu.DisplayHeight)
	}

	fb := g.vm.SnapshotFramebuffer()
	g.displayImg.WritePixels(fb.RGBA(cpu.PixelOn, cpu.PixelOff))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(layoutScale, layoutScale)
	screen.DrawImage(g.displayImg, op)

	if g.status != "" {
		ebitenutil.DebugPrint(screen, g.status)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cpu.DisplayWidth * layoutScale, cpu.DisplayHeight * layoutScale
}

// pickROM asks for a ROM with the native file dialog.
func pickROM() (string, error) {
	exts := []string{"zip", "7z", "gz", "tgz", "rar"}
	for _, ext := range romloader.Extensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	return dialog.File().
		Filter("CHIP-8 ROMs", exts...).
		Title("Open ROM").
		Load()
}

func main() {
	opts := config.DefaultOptions()
	fs := flag.NewFlagSet("desktop", flag.ExitOnError)
	config.RegisterFlags(fs, &opts)
	_ = fs.Parse(os.Args[1:])

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err := opts.Validate(); err != nil {
		logger.Fatal("Invalid options", log.Err(err))
	}

	path := fs.Arg(0)
	if path == "" {
		var err error
		path, err = pickROM()
		if errors.Is(err, dialog.ErrCancelled) {
			return
		}
		if err != nil {
			logger.Fatal("Selecting ROM failed", log.Err(err))
		}
	}

	rom, name, err := romloader.Load(path, romloader.Extensions)
	if err != nil {
		logger.Fatal("Loading ROM failed", log.String("path", path), log.Err(err))
	}

	vm := cpu.NewCPU(opts.CPUOptions(logger)...)
	if err := vm.LoadProgram(rom); err != nil {
		logger.Fatal("Loading program failed", log.String("name", name), log.Err(err))
	}

	game := newGame(vm, logger, opts, rom, name)
	audio, err := player.New(beeper.DefaultFrequency, 0.5)
	if err != nil {
		logger.Error("Sound disabled", log.Err(err))
	} else {
		game.player = audio
		defer func() { _ = audio.Close() }()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cpu.DisplayWidth*opts.Scale, cpu.DisplayHeight*opts.Scale)
	ebiten.SetWindowTitle("gochip8 - " + name)
	ebiten.SetTPS(config.FrameRate)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("Game loop failed", log.Err(err))
	}
}
