package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nesdeck/nesdeck/internal/config"
	"github.com/nesdeck/nesdeck/internal/deck"
	"github.com/nesdeck/nesdeck/internal/input"
	"github.com/nesdeck/nesdeck/internal/ppu"
)

const (
	frameWidth  = 256
	frameHeight = 240
)

func newRunCommand() *cobra.Command {
	var romPath string
	var saveStatePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a ROM in the Ebitengine window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if romPath == "" {
				return fmt.Errorf("run: --rom is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runGame(cfg, romPath, saveStatePath)
		},
	}
	cmd.Flags().StringVar(&romPath, "rom", "", "path to an iNES ROM (.nes or .nes.gz)")
	cmd.Flags().StringVar(&saveStatePath, "load-state", "", "optional save-state file to load on startup")
	return cmd
}

func runGame(cfg *config.Config, romPath, saveStatePath string) error {
	d := deck.New(cfg.Audio.SampleRate)

	f, err := os.Open(romPath)
	if err != nil {
		return fmt.Errorf("open rom: %w", err)
	}
	loadErr := d.LoadROM(f)
	f.Close()
	if loadErr != nil {
		return fmt.Errorf("load rom: %w", loadErr)
	}

	batteryPath := cfg.BatteryPath(romPath)
	if data, err := os.ReadFile(batteryPath); err == nil {
		if err := d.LoadBatteryRAM(data); err != nil {
			log.Printf("battery RAM not restored: %v", err)
		}
	}

	if saveStatePath != "" {
		sf, err := os.Open(saveStatePath)
		if err != nil {
			return fmt.Errorf("open save state: %w", err)
		}
		err = d.LoadState(sf)
		sf.Close()
		if err != nil {
			return fmt.Errorf("load save state: %w", err)
		}
	}

	g := newGame(d, cfg)

	ebiten.SetWindowSize(frameWidth*cfg.Window.Scale, frameHeight*cfg.Window.Scale)
	ebiten.SetWindowTitle("nesdeck")
	ebiten.SetFullscreen(cfg.Window.Fullscreen)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return g.pacer(gctx)
	})
	group.Go(func() error {
		defer cancel()
		return ebiten.RunGame(g)
	})

	runErr := group.Wait()

	if battery := d.BatteryRAM(); battery != nil {
		if err := os.MkdirAll(cfg.Paths.SaveData, 0o755); err == nil {
			_ = os.WriteFile(batteryPath, battery, 0o644)
		}
	}

	if runErr != nil && runErr != context.Canceled {
		return runErr
	}
	return nil
}

// game implements ebiten.Game, translating keyboard/mouse polling into
// ControlDeck button/zapper calls and blitting its framebuffer and audio
// samples back out each tick.
type game struct {
	deck *deck.ControlDeck
	cfg  *config.Config

	screen   *ebiten.Image
	pixels   []byte
	audioCtx *audio.Context

	keys map[string]ebiten.Key
}

func newGame(d *deck.ControlDeck, cfg *config.Config) *game {
	g := &game{
		deck:   d,
		cfg:    cfg,
		screen: ebiten.NewImage(frameWidth, frameHeight),
		pixels: make([]byte, frameWidth*frameHeight*4),
		keys:   ebitenKeyByName(),
	}
	if cfg.Audio.Enabled {
		g.audioCtx = audio.NewContext(cfg.Audio.SampleRate)
		if player, err := g.audioCtx.NewPlayer(newSampleStream(d, cfg.Audio.Volume)); err == nil {
			player.Play()
		}
	}
	return g
}

// pacer's only job is to give errgroup a second goroutine to supervise
// alongside ebiten.RunGame, so a ctrl-C or host shutdown signal propagates
// through both; the actual frame cadence is driven by ebiten's own loop.
func (g *game) pacer(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (g *game) Update() error {
	g.pollButtons(1, g.cfg.Input.Player1)
	g.pollButtons(2, g.cfg.Input.Player2)
	g.pollZapper()
	g.deck.ClockFrame()
	return nil
}

func (g *game) pollButtons(slot int, km config.KeyMapping) {
	press := func(key string, button input.Button) {
		if k, ok := g.keys[key]; ok {
			g.deck.SetButton(slot, button, ebiten.IsKeyPressed(k))
		}
	}
	press(km.Up, input.ButtonUp)
	press(km.Down, input.ButtonDown)
	press(km.Left, input.ButtonLeft)
	press(km.Right, input.ButtonRight)
	press(km.A, input.ButtonA)
	press(km.B, input.ButtonB)
	press(km.Start, input.ButtonStart)
	press(km.Select, input.ButtonSelect)
}

// pollZapper maps the mouse cursor to port 2's light gun: position is
// sampled every frame, the left button pulls the trigger.
func (g *game) pollZapper() {
	x, y := ebiten.CursorPosition()
	if x < 0 || x >= frameWidth || y < 0 || y >= frameHeight {
		return
	}
	g.deck.AimZapper(2, x, y)
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.deck.TriggerZapper(2)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.deck.FrameBuffer()
	for i, idx := range fb {
		rgb := ppu.RGB(idx)
		o := i * 4
		g.pixels[o] = byte(rgb >> 16)
		g.pixels[o+1] = byte(rgb >> 8)
		g.pixels[o+2] = byte(rgb)
		g.pixels[o+3] = 0xff
	}
	g.screen.WritePixels(g.pixels)
	screen.DrawImage(g.screen, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return frameWidth, frameHeight
}

func ebitenKeyByName() map[string]ebiten.Key {
	return map[string]ebiten.Key{
		"Escape": ebiten.KeyEscape,
		"Enter":  ebiten.KeyEnter,
		"Space":  ebiten.KeySpace,

		"ArrowUp":    ebiten.KeyArrowUp,
		"ArrowDown":  ebiten.KeyArrowDown,
		"ArrowLeft":  ebiten.KeyArrowLeft,
		"ArrowRight": ebiten.KeyArrowRight,

		"W": ebiten.KeyW,
		"A": ebiten.KeyA,
		"S": ebiten.KeyS,
		"D": ebiten.KeyD,
		"J": ebiten.KeyJ,
		"K": ebiten.KeyK,
		"X": ebiten.KeyX,
		"Z": ebiten.KeyZ,

		"Digit1": ebiten.Key1,
		"Digit2": ebiten.Key2,
		"Digit3": ebiten.Key3,
		"Digit4": ebiten.Key4,
		"Digit5": ebiten.Key5,
		"Digit6": ebiten.Key6,
		"Digit7": ebiten.Key7,
		"Digit8": ebiten.Key8,
	}
}
