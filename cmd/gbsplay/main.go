package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/ujjwalsh/gbsplay/gbsplay/gbs"
	"github.com/ujjwalsh/gbsplay/gbsplay/pcm"
	"github.com/ujjwalsh/gbsplay/gbsplay/player"
	"github.com/ujjwalsh/gbsplay/gbsplay/timing"
	"github.com/ujjwalsh/gbsplay/gbsplay/tui"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbsplay"
	app.Description = "Play and render Game Boy Sound (GBS) files"
	app.Usage = "gbsplay [options] <gbs-file> [<subsong>]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "subsong",
			Usage: "Subsong index to play (1-based, default: the file's declared default)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "rate",
			Usage: "Output sample rate in Hz",
			Value: 44100,
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Write rendered audio to a WAV file instead of playing live",
		},
		cli.IntFlag{
			Name:  "duration",
			Usage: "Stop after this many seconds (0 = run until the driver never calls play again is not detected, so this is required for --out)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "mute",
			Usage: "Comma-separated channel numbers (1-4) to mute at startup",
		},
		cli.IntFlag{
			Name:  "solo",
			Usage: "Channel number (1-4) to solo at startup, silencing the others",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "tui",
			Usage: "Show a terminal now-playing status screen while playing live",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug-level logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbsplay failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if c.NArg() < 1 {
		cli.ShowAppHelp(c)
		return errors.New("no GBS file provided")
	}
	path := c.Args().Get(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	file, err := gbs.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	subsong := c.Int("subsong")
	if subsong == 0 && c.NArg() >= 2 {
		if n, err := strconv.Atoi(c.Args().Get(1)); err == nil {
			subsong = n
		} else {
			slog.Warn("ignoring non-numeric positional subsong argument", "value", c.Args().Get(1))
		}
	}
	if subsong == 0 {
		subsong = file.DefaultSubsong
	}

	sampleRate := c.Int("rate")
	outPath := c.String("out")

	slog.Info("loaded GBS file",
		"title", file.Title, "author", file.Author,
		"subsongs", file.SubsongCount, "subsong", subsong,
		"rate", sampleRate)

	if outPath != "" {
		return renderToFile(file, subsong, sampleRate, outPath, c)
	}
	return playLive(file, subsong, sampleRate, c)
}

func renderToFile(file *gbs.File, subsong, sampleRate int, outPath string, c *cli.Context) error {
	duration := c.Int("duration")
	if duration <= 0 {
		return errors.New("--out requires --duration (seconds) since GBS driver code never signals end of song")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	writer, err := pcm.NewWAVWriter(out, sampleRate)
	if err != nil {
		return fmt.Errorf("starting wav file: %w", err)
	}

	p, err := player.Load(file, subsong, sampleRate, writer)
	if err != nil {
		return fmt.Errorf("loading subsong %d: %w", subsong, err)
	}
	applyChannelFlags(p, c)
	p.SetLimiter(timing.NewNoOpLimiter())

	targetCycles := uint64(duration) * uint64(4194304)
	for p.TotalCycles() < targetCycles {
		if err := p.Step(); err != nil {
			return fmt.Errorf("running subsong %d: %w", subsong, err)
		}
	}
	p.Quit()
	p.APU().Flush()

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", outPath, err)
	}

	slog.Info("rendered wav file", "path", outPath, "duration_s", duration)
	return nil
}

func playLive(file *gbs.File, subsong, sampleRate int, c *cli.Context) error {
	sink, err := pcm.NewLiveSink(sampleRate)
	if err != nil {
		return fmt.Errorf("opening audio output: %w", err)
	}
	defer sink.Close()

	p, err := player.Load(file, subsong, sampleRate, sink)
	if err != nil {
		return fmt.Errorf("loading subsong %d: %w", subsong, err)
	}
	applyChannelFlags(p, c)

	chunkDuration := timing.ChunkDuration(4096, sampleRate)
	p.SetLimiter(timing.NewAdaptiveLimiter(chunkDuration))

	if duration := c.Int("duration"); duration > 0 {
		go func() {
			time.Sleep(time.Duration(duration) * time.Second)
			p.Quit()
		}()
	}

	if c.Bool("tui") {
		screen, err := tui.New(p)
		if err != nil {
			return fmt.Errorf("starting tui: %w", err)
		}
		go func() {
			if err := p.Run(); err != nil {
				slog.Error("player stopped", "error", err)
			}
			p.Quit()
		}()
		return screen.Run()
	}

	return p.Run()
}

func applyChannelFlags(p *player.Player, c *cli.Context) {
	if mute := c.String("mute"); mute != "" {
		for _, tok := range strings.Split(mute, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil || n < 1 || n > 4 {
				slog.Warn("ignoring invalid --mute channel", "value", tok)
				continue
			}
			p.APU().ToggleChannel(n, true)
		}
	}
	if solo := c.Int("solo"); solo >= 1 && solo <= 4 {
		p.APU().SoloChannel(solo)
	}
}
