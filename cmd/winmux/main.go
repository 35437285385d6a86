// Command winmux is a multi-window drawing app. Every window hosts a
// freehand canvas or an image viewer; N spawns a drawing window, I an
// image window, Escape closes the focused one. The process exits when
// the last window closes.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"runtime"

	console "github.com/phsym/console-slog"

	"github.com/gogpu/winmux"
	"github.com/gogpu/winmux/backend"
	_ "github.com/gogpu/winmux/backend/headless"
	_ "github.com/gogpu/winmux/backend/wgpu"
	"github.com/gogpu/winmux/components"
)

func init() {
	// GLFW requires the main OS thread.
	runtime.LockOSThread()
}

func main() {
	var (
		title       = flag.String("title", "winmux", "window title")
		size        = flag.String("size", "1024x768", "initial window size, WxH in pixels")
		fps         = flag.Uint("fps", winmux.DefaultFPS, "target redraw rate")
		imagePath   = flag.String("image", "", "image shown by viewer windows (PNG or JPEG)")
		backendName = flag.String("backend", "", "platform backend (default: best available)")
		debug       = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{Level: level}))
	winmux.SetLogger(log)

	if err := run(*title, *size, *fps, *imagePath, *backendName); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(title, size string, fps uint, imagePath, backendName string) error {
	winSize, err := parseSize(size)
	if err != nil {
		return err
	}

	img, err := viewerImage(imagePath)
	if err != nil {
		return err
	}

	platform, err := selectBackend(backendName)
	if err != nil {
		return err
	}
	defer platform.Terminate()

	env, win, surface, err := winmux.Bootstrap(context.Background(), platform, winmux.WindowConfig{
		Title: title,
		Size:  winSize,
	})
	if err != nil {
		return err
	}

	var spawner winmux.Spawner
	spawner = func(env *winmux.Env, kind winmux.SpawnKind) (winmux.Layout, error) {
		childTitle := title + " - drawing"
		build := func(ctx *winmux.Context) (winmux.Component, error) {
			return components.NewCanvas(ctx)
		}
		if kind == winmux.SpawnImage {
			childTitle = title + " - image"
			build = func(ctx *winmux.Context) (winmux.Component, error) {
				return components.NewImageViewer(ctx, img)
			}
		}

		cw, err := env.Platform.CreateWindow(winmux.WindowConfig{Title: childTitle, Size: winSize})
		if err != nil {
			return nil, err
		}
		cs, err := env.Platform.CreateSurface(cw)
		if err != nil {
			cw.Destroy()
			return nil, err
		}
		l, err := winmux.NewDrawingWindow(env, cw, cs,
			winmux.WithComponentBuilders(build),
			winmux.WithSpawner(spawner))
		if err != nil {
			cs.Release()
			cw.Destroy()
			return nil, err
		}
		return l, nil
	}

	root, err := winmux.NewDrawingWindow(env, win, surface,
		winmux.WithComponentBuilders(func(ctx *winmux.Context) (winmux.Component, error) {
			return components.NewCanvas(ctx)
		}),
		winmux.WithSpawner(spawner))
	if err != nil {
		surface.Release()
		win.Destroy()
		return err
	}

	mux := winmux.NewMux(env, winmux.WithFPS(fps))
	mux.Adopt(root)
	mux.Limiter().ScheduleRedraw(win.ID())
	return mux.Run()
}

// selectBackend returns an initialized platform, by name when one was
// asked for, best-available otherwise.
func selectBackend(name string) (winmux.Platform, error) {
	if name == "" {
		return backend.InitDefault()
	}
	p := backend.Get(name)
	if p == nil {
		return nil, fmt.Errorf("unknown backend %q (available: %v)", name, backend.Available())
	}
	if err := p.Init(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseSize(s string) (winmux.Size, error) {
	var w, h uint32
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || w == 0 || h == 0 {
		return winmux.Size{}, fmt.Errorf("invalid size %q, want WxH", s)
	}
	return winmux.Size{W: w, H: h}, nil
}

// viewerImage loads the user's image, or builds a gradient placeholder
// when none was given.
func viewerImage(path string) (image.Image, error) {
	if path != "" {
		return components.LoadImage(path)
	}
	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 160, A: 255})
		}
	}
	return img, nil
}
