package main

import (
	"os"

	"github.com/urfave/cli"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render scenes using progressive path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to a PNG file",
			Description: `
Build one of the built-in scenes, render it on the CPU and write the result as
a PNG image. Settings are taken from the scene, then from the optional JSON
config file, then from the command line flags.

In batch mode every pixel is traced spp times in a single pass. In progressive
mode one sample per pixel is added per pass; an interrupt stops the render
after the current pass and the image so far is still written.`,
			Flags:  renderFlags(),
			Action: renderScene,
		},
		{
			Name:  "serve",
			Usage: "serve progressive renders over HTTP",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:   "port",
					Value:  8080,
					Usage:  "port to serve on",
					EnvVar: "PATHTRACER_PORT",
				},
				cli.StringFlag{
					Name:  "mesh",
					Usage: "OBJ file for the mesh scene",
				},
				cli.StringFlag{
					Name:  "texture",
					Usage: "image file for the texture scene",
				},
			},
			Action: serve,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: listScenes,
		},
		{
			Name:   "info",
			Usage:  "show the host CPU and memory",
			Action: hostInfo,
		},
	}
	return app
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "scene, s",
			Value: "default",
			Usage: "scene to render (see the scenes command)",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "JSON file with scene, camera, render and progressive settings",
		},
		cli.StringFlag{
			Name:  "out, o",
			Usage: "image filename; defaults to output/<scene>/render_<timestamp>.png",
		},
		cli.StringFlag{
			Name:  "mode, m",
			Value: "batch",
			Usage: "batch or progressive",
		},
		cli.StringFlag{
			Name:  "partition, p",
			Value: "tiles",
			Usage: "how work is split between threads: tiles or rows",
		},
		cli.IntFlag{
			Name:   "threads, t",
			Usage:  "render threads (default 50); 0 uses every logical CPU",
			EnvVar: "PATHTRACER_WORKERS",
		},
		cli.IntFlag{
			Name:  "tile-size",
			Value: 32,
			Usage: "tile edge length in pixels",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "seed for the per-pixel random streams",
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "image width; the scene's aspect ratio is kept",
		},
		cli.IntFlag{
			Name:  "spp",
			Usage: "samples per pixel in batch mode",
		},
		cli.IntFlag{
			Name:  "depth",
			Usage: "maximum bounces per path",
		},
		cli.IntFlag{
			Name:  "passes",
			Usage: "number of passes in progressive mode",
		},
		cli.IntFlag{
			Name:  "checkpoint",
			Usage: "in progressive mode, also write the image every N passes",
		},
		cli.BoolFlag{
			Name:  "flat",
			Usage: "trace against a flat primitive list instead of a BVH",
		},
		cli.BoolFlag{
			Name:  "sequential-build",
			Usage: "build the BVH on a single goroutine",
		},
		cli.StringFlag{
			Name:  "mesh",
			Usage: "OBJ file for the mesh scene",
		},
		cli.StringFlag{
			Name:  "texture",
			Usage: "image file for the texture scene",
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
