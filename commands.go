package main

import (
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"github.com/df07/go-progressive-pathtracer/web/server"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

func serve(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := scene.DefaultOptions()
	opts.MeshPath = ctx.String("mesh")
	opts.TexturePath = ctx.String("texture")

	return server.NewServer(ctx.Int("port"), opts).Start()
}

func listScenes(ctx *cli.Context) error {
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "Name", "Description"})
	for _, info := range scene.List() {
		table.Append([]string{info.ID, info.Name, info.Description})
	}
	table.Render()
	return nil
}

// hostInfo prints what the renderer has to work with. Probes that fail are
// reported as unknown.
func hostInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	model, clock := "unknown", "unknown"
	if infos, err := cpu.Info(); err != nil {
		logger.Warningf("could not read CPU info: %v", err)
	} else if len(infos) > 0 {
		model = infos[0].ModelName
		clock = fmt.Sprintf("%.0f MHz", infos[0].Mhz)
	}

	cores := "unknown"
	if n, err := cpu.Counts(true); err != nil {
		logger.Warningf("could not count CPUs: %v", err)
	} else {
		cores = fmt.Sprintf("%d", n)
	}

	memory := "unknown"
	if vm, err := mem.VirtualMemory(); err != nil {
		logger.Warningf("could not read memory info: %v", err)
	} else {
		memory = fmt.Sprintf("%.1f GiB", float64(vm.Total)/(1<<30))
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"CPU", "Clock", "Logical cores", "Memory"})
	table.Append([]string{model, clock, cores, memory})
	table.Render()
	return nil
}
