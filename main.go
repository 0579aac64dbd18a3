package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/emberchain/ember/config"
	"github.com/emberchain/ember/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	app := cli.NewApp()
	app.Name = "ember"
	app.Usage = "Initialize and inspect the chain genesis state from streamed snapshots."
	app.Version = config.BuildVersion
	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "log",
			Aliases: []string{"l"},
			Value:   logger.INFO,
			Usage:   "the log level",
		},
		&cli.StringFlag{
			Name:  "filter",
			Usage: "the RE2 regex pattern to filter log",
		},
	}
	app.EnableBashCompletion = true
	app.Commands = []*cli.Command{
		{
			Name:   "load",
			Usage:  "Replay a snapshot into the genesis state storage",
			Action: loadCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "dir",
					Aliases: []string{"d"},
					Usage:   "the data directory",
				},
				&cli.StringFlag{
					Name:    "snapshot",
					Aliases: []string{"s"},
					Usage:   "the snapshot directory",
				},
				&cli.UintFlag{
					Name:  "height",
					Value: uint(config.GenesisBlockHeight),
					Usage: "the block height genesis outputs anchor to",
				},
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Usage:   "the concurrent category workers, defaults from config",
				},
				&cli.IntFlag{
					Name:  "size",
					Usage: "the row regrouping size, defaults to the snapshot metadata",
				},
			},
		},
		{
			Name:   "export",
			Usage:  "Stream the genesis state storage back out as a snapshot",
			Action: exportCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "dir",
					Aliases: []string{"d"},
					Usage:   "the data directory",
				},
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Usage:   "the snapshot output directory",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "chunked",
					Usage:   "the snapshot format, row or chunked",
				},
				&cli.IntFlag{
					Name:  "size",
					Usage: "the records per group, defaults from config",
				},
			},
		},
		{
			Name:   "roots",
			Usage:  "Print the genesis commitment roots",
			Action: rootsCmd,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "dir",
					Aliases: []string{"d"},
					Usage:   "the data directory",
				},
				&cli.BoolFlag{
					Name:  "contracts",
					Usage: "whether including the per contract roots",
				},
			},
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
	}
}
