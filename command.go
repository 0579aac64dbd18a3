package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/config"
	"github.com/emberchain/ember/genesis"
	"github.com/emberchain/ember/logger"
	"github.com/emberchain/ember/snapshot"
	"github.com/emberchain/ember/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
)

func loadCmd(c *cli.Context) error {
	logger.SetLevel(c.Int("log"))
	err := logger.SetFilter(c.String("filter"))
	if err != nil {
		return err
	}

	custom, err := config.Initialize(c.String("dir") + "/config.toml")
	if err != nil {
		return err
	}
	workers := c.Int("workers")
	if workers <= 0 {
		workers = custom.Loader.Workers
	}

	store, err := storage.NewBadgerStore(custom, c.String("dir"))
	if err != nil {
		return err
	}
	defer store.Close()

	decoder, err := openLoadDecoder(c.String("snapshot"), c.Int("size"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := genesis.NewWorkers(store, decoder, uint32(c.Uint("height")))
	bar := progressbar.NewOptions(len(common.SnapshotResources())+1,
		progressbar.OptionSetDescription("genesis"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	go func() {
		for res := range gw.Done() {
			logger.Verbosef("genesis %s replayed\n", res)
			bar.Add(1)
		}
	}()

	err = gw.Run(ctx, workers)
	bar.Finish()
	if genesis.Canceled(err) {
		logger.Printf("genesis load interrupted, rerun to resume\n")
		return nil
	}
	if err != nil {
		return err
	}

	return printRoots(store, false)
}

// openLoadDecoder keeps the group size recorded in the snapshot
// metadata unless the operator explicitly overrides it, otherwise a
// resumed run could regroup rows differently and misalign the persisted
// progress cursors.
func openLoadDecoder(dir string, size int) (*snapshot.Decoder, error) {
	decoder, err := snapshot.OpenDecoder(dir)
	if err != nil {
		return nil, err
	}
	if size > 0 {
		decoder = decoder.WithGroupSize(size)
	}
	return decoder, nil
}

func exportCmd(c *cli.Context) error {
	logger.SetLevel(c.Int("log"))

	custom, err := config.Initialize(c.String("dir") + "/config.toml")
	if err != nil {
		return err
	}
	format, err := snapshot.FormatFromString(c.String("format"))
	if err != nil {
		return err
	}
	size := c.Int("size")
	if size <= 0 {
		size = custom.Loader.GroupSize
	}

	store, err := storage.NewBadgerStore(custom, c.String("dir"))
	if err != nil {
		return err
	}
	defer store.Close()

	encoder, err := snapshot.NewEncoder(c.String("out"), format, size)
	if err != nil {
		return err
	}
	return genesis.Export(store, encoder)
}

func rootsCmd(c *cli.Context) error {
	custom, err := config.Initialize(c.String("dir") + "/config.toml")
	if err != nil {
		return err
	}
	store, err := storage.NewBadgerStore(custom, c.String("dir"))
	if err != nil {
		return err
	}
	defer store.Close()

	return printRoots(store, c.Bool("contracts"))
}

func printRoots(store *storage.BadgerStore, contracts bool) error {
	categories := append(common.SnapshotResources(), common.ResourceContractsRoot)
	for _, res := range categories {
		root, err := store.ReadResourceRoot(res)
		if err != nil {
			return err
		}
		fmt.Printf("%s:\t%s\n", res, root)
	}
	if !contracts {
		return nil
	}

	ids, err := store.ListContractIds()
	if err != nil {
		return err
	}
	for _, id := range ids {
		root, err := store.ReadContractRoot(id)
		if err != nil {
			return err
		}
		fmt.Printf("contract %s:\t%s\n", id, root)
	}
	return nil
}
