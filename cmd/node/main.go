package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli"

	"goledger/node"
)

func main() {
	app := cli.NewApp()
	app.Name = "goledger"
	app.Usage = "run a peer-to-peer proof-of-work ledger node"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "port, p",
			Usage:  "port the HTTP API listens on",
			EnvVar: "GOLEDGER_PORT",
		},
		cli.StringFlag{
			Name:   "addr, a",
			Usage:  "address advertised to peers (host:port)",
			EnvVar: "GOLEDGER_ADDR",
		},
		cli.StringSliceFlag{
			Name:  "peer",
			Usage: "seed peer address, repeatable",
		},
		cli.DurationFlag{
			Name:  "sync-interval",
			Usage: "period of the peer reconciliation loop",
		},
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "path to a TOML configuration file",
			EnvVar: "GOLEDGER_CONFIG",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	config := node.DefaultConfig()

	if path := c.String("config"); path != "" {
		loaded, err := node.LoadConfig(path)
		if err != nil {
			return err
		}
		config = loaded
	}

	// Flags override both defaults and the config file
	if port := c.String("port"); port != "" {
		config.Port = port
		config.Addr = "127.0.0.1:" + port
	}
	if addr := c.String("addr"); addr != "" {
		config.Addr = addr
	}
	if peers := c.StringSlice("peer"); len(peers) > 0 {
		config.SeedPeers = peers
	}
	if interval := c.Duration("sync-interval"); interval > 0 {
		config.SyncInterval = interval
	}
	if config.SyncInterval <= 0 {
		config.SyncInterval = 10 * time.Second
	}

	return node.New(config).Start()
}
