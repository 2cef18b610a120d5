package main

import (
	"github.com/idena-network/indance-go/config"
	"github.com/idena-network/indance-go/log"
	"github.com/idena-network/indance-go/node"
	"gopkg.in/urfave/cli.v1"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0"

func main() {
	app := cli.NewApp()
	app.Name = "indance"
	app.Usage = "dance floor progression ledger node"
	app.Version = version

	app.Flags = []cli.Flag{
		config.CfgFileFlag,
		config.DataDirFlag,
		config.RpcHostFlag,
		config.RpcPortFlag,
		config.VerbosityFlag,
		config.TokenModeFlag,
	}

	app.Action = func(context *cli.Context) error {
		log.Setup(context.Int(config.VerbosityFlag.Name), os.Stderr)

		cfg, err := config.MakeConfig(context)
		if err != nil {
			return err
		}

		n, err := node.NewNode(cfg)
		if err != nil {
			return err
		}
		if err := n.Start(); err != nil {
			return err
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			log.Info("Received signal, stopping", "signal", sig.String())
			n.Stop()
		}()
		n.Wait()
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("Node failed", "err", err)
	}
}
