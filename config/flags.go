package config

import "gopkg.in/urfave/cli.v1"

const (
	DefaultDataDir         = "datadir"
	DatabaseDir            = "db"
	DatabaseName           = "indancechain"
	DefaultRpcHost         = "localhost"
	DefaultRpcPort         = 9010
	DefaultContractAddress = "0x00000000000000000000000000000000000d3c3e"
	DefaultTokenMode       = MintTokenMode
)

var (
	CfgFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "JSON configuration file",
	}
	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "datadir for ledger state",
	}
	RpcHostFlag = cli.StringFlag{
		Name:  "rpcaddr",
		Usage: "HTTP API listening address",
	}
	RpcPortFlag = cli.IntFlag{
		Name:  "rpcport",
		Usage: "HTTP API listening port",
	}
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Log verbosity (0 crit .. 4 debug)",
		Value: 3,
	}
	TokenModeFlag = cli.StringFlag{
		Name:  "tokenmode",
		Usage: "Reward token mode: mint (native mint/burn) or treasury (transfers against the contract treasury)",
	}
)
