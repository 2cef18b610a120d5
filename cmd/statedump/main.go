package main

import (
	"encoding/json"
	"github.com/idena-network/indance-go/common"
	"github.com/idena-network/indance-go/common/math"
	"github.com/idena-network/indance-go/config"
	"github.com/idena-network/indance-go/core/state"
	"github.com/idena-network/indance-go/database"
	"github.com/idena-network/indance-go/log"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/urfave/cli.v1"
	"os"
)

// Snapshot is the balance sheet of the ledger at the head block.
type Snapshot struct {
	Height   uint64             `json:"height"`
	Root     string             `json:"root"`
	Minted   decimal.Decimal    `json:"minted"`
	Burnt    decimal.Decimal    `json:"burnt"`
	Accounts []*SnapshotAccount `json:"accounts"`
}

type SnapshotAccount struct {
	Address  common.Address  `json:"address"`
	Balance  decimal.Decimal `json:"balance"`
	CodeHash *string         `json:"codeHash,omitempty"`
}

var outFlag = cli.StringFlag{
	Name:  "out",
	Usage: "output file",
	Value: "statedump.json",
}

func main() {
	app := cli.NewApp()
	app.Name = "statedump"
	app.Usage = "dump account balances of a stopped node"

	app.Flags = []cli.Flag{
		config.DataDirFlag,
		config.VerbosityFlag,
		outFlag,
	}

	app.Action = func(context *cli.Context) error {
		log.Setup(context.Int(config.VerbosityFlag.Name), os.Stderr)

		if !context.IsSet(config.DataDirFlag.Name) {
			return errors.New("datadir option is required")
		}

		cfg := &config.Config{DataDir: context.String(config.DataDirFlag.Name)}
		db, err := database.OpenDatabase(cfg.ResolvePath(config.DatabaseDir), config.DatabaseName, 16, 16)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := database.NewRepo(db)

		head := repo.ReadHead()
		if head == nil {
			return errors.New("head is not found")
		}
		stateDb, err := state.NewLazy(db)
		if err != nil {
			return err
		}
		if err := stateDb.LoadVersion(head.Height); err != nil {
			return err
		}

		snapshot := &Snapshot{
			Height: head.Height,
			Root:   head.Root.Hex(),
			Minted: math.BaseToCoins(stateDb.MintedCoins()),
			Burnt:  math.BaseToCoins(stateDb.BurntCoins()),
		}
		stateDb.IterateAccounts(func(addr common.Address, account *state.Account) bool {
			item := &SnapshotAccount{Address: addr, Balance: math.BaseToCoins(account.Balance)}
			if account.Contract != nil {
				hash := account.Contract.CodeHash.Hex()
				item.CodeHash = &hash
			}
			snapshot.Accounts = append(snapshot.Accounts, item)
			return false
		})

		file, err := os.Create(context.String(outFlag.Name))
		if err != nil {
			return err
		}
		defer file.Close()
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(snapshot); err != nil {
			return err
		}
		log.Info("State dumped", "height", head.Height, "accounts", len(snapshot.Accounts))
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
