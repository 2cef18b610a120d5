package config

import (
	"encoding/json"
	"github.com/idena-network/indance-go/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/urfave/cli.v1"
	"io/ioutil"
	"os"
	"path/filepath"
)

type Config struct {
	DataDir string
	RPC     *RpcConfig
	Game    *GameConfig
	Genesis *GenesisConf
}

type RpcConfig struct {
	HTTPHost    string
	HTTPPort    int
	CorsOrigins []string
}

type GenesisConf struct {
	ContractAddress common.Address
	// Treasury is the initial contract balance in coins, used by the treasury token mode.
	Treasury decimal.Decimal
	Alloc    map[common.Address]decimal.Decimal
}

func (c *Config) ResolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (c *Config) Validate() error {
	if c.RPC == nil || c.Game == nil || c.Genesis == nil {
		return errors.New("incomplete config")
	}
	if c.Genesis.ContractAddress.IsEmpty() {
		return errors.New("contract address is empty")
	}
	if c.Genesis.Treasury.IsNegative() {
		return errors.New("treasury must be non-negative")
	}
	for addr, amount := range c.Genesis.Alloc {
		if amount.IsNegative() {
			return errors.Errorf("alloc for %v must be non-negative", addr.Hex())
		}
	}
	return errors.Wrap(c.Game.Validate(), "invalid game config")
}

func MakeConfig(ctx *cli.Context) (*Config, error) {
	cfg := GetDefaultConfig()

	if file := ctx.String(CfgFileFlag.Name); file != "" {
		if err := loadConfig(file, cfg); err != nil {
			return nil, err
		}
	}

	applyFlags(ctx, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func GetDefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		RPC: &RpcConfig{
			HTTPHost:    DefaultRpcHost,
			HTTPPort:    DefaultRpcPort,
			CorsOrigins: []string{"*"},
		},
		Game: GetDefaultGameConfig(),
		Genesis: &GenesisConf{
			ContractAddress: common.HexToAddress(DefaultContractAddress),
			Treasury:        decimal.Zero,
			Alloc:           map[common.Address]decimal.Decimal{},
		},
	}
}

func applyFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.DataDir = ctx.String(DataDirFlag.Name)
	}

	applyRpcFlags(ctx, cfg)
	applyGameFlags(ctx, cfg)
}

func applyRpcFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(RpcHostFlag.Name) {
		cfg.RPC.HTTPHost = ctx.String(RpcHostFlag.Name)
	}
	if ctx.IsSet(RpcPortFlag.Name) {
		cfg.RPC.HTTPPort = ctx.Int(RpcPortFlag.Name)
	}
}

func applyGameFlags(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(TokenModeFlag.Name) {
		cfg.Game.TokenMode = TokenMode(ctx.String(TokenModeFlag.Name))
	}
}

func loadConfig(configPath string, conf *Config) error {
	if _, err := os.Stat(configPath); err != nil {
		return errors.Errorf("Config file cannot be found, path: %v", configPath)
	}

	if jsonFile, err := os.Open(configPath); err != nil {
		return errors.Errorf("Config file cannot be opened, path: %v", configPath)
	} else {
		defer jsonFile.Close()
		byteValue, _ := ioutil.ReadAll(jsonFile)
		err := json.Unmarshal(byteValue, &conf)
		if err != nil {
			return errors.Errorf("Cannot parse JSON config, path: %v, err: %v", configPath, err)
		}
		return nil
	}
}
