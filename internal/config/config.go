package config

import (
	"log"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-faster/errors"
)

type Config struct {
	API struct {
		Port int `env:"PORT" envDefault:"8081"`
		// ExplorerTxURL is a printf template receiving the transaction hash.
		ExplorerTxURL string `env:"EXPLORER_TX_URL" envDefault:"http://localhost:3000/blockexplorer/transaction/%s"`
	}
	App struct {
		LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`
		MetricsPort int    `env:"METRICS_PORT" envDefault:"9010"`
	}
	Chain struct {
		RPCURL     string `env:"RPC_URL"`
		PrivateKey string `env:"PRIVATE_KEY"`
		Contract   string `env:"CONTRACT_ADDRESS"`
	}
	Panel struct {
		// AutoConfirm lets execute confirm on behalf of the signer once
		// when the contract reports missing confirmations.
		AutoConfirm bool        `env:"AUTO_CONFIRM_ON_EXECUTE" envDefault:"true"`
		WatchOwners addressList `env:"WATCH_OWNERS"`
		Gas         GasLimits
	}
}

// GasLimits are the gas ceilings sent with each state-changing call.
type GasLimits struct {
	Deposit    uint64 `env:"GAS_LIMIT_DEPOSIT" envDefault:"100000"`
	Submit     uint64 `env:"GAS_LIMIT_SUBMIT" envDefault:"1000000"`
	Confirm    uint64 `env:"GAS_LIMIT_CONFIRM" envDefault:"1000000"`
	Revoke     uint64 `env:"GAS_LIMIT_REVOKE" envDefault:"1000000"`
	Execute    uint64 `env:"GAS_LIMIT_EXECUTE" envDefault:"5000000"`
	Initialize uint64 `env:"GAS_LIMIT_INITIALIZE" envDefault:"10000000"`
}

type addressList []common.Address

func parseAddressList(v string) (interface{}, error) {
	var addrs addressList
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !common.IsHexAddress(s) {
			return nil, errors.Errorf("invalid address %q", s)
		}
		addrs = append(addrs, common.HexToAddress(s))
	}
	return addrs, nil
}

// Parse reads the configuration from the environment.
func Parse() (Config, error) {
	var c Config
	err := env.ParseWithFuncs(&c, map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(addressList{}): parseAddressList,
	})
	if err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	return c, nil
}

func Load() Config {
	c, err := Parse()
	if err != nil {
		log.Panicf("[‼️  Config parsing failed] %+v\n", err)
	}
	return c
}
