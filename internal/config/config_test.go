package config

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Setenv("RPC_URL", "http://localhost:8547")
	t.Setenv("CONTRACT_ADDRESS", "0x85bd1a76e588e2539fd450afd6255806e7026049")
	t.Setenv("WATCH_OWNERS", "0xa6e41ffd769491a42a6e5ce453259b93983a22ef, 0x85bd1a76e588e2539fd450afd6255806e7026049")
	t.Setenv("GAS_LIMIT_EXECUTE", "6000000")

	c, err := Parse()
	require.Nil(t, err)
	require.Equal(t, 8081, c.API.Port)
	require.Equal(t, "INFO", c.App.LogLevel)
	require.Equal(t, "http://localhost:8547", c.Chain.RPCURL)
	require.Empty(t, c.Chain.PrivateKey)
	require.True(t, c.Panel.AutoConfirm)
	require.Equal(t, uint64(6_000_000), c.Panel.Gas.Execute)
	require.Equal(t, uint64(1_000_000), c.Panel.Gas.Confirm)
	require.Equal(t, uint64(10_000_000), c.Panel.Gas.Initialize)
	require.Equal(t, addressList{
		common.HexToAddress("0xa6e41ffd769491a42a6e5ce453259b93983a22ef"),
		common.HexToAddress("0x85bd1a76e588e2539fd450afd6255806e7026049"),
	}, c.Panel.WatchOwners)
}

func TestParse_InvalidWatchOwner(t *testing.T) {
	t.Setenv("WATCH_OWNERS", "0x1234")
	_, err := Parse()
	require.NotNil(t, err)
}
