package token_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stake_gov/sdk"
	"stake_gov/token"
)

func TestHiveGateway(t *testing.T) {
	sdk.ResetHost(sdk.Env{ContractId: "contract:gov", Sender: sdk.Sender{Address: "hive:alice"}})
	g := token.NewHiveGateway("contract:gov")

	require.NoError(t, g.Transfer(nil, sdk.AssetHive, "hive:alice", "contract:gov", uint256.NewInt(25)))
	require.NoError(t, g.Transfer(nil, sdk.AssetHive, "contract:gov", "hive:alice", uint256.NewInt(5)))
	assert.Equal(t, []sdk.HostTransfer{
		{From: "hive:alice", To: "contract:gov", Amount: 25, Asset: sdk.AssetHive},
		{From: "contract:gov", To: "hive:alice", Amount: 5, Asset: sdk.AssetHive},
	}, sdk.HostTransfers())

	assert.ErrorIs(t, g.Transfer(nil, sdk.AssetHive, "hive:bob", "contract:gov", uint256.NewInt(1)), token.ErrUnsupportedTransfer)
	assert.ErrorIs(t, g.Transfer(nil, sdk.AssetHive, "hive:alice", "hive:bob", uint256.NewInt(1)), token.ErrUnsupportedTransfer)
	assert.ErrorIs(t, g.Transfer(nil, "gov", "hive:alice", "contract:gov", uint256.NewInt(1)), token.ErrUnsupportedTransfer)

	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 63)
	assert.ErrorIs(t, g.Transfer(nil, sdk.AssetHive, "hive:alice", "contract:gov", huge), token.ErrInvalidAmount)
	assert.Len(t, sdk.HostTransfers(), 2)
}
