package contracts

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivateKeySignerAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	for _, prefix := range []string{"", "0x"} {
		signer, err := NewPrivateKeySigner(prefix + common.Bytes2Hex(crypto.FromECDSA(key)))
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), signer.Address())
	}

	_, err = NewPrivateKeySigner("0xzz")
	require.Error(t, err)
}

func TestKeystoreSignerSigns(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(key, "hunter2")
	require.NoError(t, err)

	_, err = NewKeystoreSigner(account.URL.Path, "wrong")
	require.Error(t, err)

	signer, err := NewKeystoreSigner(account.URL.Path, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, account.Address, signer.Address())

	chainID := big.NewInt(8453)
	tx := types.NewTx(&types.DynamicFeeTx{ChainID: chainID, Nonce: 1, Gas: 21000, GasFeeCap: big.NewInt(2), GasTipCap: big.NewInt(1), To: &common.Address{1}})
	signed, err := signer.SignTx(context.Background(), tx, chainID)
	require.NoError(t, err)

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, account.Address, from)
}
