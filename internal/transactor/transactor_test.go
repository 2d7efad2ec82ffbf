package transactor

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want errorClass
	}{
		{errors.New("max fee per gas less than block base fee: have 1, want 2"), classRetryBaseFee},
		{errors.New("insufficient funds for gas * price + value"), classInsufficientFunds},
		{errors.New("execution reverted: custom error"), classFatal},
	}
	for _, c := range cases {
		require.Equal(t, c.want, classify(c.err))
	}
}

func TestNewDerivesFromAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hex.EncodeToString(crypto.FromECDSA(key))

	tr, err := New(nil, "0x"+hexKey)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), tr.From())

	tr2, err := New(nil, hexKey)
	require.NoError(t, err)
	require.Equal(t, tr.From(), tr2.From())
}

func TestNewRejectsMalformedKey(t *testing.T) {
	_, err := New(nil, "not-hex")
	require.Error(t, err)
}
