package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"allweather/internal/assets"
)

func BuyCall(updates [][]byte, weights assets.Weights) Call {
	var w [3]*big.Int
	for i, v := range weights {
		w[i] = new(big.Int).SetUint64(v)
	}
	return Call{Method: "buy", Args: []interface{}{updates, w}}
}

func SellCall(amount *big.Int, updates [][]byte) Call {
	return Call{Method: "sell", Args: []interface{}{amount, updates}}
}

func WithdrawCall(user common.Address, payout *big.Int) Call {
	return Call{Method: "withdraw", Args: []interface{}{user, payout}}
}

func UpdateAndGetPricesCall(updates [][]byte) Call {
	return Call{Method: "updateAndGetPrices", Args: []interface{}{updates}}
}

// TransferCall sends value to the contract's receive function.
func TransferCall() Call {
	return Call{}
}
