package panel

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/arnac-io/multisig-panel/pkg/blockchain"
	"github.com/arnac-io/multisig-panel/pkg/core"
)

// parseAddress accepts a 20-byte hex address. Mixed-case input must carry a
// valid EIP-55 checksum.
func parseAddress(s, messageID string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, core.Validation(messageID, fmt.Sprintf("%q is not an address", s))
	}
	addr := common.HexToAddress(s)
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && addr.Hex()[2:] != body {
		return common.Address{}, core.Validation(messageID, fmt.Sprintf("%q has a bad checksum", s))
	}
	return addr, nil
}

func validateDeposit(form Form) (*big.Int, error) {
	value, err := blockchain.ParseEther(form[FieldValue])
	if err != nil || value.Sign() <= 0 {
		return nil, core.Validation("invalidDepositAmount", "deposit amount must be greater than 0")
	}
	return value, nil
}

type submission struct {
	to    common.Address
	value *big.Int
	data  []byte
}

func validateSubmit(form Form) (submission, error) {
	to, err := parseAddress(form[FieldTo], "invalidRecipient")
	if err != nil {
		return submission{}, err
	}
	value, err := blockchain.ParseEther(form[FieldValue])
	if err != nil || value.Sign() < 0 {
		return submission{}, core.Validation("invalidAmount", "amount must be a non-negative ether value")
	}
	data, err := parseData(form[FieldData])
	if err != nil {
		return submission{}, err
	}
	return submission{to: to, value: value, data: data}, nil
}

func parseData(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" {
		return []byte{}, nil
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, core.Validation("invalidData", "data must be 0x-prefixed hex")
	}
	return data, nil
}

func validateIndex(form Form) (uint64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(form[FieldTxIndex]), 10, 64)
	if err != nil || n < 0 {
		return 0, core.Validation("invalidIndex", "transaction index must be a non-negative integer")
	}
	return uint64(n), nil
}

func validateCheckOwner(form Form) (common.Address, error) {
	return parseAddress(form[FieldCheckAddress], "invalidAddress")
}

func validateInitialize(form Form) (core.WalletConfig, error) {
	parts := strings.Split(form[FieldOwners], ",")
	owners := make([]common.Address, 0, len(parts))
	seen := make(map[common.Address]struct{}, len(parts))
	for _, part := range parts {
		owner, err := parseAddress(part, "invalidOwners")
		if err != nil {
			return core.WalletConfig{}, err
		}
		if _, ok := seen[owner]; ok {
			return core.WalletConfig{}, core.Validation("duplicateOwner", owner.Hex()+" is listed twice").
				WithData(map[string]any{"Address": owner.Hex()})
		}
		seen[owner] = struct{}{}
		owners = append(owners, owner)
	}
	threshold, err := strconv.ParseInt(strings.TrimSpace(form[FieldThreshold]), 10, 64)
	if err != nil || threshold < 1 || threshold > int64(len(owners)) {
		return core.WalletConfig{}, core.Validation("invalidThreshold", fmt.Sprintf("threshold must be between 1 and %d", len(owners))).
			WithData(map[string]any{"Owners": len(owners)})
	}
	return core.WalletConfig{Owners: owners, Threshold: uint64(threshold)}, nil
}
