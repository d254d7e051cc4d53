package fee

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// Backend identifies which VM backend a transaction's args were built for.
// The argument-union byte layouts these backends expect
// (MetaContractArgs/ETHAddrRegArgs/SUDTArgs in the system this is modeled
// on) are VM-backend payload formats that are otherwise out of scope here;
// this file defines just enough of each union's tag-dispatch shape to
// extract a fee, not the full VM type system.
type Backend string

const (
	BackendMeta       Backend = "meta"
	BackendEthAddrReg Backend = "eth_addr_reg"
	BackendSudt       Backend = "sudt"
	BackendPolyjuice  Backend = "polyjuice"
	BackendUnknown    Backend = "unknown"
)

// metaArgs tags, per the Meta contract's argument union.
const (
	metaTagCreateAccount         = 0
	metaTagBatchCreateEthAccount = 1
)

// parseMetaArgs reads the Fee field out of a Meta contract argument union.
// Both CreateAccount and BatchCreateEthAccounts carry their fee at the same
// offset; the tag only distinguishes the remainder of the payload, which
// this core never needs to interpret.
func parseMetaArgs(args []byte) (*uint256.Int, error) {
	if len(args) < 17 {
		return nil, fmt.Errorf("%w: meta args length %d", ErrDecode, len(args))
	}
	switch args[0] {
	case metaTagCreateAccount, metaTagBatchCreateEthAccount:
		return leBytesToUint256(args[1:17]), nil
	default:
		return nil, fmt.Errorf("%w: unknown meta args tag %d", ErrDecode, args[0])
	}
}

// ethAddrRegArgs tags, per the ETH address registry's argument union.
const (
	ethAddrRegTagSetMapping      = 0
	ethAddrRegTagBatchSetMapping = 1
	ethAddrRegTagEthToGw         = 2
	ethAddrRegTagGwToEth         = 3
)

// parseEthAddrRegArgs reads the Fee field out of an ETH address registry
// argument union. EthToGw/GwToEth queries carry no fee.
func parseEthAddrRegArgs(args []byte) (*uint256.Int, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%w: eth_addr_reg args length %d", ErrDecode, len(args))
	}
	switch args[0] {
	case ethAddrRegTagSetMapping, ethAddrRegTagBatchSetMapping:
		if len(args) < 17 {
			return nil, fmt.Errorf("%w: eth_addr_reg args length %d", ErrDecode, len(args))
		}
		return leBytesToUint256(args[1:17]), nil
	case ethAddrRegTagEthToGw, ethAddrRegTagGwToEth:
		return uint256.NewInt(0), nil
	default:
		return nil, fmt.Errorf("%w: unknown eth_addr_reg args tag %d", ErrDecode, args[0])
	}
}

// sudtArgs tags, per the simple UDT contract's argument union.
const (
	sudtTagTransfer = 0
	sudtTagQuery    = 1
)

// parseSudtArgs reads the Fee field out of a simple UDT argument union.
// SUDTQuery carries no fee.
func parseSudtArgs(args []byte) (*uint256.Int, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%w: sudt args length %d", ErrDecode, len(args))
	}
	switch args[0] {
	case sudtTagTransfer:
		if len(args) < 17 {
			return nil, fmt.Errorf("%w: sudt args length %d", ErrDecode, len(args))
		}
		return leBytesToUint256(args[1:17]), nil
	case sudtTagQuery:
		return uint256.NewInt(0), nil
	default:
		return nil, fmt.Errorf("%w: unknown sudt args tag %d", ErrDecode, args[0])
	}
}

// polyjuiceArgsMinLen is the minimum accepted Polyjuice args length. Gas
// limit is read from bytes 8..16 and gas price from bytes 16..32; shorter
// payloads are rejected even when those 32 bytes are present.
const polyjuiceArgsMinLen = 52

// parsePolyjuiceArgs reads gas price and gas limit out of a raw Polyjuice
// argument payload.
func parsePolyjuiceArgs(args []byte) (gasPrice *uint256.Int, gasLimit uint64, err error) {
	if len(args) < polyjuiceArgsMinLen {
		return nil, 0, fmt.Errorf("%w: %w: length %d, want at least %d", ErrDecode, ErrInvalidPolyjuiceArgs, len(args), polyjuiceArgsMinLen)
	}
	gasLimit = binary.LittleEndian.Uint64(args[8:16])
	gasPrice = leBytesToUint256(args[16:32])
	return gasPrice, gasLimit, nil
}

// leBytesToUint256 interprets b as a little-endian integer and returns it as
// a uint256.Int, whose SetBytes expects big-endian input.
func leBytesToUint256(b []byte) *uint256.Int {
	reversed := make([]byte, len(b))
	for i, v := range b {
		reversed[len(b)-1-i] = v
	}
	return new(uint256.Int).SetBytes(reversed)
}
