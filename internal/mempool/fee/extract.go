package fee

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/klingon-exchange/rollupcore/internal/config"
)

// ExtractTransactionFee dispatches on backend to produce the (fee,
// cyclesLimit) pair used to build a FeeEntry for a transaction. Polyjuice is
// the one backend whose cycles limit is carried in the transaction itself
// rather than in cfg.
func ExtractTransactionFee(backend Backend, args []byte, cfg config.FeeConfig) (*uint256.Int, uint64, error) {
	switch backend {
	case BackendMeta:
		feeAmount, err := parseMetaArgs(args)
		if err != nil {
			return nil, 0, err
		}
		return feeAmount, cfg.MetaCyclesLimit, nil

	case BackendEthAddrReg:
		feeAmount, err := parseEthAddrRegArgs(args)
		if err != nil {
			return nil, 0, err
		}
		return feeAmount, cfg.EthAddrRegCyclesLimit, nil

	case BackendSudt:
		feeAmount, err := parseSudtArgs(args)
		if err != nil {
			return nil, 0, err
		}
		return feeAmount, cfg.SudtCyclesLimit, nil

	case BackendPolyjuice:
		gasPrice, gasLimit, err := parsePolyjuiceArgs(args)
		if err != nil {
			return nil, 0, err
		}
		return saturatingMul(gasPrice, new(uint256.Int).SetUint64(gasLimit)), gasLimit, nil

	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// ExtractWithdrawalFee returns the (fee, cyclesLimit) pair for a withdrawal
// request: the fee is carried directly on the withdrawal, and the cycles
// limit is a fixed configuration value.
func ExtractWithdrawalFee(rawFee *uint256.Int, cfg config.FeeConfig) (*uint256.Int, uint64) {
	return rawFee, cfg.WithdrawCyclesLimit
}
