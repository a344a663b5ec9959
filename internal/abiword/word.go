package abiword

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

// WordSize is the width of one static ABI slot in bytes.
const WordSize = 32

var (
	// ErrNegative is returned when a negative value is offered to an unsigned slot.
	ErrNegative = errors.New("value is negative")
	// ErrOverflow is returned when a value does not fit in 256 bits.
	ErrOverflow = errors.New("value exceeds 2^256-1")
)

var uint256Args abi.Arguments

func init() {
	ty, err := abi.NewType("uint256", "", nil)
	if err != nil {
		panic(fmt.Sprintf("abiword: build uint256 type: %v", err))
	}
	uint256Args = abi.Arguments{{Type: ty}}
}

// EncodeUint256 packs v as the single-parameter tuple (uint256).
//
// The result is one 32-byte big-endian word, left-padded with zeros. The
// packer itself would silently wrap negative values into two's complement,
// so the range is checked here first.
func EncodeUint256(v *big.Int) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("nil value")
	}
	if v.Sign() < 0 {
		return nil, ErrNegative
	}
	if v.Cmp(math.MaxBig256) > 0 {
		return nil, ErrOverflow
	}

	packed, err := uint256Args.Pack(new(big.Int).Set(v))
	if err != nil {
		return nil, fmt.Errorf("pack uint256: %w", err)
	}
	if len(packed) != WordSize {
		return nil, fmt.Errorf("unexpected packed length %d", len(packed))
	}
	return packed, nil
}

// EncodeUint256Hex is EncodeUint256 rendered as 0x-prefixed lowercase hex.
func EncodeUint256Hex(v *big.Int) (string, error) {
	packed, err := EncodeUint256(v)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(packed), nil
}

// DecodeUint256Hex parses a 0x-prefixed ABI word back into an integer.
func DecodeUint256Hex(s string) (*big.Int, error) {
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex word '%s': %w", s, err)
	}
	if len(data) != WordSize {
		return nil, fmt.Errorf("expected %d bytes, got %d", WordSize, len(data))
	}

	values, err := uint256Args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack uint256: %w", err)
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected unpacked type %T", values[0])
	}
	return v, nil
}
