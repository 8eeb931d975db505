package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// InstructionKind is the kind of asset operation an instruction performs.
type InstructionKind uint8

const (
	InstructionTransfer InstructionKind = iota
	InstructionMint
)

func (k InstructionKind) String() string {
	switch k {
	case InstructionTransfer:
		return "transfer"
	case InstructionMint:
		return "mint"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Instruction is a single asset operation of an atomic batch. Operator is the
// account acting on the asset: the owner itself, an approved spender or, for
// mints, the minter.
type Instruction struct {
	Kind     InstructionKind
	Standard Standard
	Contract common.Address
	Operator common.Address
	From     common.Address
	To       common.Address
	IDs      []*big.Int
	Amounts  []*big.Int
}

// TransferInstruction returns the instruction moving the given leg.
func TransferInstruction(
	leg AssetLeg, operator, from, to common.Address,
) Instruction {
	return Instruction{
		Kind:     InstructionTransfer,
		Standard: leg.Standard,
		Contract: leg.Contract,
		Operator: operator,
		From:     from,
		To:       to,
		IDs:      cloneInts(leg.IDs),
		Amounts:  cloneInts(leg.Amounts),
	}
}

// NativeTransferInstruction returns the instruction moving the given amount of
// native currency, the sender acting as operator.
func NativeTransferInstruction(from, to common.Address, amount *big.Int) Instruction {
	return TransferInstruction(NewNativeLeg(amount), from, from, to)
}

// MintInstruction returns the instruction minting the given leg.
func MintInstruction(leg AssetLeg, minter, to common.Address) Instruction {
	return Instruction{
		Kind:     InstructionMint,
		Standard: leg.Standard,
		Contract: leg.Contract,
		Operator: minter,
		To:       to,
		IDs:      cloneInts(leg.IDs),
		Amounts:  cloneInts(leg.Amounts),
	}
}

// Leg returns the asset leg moved by the instruction.
func (i Instruction) Leg() AssetLeg {
	return AssetLeg{
		Standard: i.Standard,
		Contract: i.Contract,
		IDs:      i.IDs,
		Amounts:  i.Amounts,
	}
}

// Validate statically checks the instruction before any execution.
func (i Instruction) Validate() error {
	if err := i.Leg().Validate(); err != nil {
		return err
	}
	if i.Operator == (common.Address{}) || i.To == (common.Address{}) {
		return fmt.Errorf("%w: missing operator or recipient", ErrInvalidLeg)
	}

	switch i.Kind {
	case InstructionTransfer:
		if i.From == (common.Address{}) {
			return fmt.Errorf("%w: missing sender", ErrInvalidLeg)
		}
	case InstructionMint:
		if i.Standard == Native {
			return fmt.Errorf("%w: native currency can't be minted", ErrInvalidLeg)
		}
	default:
		return fmt.Errorf("%w: unknown instruction kind %d", ErrInvalidLeg, i.Kind)
	}
	return nil
}

func (i Instruction) String() string {
	return fmt.Sprintf(
		"%s %s %s from %s to %s by %s",
		i.Kind, i.Standard, i.Contract.Hex(), i.From.Hex(), i.To.Hex(), i.Operator.Hex(),
	)
}
