package contracts

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/lmittmann/w3"
)

type (
	// Method encodes calldata for a contract function.
	Method interface {
		EncodeArgs(args ...any) ([]byte, error)
	}

	// ReadMethod additionally decodes return data of a view function.
	ReadMethod interface {
		Method
		DecodeReturns(output []byte, returns ...any) error
	}

	// ABIMethod adapts a go-ethereum ABI method, used where arguments are
	// tuples that are awkward to describe as a bare signature.
	ABIMethod struct {
		contract abi.ABI
		method   abi.Method
	}
)

func (m *ABIMethod) EncodeArgs(args ...any) ([]byte, error) {
	data, err := m.contract.Pack(m.method.Name, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", m.method.Sig, err)
	}
	return data, nil
}

// Inputs exposes the argument layout, used to decode calldata for display.
func (m *ABIMethod) Inputs() abi.Arguments {
	return m.method.Inputs
}

// Selector is the 4-byte function id.
func (m *ABIMethod) Selector() [4]byte {
	var id [4]byte
	copy(id[:], m.method.ID)
	return id
}

// Functions and events with simple argument lists are declared by signature.
var (
	FuncCreateContract = w3.MustNewFunc(
		"createContract(string,string,uint8,address,uint32)", "address",
	)
	FuncGetDeploymentFee = w3.MustNewFunc(
		"getDeploymentFee(uint8,uint32)", "uint256",
	)
	FuncSupportsInterface = w3.MustNewFunc(
		"supportsInterface(bytes4)", "bool",
	)
	FuncSetTransferValidator = w3.MustNewFunc(
		"setTransferValidator(address)", "",
	)
	FuncApplyListToCollection = w3.MustNewFunc(
		"applyListToCollection(address,uint120)", "",
	)
	FuncSetTransferable = w3.MustNewFunc(
		"setTransferable(bool)", "",
	)
	FuncSetupLocked = w3.MustNewFunc(
		"setupLocked()", "bool",
	)
	FuncSetCosigner = w3.MustNewFunc(
		"setCosigner(address)", "",
	)
	FuncDecimals = w3.MustNewFunc(
		"decimals()", "uint8",
	)

	EventNewContractInitialized = w3.MustNewEvent(
		"NewContractInitialized(address,address,uint32,uint8,string,string)",
	)
)

// CreatorTokenInterfaceID is the ERC-165 id of ICreatorToken, the capability
// that gates transfer validator wiring.
var CreatorTokenInterfaceID = [4]byte{0xad, 0x0d, 0x7f, 0x6c}
