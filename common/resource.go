package common

import "fmt"

// Resource enumerates the record categories a genesis snapshot may
// contain. ContractsRoot is not a snapshot category, it names the final
// phase that recomputes per-contract roots from the loaded store.
type Resource uint8

const (
	ResourceCoins Resource = iota
	ResourceMessages
	ResourceContracts
	ResourceContractStates
	ResourceContractBalances
	ResourceContractsRoot
)

func (r Resource) String() string {
	switch r {
	case ResourceCoins:
		return "coins"
	case ResourceMessages:
		return "messages"
	case ResourceContracts:
		return "contracts"
	case ResourceContractStates:
		return "contract_states"
	case ResourceContractBalances:
		return "contract_balances"
	case ResourceContractsRoot:
		return "contracts_root"
	}
	panic(fmt.Errorf("invalid genesis resource %d", r))
}

// SnapshotResources lists the categories persisted in a snapshot, in
// their canonical order.
func SnapshotResources() []Resource {
	return []Resource{
		ResourceCoins,
		ResourceMessages,
		ResourceContracts,
		ResourceContractStates,
		ResourceContractBalances,
	}
}
