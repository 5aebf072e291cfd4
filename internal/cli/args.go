package cli

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"allweather/internal/units"
	"allweather/internal/workflow"
)

// requireArgs names the positional arguments so a missing one reads as usage help.
func requireArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < len(names) {
			return workflow.Invalid("missing required argument <%s>\nUsage: %s", names[len(args)], cmd.UseLine())
		}
		return nil
	}
}

func rangeArgs(names []string, most int) cobra.PositionalArgs {
	required := requireArgs(names...)
	return func(cmd *cobra.Command, args []string) error {
		if err := required(cmd, args); err != nil {
			return err
		}
		if len(args) > most {
			return workflow.Invalid("too many arguments\nUsage: %s", cmd.UseLine())
		}
		return nil
	}
}

func maxArgs(most int) cobra.PositionalArgs {
	return rangeArgs(nil, most)
}

func parseAmount(name, s string) (*big.Int, error) {
	v, err := units.ParseEther(s)
	if err != nil {
		return nil, workflow.Invalid("%s: %v", name, err)
	}
	if v.Sign() == 0 {
		return nil, workflow.Invalid("%s must be greater than zero", name)
	}
	return v, nil
}

func parseAddress(name, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, workflow.Invalid("%s %q is not a valid address", name, s)
	}
	return common.HexToAddress(s), nil
}
