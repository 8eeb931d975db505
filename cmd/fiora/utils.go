package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/mathutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

// nativeDecimals is the number of decimals of the native currency.
const nativeDecimals = 18

var (
	decimalsFlag = cli.IntFlag{
		Name:  "decimals",
		Usage: "the decimals the native amounts are expressed with, 0 for base units",
		Value: nativeDecimals,
	}
	authNonceFlag = cli.StringFlag{
		Name:  "auth_nonce",
		Usage: "the nonce of the authorization, required with --auth_sig",
	}
	authSigFlag = cli.StringFlag{
		Name:  "auth_sig",
		Usage: "the hex encoded signature authorizing the operation",
	}
)

// parseAmount converts the amount in whole units into a base unit integer
// string, as expected by the daemon.
func parseAmount(value string, decimals int) (string, error) {
	if value == "" {
		return "", nil
	}
	amount, err := mathutil.ParseUnits(value, int32(decimals))
	if err != nil {
		return "", err
	}
	return amount.String(), nil
}

// readTerms reads the json encoded terms of an offer from the given file.
func readTerms(path string) (api.OfferTerms, error) {
	terms := api.OfferTerms{}
	if err := readJSONFile(path, &terms); err != nil {
		return terms, err
	}
	return terms, nil
}

// readLegs reads a json encoded list of legs from the given file.
func readLegs(path string) ([]api.Leg, error) {
	var legs []api.Leg
	if err := readJSONFile(path, &legs); err != nil {
		return nil, err
	}
	return legs, nil
}

func readJSONFile(path string, v interface{}) error {
	if path == "" {
		return fmt.Errorf("missing file")
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("invalid file %s: %w", path, err)
	}
	return nil
}

// getAuthorization returns the authorization set with flags, if any.
func getAuthorization(ctx *cli.Context) (*api.Authorization, error) {
	sig := ctx.String(authSigFlag.Name)
	nonce := ctx.String(authNonceFlag.Name)
	if sig == "" && nonce == "" {
		return nil, nil
	}
	if sig == "" || nonce == "" {
		return nil, fmt.Errorf(
			"--%s and --%s must be set together", authSigFlag.Name, authNonceFlag.Name,
		)
	}
	if _, err := hex.DecodeString(strings.TrimPrefix(sig, "0x")); err != nil {
		return nil, fmt.Errorf("invalid signature encoding: %w", err)
	}
	return &api.Authorization{Nonce: nonce, Signature: sig}, nil
}

// toDomainLegs converts legs into their domain form, needed to derive the
// subject of a craft locally.
func toDomainLegs(legs []api.Leg) (domain.Legs, error) {
	out := make(domain.Legs, 0, len(legs))
	for i, l := range legs {
		standard, err := domain.ParseStandard(l.Standard)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		if l.Contract != "" && !common.IsHexAddress(l.Contract) {
			return nil, fmt.Errorf("leg %d: invalid contract %q", i, l.Contract)
		}
		ids, err := toIntegers(l.IDs)
		if err != nil {
			return nil, fmt.Errorf("leg %d: ids: %w", i, err)
		}
		amounts, err := toIntegers(l.Amounts)
		if err != nil {
			return nil, fmt.Errorf("leg %d: amounts: %w", i, err)
		}
		if len(ids) == 0 && (standard == domain.Native || standard == domain.Fungible) {
			ids = []*big.Int{big.NewInt(0)}
		}
		out = append(out, domain.AssetLeg{
			Standard:  standard,
			Contract:  common.HexToAddress(l.Contract),
			IDs:       ids,
			Amounts:   amounts,
			OriginTag: l.OriginTag,
		})
	}
	return out, nil
}

func toIntegers(values []string) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(values))
	for _, v := range values {
		n, err := mathutil.ParseInteger(v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
