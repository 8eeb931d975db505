package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/authsig"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/mathutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
)

var (
	keyFlag = cli.StringFlag{
		Name:     "key",
		Usage:    "the hex encoded private key of the signer",
		Required: true,
	}
	nonceFlag = cli.StringFlag{
		Name:     "nonce",
		Usage:    "the nonce of the authorization",
		Required: true,
	}
	chainIDFlag = cli.StringFlag{
		Name:  "chain_id",
		Usage: "the chain id, fetched from the daemon if not set",
	}
	verifierFlag = cli.StringFlag{
		Name:  "verifier",
		Usage: "the core address of the engine, fetched from the daemon if not set",
	}
)

var sign = cli.Command{
	Name:  "sign",
	Usage: "sign an authorization for an escrow operation",
	Subcommands: []*cli.Command{
		{
			Name:  "offer",
			Usage: "authorize creating, accepting or cancelling the offer with the given id",
			Flags: []cli.Flag{
				&keyFlag, &nonceFlag, &chainIDFlag, &verifierFlag,
				&cli.StringFlag{
					Name:     "action",
					Usage:    "the authorized action: create, accept or cancel",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "id",
					Usage:    "the id of the offer",
					Required: true,
				},
			},
			Action: signOfferAction,
		},
		{
			Name:  "craft",
			Usage: "authorize crafting the rewards listed in a json file",
			Flags: []cli.Flag{
				&keyFlag, &nonceFlag, &chainIDFlag, &verifierFlag,
				&cli.StringFlag{
					Name:     "reward_id",
					Usage:    "the id of the reward",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "recipient",
					Usage:    "the address receiving the rewards",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "rewards",
					Usage:    "the json file listing the reward legs",
					Required: true,
				},
			},
			Action: signCraftAction,
		},
	},
}

func signOfferAction(ctx *cli.Context) error {
	action, err := domain.ParseAction(ctx.String("action"))
	if err != nil {
		return err
	}
	if action == domain.ActionCraft {
		return fmt.Errorf("use 'sign craft' to authorize crafts")
	}
	id := ctx.String("id")
	if len(strings.TrimPrefix(id, "0x")) != 2*common.HashLength {
		return fmt.Errorf("invalid offer id %q", id)
	}
	return signAndPrint(ctx, action, common.HexToHash(id))
}

func signCraftAction(ctx *cli.Context) error {
	rewardID, err := mathutil.ParseInteger(ctx.String("reward_id"))
	if err != nil {
		return err
	}
	recipient := ctx.String("recipient")
	if !common.IsHexAddress(recipient) {
		return fmt.Errorf("invalid recipient address %q", recipient)
	}
	legs, err := readLegs(ctx.String("rewards"))
	if err != nil {
		return err
	}
	rewards, err := toDomainLegs(legs)
	if err != nil {
		return err
	}

	subject := domain.CraftSubject(
		rewardID, common.HexToAddress(recipient), rewards,
	)
	return signAndPrint(ctx, domain.ActionCraft, subject)
}

func signAndPrint(
	ctx *cli.Context, action domain.Action, subject common.Hash,
) error {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(ctx.String("key"), "0x"))
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}
	nonce, err := mathutil.ParseInteger(ctx.String("nonce"))
	if err != nil {
		return err
	}
	chainID, verifier, err := getDomain(ctx)
	if err != nil {
		return err
	}

	sig, err := authsig.Sign(key, string(action), chainID, verifier, subject, nonce)
	if err != nil {
		return err
	}

	printRespJSON(map[string]string{
		"signer":    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		"action":    string(action),
		"subject":   subject.Hex(),
		"nonce":     nonce.String(),
		"signature": "0x" + hex.EncodeToString(sig),
	})
	return nil
}

// getDomain returns the chain id and the verifier the authorization is
// bound to, from flags or from the daemon config.
func getDomain(ctx *cli.Context) (*big.Int, common.Address, error) {
	chainIDStr := ctx.String(chainIDFlag.Name)
	verifierStr := ctx.String(verifierFlag.Name)

	if chainIDStr == "" || verifierStr == "" {
		client, err := getClient()
		if err != nil {
			return nil, common.Address{}, err
		}
		cfg, err := client.Config(context.Background())
		if err != nil {
			return nil, common.Address{}, err
		}
		if chainIDStr == "" {
			chainIDStr = cfg.ChainID
		}
		if verifierStr == "" {
			verifierStr = cfg.CoreAddress
		}
	}

	chainID, err := mathutil.ParseInteger(chainIDStr)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("invalid chain id: %w", err)
	}
	if !common.IsHexAddress(verifierStr) {
		return nil, common.Address{}, fmt.Errorf("invalid verifier %q", verifierStr)
	}
	return chainID, common.HexToAddress(verifierStr), nil
}
