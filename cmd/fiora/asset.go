package main

import (
	"context"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/urfave/cli/v2"
)

var asset = cli.Command{
	Name:  "asset",
	Usage: "approve spenders and inspect balances",
	Subcommands: []*cli.Command{
		{
			Name:  "approve",
			Usage: "allow the spender, usually an escrow address, to move the caller's tokens",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "contract",
					Usage:    "the token contract",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "spender",
					Usage:    "the approved address",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "amount",
					Usage: "the allowance in base units, for fungible tokens",
				},
				&cli.StringFlag{
					Name:  "id",
					Usage: "the approved token id, for non-fungible tokens",
				},
				&cli.BoolFlag{
					Name:  "all",
					Usage: "approve the spender for all the tokens of the contract",
				},
				&cli.BoolFlag{
					Name:  "revoke",
					Usage: "revoke an approval for all, together with --all",
				},
			},
			Action: approveAction,
		},
		{
			Name:  "balance",
			Usage: "get the balance of an owner",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "contract",
					Usage: "the token contract, the zero address for the native currency",
					Value: "0x0000000000000000000000000000000000000000",
				},
				&cli.StringFlag{
					Name:     "owner",
					Usage:    "the owner of the assets",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "id",
					Usage: "the token id, for non-fungible and semi-fungible tokens",
				},
			},
			Action: balanceAction,
		},
	},
}

func approveAction(ctx *cli.Context) error {
	req := api.ApprovalRequest{
		Spender: ctx.String("spender"),
		Amount:  ctx.String("amount"),
		ID:      ctx.String("id"),
	}
	if ctx.Bool("all") {
		approved := !ctx.Bool("revoke")
		req.ApproveAll = &approved
	} else if ctx.Bool("revoke") {
		return fmt.Errorf("--revoke requires --all")
	}

	client, err := getClient()
	if err != nil {
		return err
	}
	if err := client.Approve(
		context.Background(), ctx.String("contract"), req,
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("approved", req.Spender)
	return nil
}

func balanceAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	reply, err := client.Balance(
		context.Background(), ctx.String("contract"), ctx.String("owner"),
		ctx.String("id"),
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}
