package main

import (
	"context"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var fees = cli.Command{
	Name:   "fees",
	Usage:  "get the balance and the totals of the fee account",
	Action: feesAction,
	Subcommands: []*cli.Command{
		{
			Name:   "collect",
			Usage:  "withdraw the whole fee balance to the owner (owner only)",
			Flags:  []cli.Flag{&decimalsFlag},
			Action: collectFeesAction,
		},
	},
}

func feesAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	reply, err := client.GetFees(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func collectFeesAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	amountStr, err := client.CollectFees(context.Background())
	if err != nil {
		return err
	}
	amount, err := mathutil.ParseInteger(amountStr)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("collected:", mathutil.FormatUnits(amount, int32(ctx.Int("decimals"))))
	return nil
}
