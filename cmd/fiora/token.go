package main

import (
	"fmt"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/apitoken"
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var token = cli.Command{
	Name:  "token",
	Usage: "issue an api token for the given caller, signed with the daemon auth secret",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "secret",
			Usage:    "the auth secret of the daemon",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "caller",
			Usage:    "the address the token authenticates",
			Required: true,
		},
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "the validity of the token, 0 for a token that never expires",
			Value: 24 * time.Hour,
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "store the token in the local state",
		},
	},
	Action: tokenAction,
}

func tokenAction(ctx *cli.Context) error {
	caller := ctx.String("caller")
	if !common.IsHexAddress(caller) {
		return fmt.Errorf("invalid caller address %q", caller)
	}

	tok, err := apitoken.Issue(
		[]byte(ctx.String("secret")), common.HexToAddress(caller),
		ctx.Duration("ttl"),
	)
	if err != nil {
		return err
	}

	if ctx.Bool("save") {
		if err := setState(map[string]string{"token": tok}); err != nil {
			return err
		}
	}

	fmt.Println(tok)
	return nil
}
