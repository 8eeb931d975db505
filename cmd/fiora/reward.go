package main

import (
	"context"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/urfave/cli/v2"
)

var reward = cli.Command{
	Name:  "reward",
	Usage: "craft and inspect rewards",
	Subcommands: []*cli.Command{
		{
			Name:  "craft",
			Usage: "mint the rewards listed in a json file to the recipient",
			Flags: []cli.Flag{
				&authNonceFlag, &authSigFlag,
				&cli.StringFlag{
					Name:     "reward_id",
					Usage:    "the id of the reward",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "recipient",
					Usage: "the address receiving the rewards, the caller if not set",
				},
				&cli.StringFlag{
					Name:     "rewards",
					Usage:    "the json file listing the reward legs",
					Required: true,
				},
			},
			Action: craftRewardAction,
		},
		{
			Name:      "get",
			Usage:     "get a craft receipt by id",
			ArgsUsage: "<id>",
			Action:    getCraftAction,
		},
		{
			Name:  "list",
			Usage: "list the craft receipts, optionally filtered by recipient",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "recipient",
					Usage: "the address that received the rewards",
				},
			},
			Action: listCraftsAction,
		},
	},
}

func craftRewardAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	rewards, err := readLegs(ctx.String("rewards"))
	if err != nil {
		return err
	}
	auth, err := getAuthorization(ctx)
	if err != nil {
		return err
	}

	reply, err := client.CraftReward(context.Background(), api.CraftRewardRequest{
		RewardID:  ctx.String("reward_id"),
		Recipient: ctx.String("recipient"),
		Rewards:   rewards,
		Auth:      auth,
	})
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func getCraftAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	reply, err := client.GetCraft(context.Background(), ctx.Args().First())
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func listCraftsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	crafts, err := client.ListCrafts(context.Background(), ctx.String("recipient"))
	if err != nil {
		return err
	}

	printRespJSON(api.ListCraftsResponse{Crafts: crafts})
	return nil
}
