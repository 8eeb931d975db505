package main

import (
	"context"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/urfave/cli/v2"
)

var eventFlag = cli.StringFlag{
	Name: "event",
	Usage: "one of offer.created, offer.completed, offer.cancelled, " +
		"fees.collected, reward.crafted or * for any event",
}

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "add, remove or list webhooks (owner only)",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a (secured) webhook endpoint called whenever a target event occurs",
			Flags: []cli.Flag{
				&eventFlag,
				&cli.StringFlag{
					Name:     "endpoint",
					Usage:    "the webhook endpoint to be called whenever the target event occurs",
					Required: true,
				},
				&cli.StringFlag{
					Name: "secret",
					Usage: "the eventual secret to use to generate a token for " +
						"authenticating requests to the webhook endpoint",
				},
			},
			Action: addWebhookAction,
		},
		{
			Name:  "remove",
			Usage: "remove a webhook",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Usage:    "the id of the webhook to remove",
					Required: true,
				},
			},
			Action: removeWebhookAction,
		},
		{
			Name:   "list",
			Usage:  "list all webhooks, optionally filtered by target event",
			Flags:  []cli.Flag{&eventFlag},
			Action: listWebhooksAction,
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	event := ctx.String("event")
	if event == "" {
		return fmt.Errorf("missing event")
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	id, err := client.AddWebhook(context.Background(), api.AddWebhookRequest{
		Event:    event,
		Endpoint: ctx.String("endpoint"),
		Secret:   ctx.String("secret"),
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("webhook id:", id)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	hookID := ctx.String("id")
	if err := client.RemoveWebhook(context.Background(), hookID); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("removed webhook with id:", hookID)
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	webhooks, err := client.ListWebhooks(context.Background(), ctx.String("event"))
	if err != nil {
		return err
	}

	printRespJSON(api.ListWebhooksResponse{Webhooks: webhooks})
	return nil
}
