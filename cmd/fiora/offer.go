package main

import (
	"context"
	"fmt"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/urfave/cli/v2"
)

var termsFlag = cli.StringFlag{
	Name:     "terms",
	Usage:    "the json file with the terms of the offer",
	Required: true,
}

var offer = cli.Command{
	Name:  "offer",
	Usage: "create, accept, cancel and inspect offers",
	Subcommands: []*cli.Command{
		{
			Name:   "fingerprint",
			Usage:  "get the id an offer with the given terms gets",
			Flags:  []cli.Flag{&termsFlag},
			Action: fingerprintAction,
		},
		{
			Name:   "address",
			Usage:  "get the escrow address the maker must approve before creating the offer",
			Flags:  []cli.Flag{&termsFlag},
			Action: predictAddressAction,
		},
		{
			Name:  "create",
			Usage: "create an offer, the maker legs are moved into escrow",
			Flags: []cli.Flag{
				&termsFlag, &decimalsFlag, &authNonceFlag, &authSigFlag,
				&cli.StringFlag{
					Name:  "fee",
					Usage: "the maker fee",
				},
				&cli.StringFlag{
					Name:  "value",
					Usage: "the native value attached, must equal the fee plus the native maker legs",
				},
				&cli.StringFlag{
					Name:  "taker",
					Usage: "the only taker allowed to accept a private offer",
				},
			},
			Action: createOfferAction,
		},
		{
			Name:  "accept",
			Usage: "accept an offer, the swap settles atomically",
			Flags: []cli.Flag{
				&decimalsFlag, &authNonceFlag, &authSigFlag,
				&cli.StringFlag{
					Name:     "id",
					Usage:    "the id of the offer",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "fee",
					Usage: "the taker fee",
				},
				&cli.StringFlag{
					Name:  "value",
					Usage: "the native value attached, must equal the fee plus the native taker legs",
				},
				&cli.StringFlag{
					Name:  "taker",
					Usage: "the taker, if the caller relays on its behalf",
				},
			},
			Action: acceptOfferAction,
		},
		{
			Name:  "cancel",
			Usage: "cancel an offer, the maker legs are returned",
			Flags: []cli.Flag{
				&authNonceFlag, &authSigFlag,
				&cli.StringFlag{
					Name:     "id",
					Usage:    "the id of the offer",
					Required: true,
				},
			},
			Action: cancelOfferAction,
		},
		{
			Name:  "cancelrange",
			Usage: "cancel the open offers in the given range of sequence numbers (owner only)",
			Flags: []cli.Flag{
				&cli.Uint64Flag{
					Name:     "low",
					Usage:    "the first sequence number of the range",
					Required: true,
				},
				&cli.Uint64Flag{
					Name:     "high",
					Usage:    "the last sequence number of the range",
					Required: true,
				},
			},
			Action: batchCancelOffersAction,
		},
		{
			Name:      "get",
			Usage:     "get an offer by id or sequence number",
			ArgsUsage: "<id|sequence>",
			Action:    getOfferAction,
		},
		{
			Name:  "list",
			Usage: "list the offers, optionally filtered by status",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "status",
					Usage: "one of created, completed, cancelled",
				},
			},
			Action: listOffersAction,
		},
	},
}

func fingerprintAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	terms, err := readTerms(ctx.String("terms"))
	if err != nil {
		return err
	}

	reply, err := client.Fingerprint(context.Background(), terms)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func predictAddressAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	terms, err := readTerms(ctx.String("terms"))
	if err != nil {
		return err
	}

	reply, err := client.PredictAddress(context.Background(), terms)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func createOfferAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	terms, err := readTerms(ctx.String("terms"))
	if err != nil {
		return err
	}
	decimals := ctx.Int("decimals")
	fee, err := parseAmount(ctx.String("fee"), decimals)
	if err != nil {
		return fmt.Errorf("invalid fee: %w", err)
	}
	value, err := parseAmount(ctx.String("value"), decimals)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	auth, err := getAuthorization(ctx)
	if err != nil {
		return err
	}
	taker := ctx.String("taker")

	reply, err := client.CreateOffer(context.Background(), api.CreateOfferRequest{
		Terms:     terms,
		MakerFee:  fee,
		Taker:     taker,
		IsPrivate: taker != "",
		Value:     value,
		Auth:      auth,
	})
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func acceptOfferAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	decimals := ctx.Int("decimals")
	fee, err := parseAmount(ctx.String("fee"), decimals)
	if err != nil {
		return fmt.Errorf("invalid fee: %w", err)
	}
	value, err := parseAmount(ctx.String("value"), decimals)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	auth, err := getAuthorization(ctx)
	if err != nil {
		return err
	}

	reply, err := client.AcceptOffer(
		context.Background(), ctx.String("id"), api.AcceptOfferRequest{
			Taker:    ctx.String("taker"),
			TakerFee: fee,
			Value:    value,
			Auth:     auth,
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func cancelOfferAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	auth, err := getAuthorization(ctx)
	if err != nil {
		return err
	}

	reply, err := client.CancelOffer(
		context.Background(), ctx.String("id"), api.CancelOfferRequest{Auth: auth},
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func batchCancelOffersAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	reply, err := client.BatchCancelOffers(
		context.Background(), ctx.Uint64("low"), ctx.Uint64("high"),
	)
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func getOfferAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	reply, err := client.GetOffer(context.Background(), ctx.Args().First())
	if err != nil {
		return err
	}

	printRespJSON(reply)
	return nil
}

func listOffersAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	offers, err := client.ListOffers(context.Background(), ctx.String("status"))
	if err != nil {
		return err
	}

	printRespJSON(api.ListOffersResponse{Offers: offers})
	return nil
}
