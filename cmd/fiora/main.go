package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/client"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

var (
	fioraDataDir = btcutil.AppDataDir("fiora-cli", false)
	statePath    = filepath.Join(fioraDataDir, "state.json")
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "fiora"
	app.Usage = "Command line interface for fiorad users and operators"
	app.Commands = append(
		app.Commands,
		&config,
		&token,
		&sign,
		&offer,
		&fees,
		&reward,
		&asset,
		&webhook,
	)
	return app
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(statePath), os.ModeDir|0755); err != nil {
		return err
	}

	currentData := map[string]string{}
	if _, err := os.Stat(statePath); err == nil {
		if currentData, err = getState(); err != nil {
			return err
		}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

// getClient returns a client of the daemon configured in the local state.
func getClient() (*client.Client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	daemonURL, ok := state["daemon"]
	if !ok || daemonURL == "" {
		return nil, errors.New("set daemon with `config set daemon`")
	}

	var opts []client.Option
	if token := state["token"]; token != "" {
		opts = append(opts, client.WithToken(token))
	} else if caller := state["caller"]; caller != "" {
		opts = append(opts, client.WithCaller(caller))
	}
	return client.New(daemonURL, opts...)
}

func printRespJSON(resp interface{}) {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonBytes))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[fiora] %v\n", err)
	}
	os.Exit(1)
}
