package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MERAprojects/ops-utils/configuration"
	"github.com/MERAprojects/ops-utils/log"
	"github.com/MERAprojects/ops-utils/metrics"
	"github.com/MERAprojects/ops-utils/vrf"
	"github.com/MERAprojects/ops-utils/vrfstore"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	ctx     context.Context
	z       = zap.NewNop()
	cleanup = func() {}
	v       = viper.New()
	out     io.Writer = os.Stdout

	config *configuration.Config
	store  *vrfstore.FileStore
	client *vrf.Client
)

// root represent the base invocation.
var root = &cobra.Command{
	Use:               "vrfctl",
	Short:             "Move interfaces between VRF namespaces and open sockets inside them",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if config != nil && config.MetricsTextfile != "" {
			if err := metrics.WriteTextfile(config.MetricsTextfile); err != nil {
				z.Error("Failed to write metrics", zap.Error(err))
			}
		}
		cleanup()
	},
}

// globalFlags are bound to the configuration keys they override.
func globalFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ExitOnError)
	fs.StringP("log-level", "v", "", "log level [debug,info,warn,error]")
	fs.String("log-format", "", "log format [json,logfmt]")
	fs.String("netns-dir", "", "directory holding named network namespaces")
	fs.String("store", "", "path of the vrf record file")
	fs.String("naming", "", "namespace naming policy [name,table-id]")
	fs.String("metrics-textfile", "", "write operation metrics to this file on exit")
	return fs
}

var flagKeys = map[string]string{
	"log-level":        "LogLevel",
	"log-format":       "LogFormat",
	"netns-dir":        "NetnsDir",
	"store":            "StorePath",
	"naming":           "NamespaceNaming",
	"metrics-textfile": "MetricsTextfile",
}

func init() {
	// set up signal handlers
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
		fmt.Println("exiting")
		os.Exit(1)
	}()

	root.PersistentFlags().AddFlagSet(globalFlags())
	for flag, key := range flagKeys {
		_ = v.BindPFlag(key, root.PersistentFlags().Lookup(flag))
	}
}

func Execute() {
	if err := root.ExecuteContext(ctx); err != nil {
		z.Fatal("exiting due to error", zap.Error(err))
	}
}

func setup(*cobra.Command, []string) error {
	var err error
	config, err = configuration.Load(v, z)
	if err != nil {
		return err
	}

	z, cleanup, err = log.New(&log.Config{
		Level:       config.LogLevel,
		Format:      config.LogFormat,
		OutputPaths: config.LogOutputPaths,
	})
	if err != nil {
		return err
	}

	naming, err := vrf.ParseNaming(config.NamespaceNaming)
	if err != nil {
		return err
	}

	store = vrfstore.NewFileStore(config.StorePath)
	client = vrf.NewClient(&vrf.Config{
		NetnsDir: config.NetnsDir,
		Naming:   naming,
		Store:    store,
		Logger:   z,
	})

	z.Debug("Configured", zap.Any("config", config))
	return nil
}

func printJSON(value interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(value), "failed to write output")
}
