package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const usageLine = "ERR: usage - loadvid input output"

var (
	configFile     string
	propertyFiles  []string
	propertyValues []string
	encoderName    string
	printSummary   bool
	metricsFile    string
	verbose        bool

	globalContext context.Context
	globalCancel  context.CancelFunc
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "loadvid input output",
		Short:         "Turn a metadata node load trace into a bar chart video",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				fmt.Println(usageLine)
				fmt.Println(cmd.UsageString())
				os.Exit(1)
			}
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			if err := run(globalContext, args[0], args[1]); err != nil {
				log.Errorf("loadvid: %v", err)
				os.Exit(1)
			}
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.StringSliceVarP(&propertyFiles, "property_file", "P", nil, "Specify a property file")
	flags.StringArrayVarP(&propertyValues, "prop", "p", nil, "Specify a property value with name=value")
	flags.StringVar(&encoderName, "encoder", "", "Output encoder: auto, ffmpeg, gif or frames (default from config)")
	flags.BoolVar(&printSummary, "summary", false, "Print a per node load summary")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write render metrics in Prometheus textfile format")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	return cmd
}

func main() {
	globalContext, globalCancel = context.WithCancel(context.Background())

	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	closeDone := make(chan struct{}, 1)
	go func() {
		sig := <-sc
		log.Warnf("Got signal [%v] to exit.", sig)
		globalCancel()

		select {
		case <-sc:
			// send signal again, return directly
			log.Warnf("Got signal [%v] again to exit.", sig)
			os.Exit(1)
		case <-time.After(10 * time.Second):
			log.Warn("Wait 10s for closed, force exit")
			os.Exit(1)
		case <-closeDone:
			return
		}
	}()

	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(usageLine)
		fmt.Println(rootCmd.UsageString())
		os.Exit(1)
	}

	globalCancel()
	closeDone <- struct{}{}
}
