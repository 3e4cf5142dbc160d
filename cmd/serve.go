package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpusim/cpusim/internal/observability"
	"github.com/cpusim/cpusim/internal/server"
)

var serveConfig = server.DefaultConfig()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewSimCollector(reg)
		if err != nil {
			logrus.Fatalf("Unable to register metrics: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(serveConfig, server.WithMetrics(metrics))
		if err := srv.ListenAndServe(ctx); err != nil {
			logrus.Fatalf("Server failed: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfig.Addr, "addr", serveConfig.Addr, "Listen address")
	serveCmd.Flags().IntVar(&serveConfig.MaxProcesses, "max-processes", serveConfig.MaxProcesses, "Maximum processes per request")
	serveCmd.Flags().Int64Var(&serveConfig.MaxBodyBytes, "max-body-bytes", serveConfig.MaxBodyBytes, "Maximum request body size in bytes")
	serveCmd.Flags().IntVar(&serveConfig.Concurrency, "concurrency", serveConfig.Concurrency, "Maximum policies simulated at once per compare request (0 = unlimited)")
	serveCmd.Flags().Int64Var(&serveConfig.MaxSimulatedTime, "max-simulated-time", serveConfig.MaxSimulatedTime, "Maximum latest arrival plus total burst time per request")
	serveCmd.Flags().Int64Var(&serveConfig.MaxSegments, "max-segments", serveConfig.MaxSegments, "Maximum estimated timeline segments per simulated policy")

	rootCmd.AddCommand(serveCmd)
}
