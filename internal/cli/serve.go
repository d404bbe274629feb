package cli

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LeJamon/goDoomsday/internal/grpc"
	"github.com/LeJamon/goDoomsday/internal/rpc"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr, grpcAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Keep the node open and accept signed operations over websocket and gRPC",
		Long: `Serve opens the ledger and listens until interrupted.

    --addr       /ws submits signed operations, quotes swaps and streams
                 applied operations; /metrics serves prometheus metrics
    --grpc-addr  doomsday.Doomsday Submit, Quote and Subscribe with the json
                 codec; empty disables it

While serving, the node holds the storage lock; other doomsdayd commands on
the same data directory fail until it stops.`,
		Args: cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			engine, err := a.provider.GetEngine()
			if err != nil {
				return err
			}
			metrics, err := a.provider.GetMetrics()
			if err != nil {
				return err
			}

			ws := rpc.NewWebSocketServer(engine, a.logger)
			engine.AddObserver(ws)

			var gs *grpc.Server
			if grpcAddr != "" {
				cfg := grpc.DefaultServerConfig()
				cfg.Address = grpcAddr
				if gs, err = grpc.NewServer(cfg, engine, a.logger); err != nil {
					return err
				}
				engine.AddObserver(gs)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return ws.ListenAndServe(ctx, addr, map[string]http.Handler{
					"/metrics": metrics.Handler(),
				})
			})
			if gs != nil {
				g.Go(func() error { return gs.Run(ctx) })
			}
			return g.Wait()
		}),
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:6006", "websocket and metrics listen address")
	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", "127.0.0.1:50051", "gRPC listen address")
	return cmd
}
