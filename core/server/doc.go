// Package server wraps http.Server with environment configuration, optional
// TLS and graceful shutdown.
//
//	cfg := config.MustLoad[server.Config]()
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//	return g.Wait()
//
// Run returns nil when the context is canceled and the server shut down
// cleanly, so it composes with errgroup and signal.NotifyContext.
//
// WriteTimeout defaults to zero because served files may be large.
package server
