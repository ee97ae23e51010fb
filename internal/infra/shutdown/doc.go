// Package shutdown coordinates graceful termination of kvfile-server.
//
// Components register hooks; on SIGINT, SIGTERM or cancellation of the
// serving context the hooks run in reverse registration order under a
// shared deadline. The store's final flush is registered first so that it
// runs last, after the listener has stopped accepting commands.
//
//	h := shutdown.NewHandler(10*time.Second, logger)
//	h.OnShutdown("store", func(ctx context.Context) error { return store.Close() })
//	err := h.Wait(ctx)
package shutdown
