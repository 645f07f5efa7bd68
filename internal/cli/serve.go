package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/paperclip-lang/paperclip/internal/fsx"
	"github.com/paperclip-lang/paperclip/internal/transport"
	"github.com/paperclip-lang/paperclip/internal/workspace"
)

var (
	serveAddr string
	serveRoot string
	serveDev  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the live-preview WebSocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()
		state := workspace.NewState(logger, serveDev)
		fs := fsx.NewOS(serveRoot)

		http.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) {
			if !transport.IsWebSocketUpgrade(r) {
				http.Error(w, "expected websocket upgrade", http.StatusBadRequest)
				return
			}
			conn, err := transport.Upgrade(w, r, logger)
			if err != nil {
				logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
				return
			}
			defer conn.Close()
			servePreviewConn(conn, state, fs, logger)
		})

		fmt.Fprintf(cmd.OutOrStdout(), "paperclip preview server listening on %s\n", serveAddr)
		return http.ListenAndServe(serveAddr, nil)
	},
}

// servePreviewConn loops reading FileEvents from one client and pushing
// back the resulting PreviewUpdate (spec.md §6.5), mirroring pages.go's
// read-then-render loop: each inbound message triggers one outbound
// render rather than a separate read goroutine, since here (unlike
// pages.go's template re-render on scope touch) there is no independent
// change source to also select on.
func servePreviewConn(conn *transport.Conn, state *workspace.State, fs *fsx.OSFileSystem, logger *slog.Logger) {
	for {
		ev, err := conn.ReadFileEvent()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("preview connection read failed", slog.String("error", err.Error()))
			}
			return
		}

		res, err := state.UpdateFile(fs, ev.Path, ev.Source, serveRoot)
		if err != nil {
			logger.Warn("evaluation failed", slog.String("path", ev.Path), slog.String("error", err.Error()))
			continue
		}

		update := transport.PreviewUpdate{
			Path:     ev.Path,
			Version:  res.Version,
			Initial:  res.Initial,
			Document: res.Document,
			Styles:   res.Styles,
			Patches:  res.Patches,
		}
		if err := conn.WriteUpdate(update); err != nil {
			logger.Warn("preview connection write failed", slog.String("error", err.Error()))
			return
		}
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":4242", "address to listen on")
	serveCmd.Flags().StringVar(&serveRoot, "root", ".", "project root for import resolution")
	serveCmd.Flags().BoolVar(&serveDev, "dev", true, "enable dev-mode validation warnings")
}
