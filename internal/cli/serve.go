package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/logomosaic/internal/server"
	"github.com/matzehuels/logomosaic/pkg/pipeline"
	"github.com/matzehuels/logomosaic/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		logo      string
		sessionID string
		noCache   bool
		params    *paramFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [--logo <file|url> <tiles>... | --session <name>]",
		Short: "Run the local preview server",
		Long: `Serve loads one mosaic and serves it over HTTP. Clients change the
parameters with PUT /params and fetch /render.png, /export.svg,
/placement.json or /hit?x=&y=.

Without --logo the saved session (default "last") is served.`,
		Example: `  logomosaic serve --logo brand.svg photos/
  logomosaic serve --session poster --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var (
				sess *session.Session
				opts pipeline.Options
			)
			if logo != "" {
				opts = pipeline.Options{
					Logo:        logo,
					Tiles:       args,
					TileMaxSide: pipeline.DefaultTileMaxSide,
					Params:      c.cfg().Render,
					Logger:      c.Logger,
				}
				if err := params.apply(cmd, &opts.Params); err != nil {
					return err
				}
				sess = session.New()
				if _, err := runner.Load(ctx, sess, opts); err != nil {
					return err
				}
				snap, err := runner.Render(ctx, sess, opts)
				if err != nil {
					return err
				}
				opts.Params = snap.Params
			} else {
				if sessionID == "" {
					sessionID = lastSession
				}
				r, err := c.restoreSession(ctx, runner, sessionID)
				if err != nil {
					return err
				}
				sess, opts = r.sess, r.opts
			}

			if !cmd.Flags().Changed("addr") {
				addr = c.cfg().Server.Addr
			}
			srv := server.New(runner, sess, opts)
			printSuccess("Serving %d tiles", sess.Tiles().Len())
			printFile(StyleLink.Render("http://" + addr + "/render.png"))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVarP(&logo, "logo", "l", "", "logo file or URL")
	cmd.Flags().StringVar(&sessionID, "session", "", "saved session to serve (default \"last\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	params = addParamFlags(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("logo", "session")

	return cmd
}
