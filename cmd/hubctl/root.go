package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"neighborhub/internal/apiclient"
	"neighborhub/internal/logger"
)

type app struct {
	sessionPath string
	apiURL      string
	verbose     bool

	file   sessionFile
	client *apiclient.Client
	sess   *apiclient.Session
	log    zerolog.Logger
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "hubctl",
		Short:         "NeighborHub command-line client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.sessionPath, "session", defaultSessionPath(), "session file")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API base URL (default from session file or NEIGHBORHUB_API_URL)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.storesCmd(),
		a.productsCmd(),
		a.cartCmd(),
		a.checkoutCmd(),
		a.ordersCmd(),
		a.merchantCmd(),
		a.dashboardCmd(),
	)
	return root
}

// 優先順位: --api-url > NEIGHBORHUB_API_URL > セッションファイル > localhost
func (a *app) init(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.log = logger.New(level, "dev").Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})

	f, err := loadSessionFile(a.sessionPath)
	if err != nil {
		return err
	}
	a.file = f

	baseURL := f.BaseURL
	if v := os.Getenv("NEIGHBORHUB_API_URL"); v != "" {
		baseURL = v
	}
	if a.apiURL != "" {
		baseURL = a.apiURL
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	a.file.BaseURL = baseURL

	a.client, a.sess = apiclient.NewWithSession(baseURL, f.Session, apiclient.WithLogger(a.log))
	a.sess.OnAuthStateChange(func(ev apiclient.AuthEvent, st *apiclient.SessionState) {
		a.file.Session = st
		if err := saveSessionFile(a.sessionPath, a.file); err != nil {
			a.log.Error().Err(err).Str("event", string(ev)).Msg("save session")
		}
	})
	return nil
}
