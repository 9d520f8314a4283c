package cli

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

// NewRootCmd builds the twatch command tree around one App instance.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "twatch",
		Short: "Terminal client for the ThreatWatch monitoring platform",
		Long: `twatch talks to the ThreatWatch backend services: it authenticates,
shows live threat dashboards, browses per-user mailboxes and submits
email and SMS messages for detection.`,
		Version:       version + " (commit: " + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store a session credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Login(cmd.Context())
		},
	}

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Register(cmd.Context())
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Logout(cmd.Context())
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Whoami(cmd.Context())
		},
	}

	var watch bool
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render the threat dashboard views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Dashboard(cmd.Context(), watch)
		},
	}
	dashboardCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing until interrupted")

	composeCmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose and submit an email or SMS message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Compose(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		loginCmd,
		registerCmd,
		logoutCmd,
		whoamiCmd,
		dashboardCmd,
		composeCmd,
		mailboxCmd(app, FolderSent, "Show messages you have sent"),
		mailboxCmd(app, FolderSpam, "Show messages flagged as spam"),
	)

	return rootCmd
}

// mailboxCmd builds one folder command taking an optional channel argument
// (email or sms, defaulting to email).
func mailboxCmd(app *App, folder, short string) *cobra.Command {
	return &cobra.Command{
		Use:       folder + " [email|sms]",
		Short:     short,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{ChannelEmail, ChannelSMS},
		RunE: func(cmd *cobra.Command, args []string) error {
			channel := ChannelEmail
			if len(args) == 1 {
				channel = args[0]
			}
			return app.Mailbox(cmd.Context(), folder, channel)
		},
	}
}
