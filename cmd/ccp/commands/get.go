package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/cyberark-ccp/internal/config"
	dserrors "github.com/systmms/cyberark-ccp/internal/errors"
	"github.com/systmms/cyberark-ccp/internal/keyring"
	"github.com/systmms/cyberark-ccp/internal/metrics"
	"github.com/systmms/cyberark-ccp/internal/secure"
	"github.com/systmms/cyberark-ccp/pkg/ccp"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var (
		account      string
		safe         string
		folder       string
		object       string
		username     string
		address      string
		database     string
		policyID     string
		reason       string
		query        string
		queryFormat  string
		connTimeout  int
		failOnChange bool

		jsonOutput     bool
		keyringService string
		keyringAccount string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a single account password",
		Long: `Retrieve a password from the Central Credential Provider.

The search criteria must identify exactly one account. By default only the
raw password is printed, making the command suitable for scripting. With
--keyring-service the password is written to the OS keychain instead of
stdout.

Examples:
  # Look up by safe and object name
  ccp get --safe Billing --object billing-db

  # Free-form query, regular-expression matching
  ccp get --query "UserName=app.*" --query-format regexp

  # Full account metadata as JSON (password included)
  ccp get --safe Billing --object billing-db --json

  # Store in the OS keychain instead of printing
  ccp get --safe Billing --object billing-db --keyring-service myapp --keyring-account db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration
			if err := cfg.Load(); err != nil {
				return err
			}

			req := ccp.Request{}
			setString := func(dst **string, v string) {
				if v != "" {
					*dst = ccp.String(v)
				}
			}
			setString(&req.Account, account)
			setString(&req.Safe, safe)
			setString(&req.Folder, folder)
			setString(&req.Object, object)
			setString(&req.Username, username)
			setString(&req.Address, address)
			setString(&req.Database, database)
			setString(&req.PolicyID, policyID)
			setString(&req.Reason, reason)
			setString(&req.Query, query)

			if queryFormat != "" {
				switch strings.ToLower(queryFormat) {
				case "exact":
					req.QueryFormat = ccp.Format(ccp.QueryFormatExact)
				case "regexp":
					req.QueryFormat = ccp.Format(ccp.QueryFormatRegexp)
				default:
					return dserrors.UserError{
						Message:    fmt.Sprintf("Unknown query format '%s'", queryFormat),
						Suggestion: "Use --query-format exact or --query-format regexp",
					}
				}
			}
			if cmd.Flags().Changed("connection-timeout") {
				req.ConnectionTimeout = ccp.Int(connTimeout)
			}
			// Distinguish an explicit --fail-on-password-change=false from
			// the flag being absent; only explicit values reach the wire.
			if cmd.Flags().Changed("fail-on-password-change") {
				req.FailRequestOnPasswordChange = ccp.Bool(failOnChange)
			}

			cfg.ApplyDefaults(&req)

			client, err := ccp.New(cfg.ClientConfig())
			if err != nil {
				return err
			}
			defer client.Close()

			start := time.Now()
			acct, err := client.GetAccount(cmd.Context(), req)
			metrics.Record(retrievalOutcome(err), time.Since(start).Seconds())
			if err != nil {
				return dserrors.RetrievalError("password retrieval", err)
			}

			// Seal the password; the plaintext only exists inside the
			// output callback below.
			buf := secure.NewBufferFromString(acct.Content)
			defer buf.Destroy()
			acct.Content = ""

			if keyringService != "" {
				krAccount := keyringAccount
				if krAccount == "" {
					krAccount = cfg.Definition.Endpoint.AppID
				}
				err := buf.With(func(secret []byte) error {
					return keyring.Store(keyringService, krAccount, string(secret))
				})
				if err != nil {
					return dserrors.UserError{
						Message:    "Failed to store the password in the OS keychain",
						Details:    err.Error(),
						Suggestion: "Check that a keychain service is available (on Linux: a running Secret Service such as gnome-keyring)",
					}
				}
				cfg.Logger.Info("Password stored in keychain under %s/%s", keyringService, krAccount)
				return nil
			}

			if jsonOutput {
				return buf.With(func(secret []byte) error {
					output := map[string]interface{}{
						"content":                    string(secret),
						"username":                   acct.UserName,
						"address":                    acct.Address,
						"password_change_in_process": acct.PasswordChangeInProcess,
					}
					if acct.Database != "" {
						output["database"] = acct.Database
					}
					if len(acct.Properties) > 0 {
						output["properties"] = acct.Properties
					}

					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")
					if err := encoder.Encode(output); err != nil {
						return fmt.Errorf("failed to encode JSON: %w", err)
					}
					return nil
				})
			}

			// Raw value output (default)
			return buf.With(func(secret []byte) error {
				_, err := os.Stdout.Write(secret)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account name (satisfies the search requirement without being sent)")
	cmd.Flags().StringVar(&safe, "safe", "", "Safe name")
	cmd.Flags().StringVar(&folder, "folder", "", "Folder within the safe")
	cmd.Flags().StringVar(&object, "object", "", "Object (account) name")
	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&address, "address", "", "Account address")
	cmd.Flags().StringVar(&database, "database", "", "Database name")
	cmd.Flags().StringVar(&policyID, "policy-id", "", "Platform / policy ID")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the audit log")
	cmd.Flags().StringVar(&query, "query", "", "Free-form query; supersedes the discrete criteria flags")
	cmd.Flags().StringVar(&queryFormat, "query-format", "", "Query matching: exact or regexp")
	cmd.Flags().IntVar(&connTimeout, "connection-timeout", 0, "CCP-side vault connection timeout in seconds")
	cmd.Flags().BoolVar(&failOnChange, "fail-on-password-change", false, "Fail when the password is being changed")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output account metadata as JSON (includes the password)")
	cmd.Flags().StringVar(&keyringService, "keyring-service", "", "Store the password in the OS keychain under this service")
	cmd.Flags().StringVar(&keyringAccount, "keyring-account", "", "Keychain account name (defaults to the application ID)")

	return cmd
}

// retrievalOutcome maps a GetAccount result to a metrics label.
func retrievalOutcome(err error) string {
	if err == nil {
		return "success"
	}
	var ce *ccp.Error
	if errors.As(err, &ce) {
		return ce.Category.String()
	}
	return "general"
}
