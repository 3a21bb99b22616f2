package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/olviko/shiftledger/internal/infrastructure/auth"
)

var (
	baseURL        string
	timeout        time.Duration
	bearerToken    string
	idempotencyKey string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftledger-cli",
		Short: "ShiftLedger CLI tool",
		Long:  `A command line interface for interacting with the ShiftLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ShiftLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&bearerToken, "token", "", "Bearer token for authenticated servers")

	rootCmd.AddCommand(
		accountCmd(),
		operationCmd(),
		postCmd(),
		ledgerCmd(),
		tokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Chart of accounts operations",
	}

	var (
		name   string
		kind   string
		parent string
	)

	createCmd := &cobra.Command{
		Use:   "create <account-no>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"account_no":   args[0],
				"account_name": name,
				"kind":         kind,
			}
			if parent != "" {
				payload["parent_account_no"] = parent
			}
			return doPost("/api/v1/accounts", payload)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Account name")
	createCmd.Flags().StringVar(&kind, "kind", "A", "Account kind: A, P or AP")
	createCmd.Flags().StringVar(&parent, "parent", "", "Parent account number")
	_ = createCmd.MarkFlagRequired("name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/v1/accounts")
		},
	}

	balanceCmd := &cobra.Command{
		Use:   "balance <account-no>",
		Short: "Show the account's latest balance row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/v1/accounts/" + url.PathEscape(args[0]) + "/balance")
		},
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <account-no>",
		Short: "Resolve an account number to its postable leaf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/v1/accounts/" + url.PathEscape(args[0]) + "/resolve")
		},
	}

	entriesCmd := &cobra.Command{
		Use:   "entries <account-no>",
		Short: "List the account's entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/v1/accounts/" + url.PathEscape(args[0]) + "/entries")
		},
	}

	cmd.AddCommand(createCmd, listCmd, balanceCmd, resolveCmd, entriesCmd)
	return cmd
}

func operationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operation",
		Short: "Operations dictionary",
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register an operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doPost("/api/v1/operations", map[string]any{"name": args[0]})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/v1/operations")
		},
	}

	cmd.AddCommand(createCmd, listCmd)
	return cmd
}

func postCmd() *cobra.Command {
	var (
		operationID int64
		entryDt     string
	)

	cmd := &cobra.Command{
		Use:   "post <dr-account> <cr-account> <amount>",
		Short: "Post a double-entry transaction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"operation_id":  operationID,
				"dr_account_no": args[0],
				"cr_account_no": args[1],
				"amount":        args[2],
			}
			if entryDt != "" {
				payload["entry_dt"] = entryDt
			}
			return doPost("/api/v1/entries", payload)
		},
	}
	cmd.Flags().Int64Var(&operationID, "operation", 0, "Operation ID")
	cmd.Flags().StringVar(&entryDt, "entry-dt", "", "Entry timestamp (RFC 3339); defaults to now")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("operation")

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger-wide checks",
	}

	var date string

	trialBalanceCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Show the trial balance for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/v1/ledger/trial-balance" + dateQuery(date))
		},
	}
	trialBalanceCmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD); defaults to today")

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check the double-entry balance law for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/v1/ledger/consistency" + dateQuery(date))
		},
	}
	consistencyCmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD); defaults to today")

	replayCmd := &cobra.Command{
		Use:   "replay <account-no>",
		Short: "Replay an account's history against its stored balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/v1/ledger/accounts/" + url.PathEscape(args[0]) + "/replay")
		},
	}

	cmd.AddCommand(trialBalanceCmd, consistencyCmd, replayCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret     string
		subject    string
		expiration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a bearer token for an authenticated server",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.NewJWTManager(secret, expiration).Generate(subject)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "JWT secret (must match the server's JWT_SECRET)")
	cmd.Flags().StringVar(&subject, "subject", "", "Token subject")
	cmd.Flags().DurationVar(&expiration, "expiration", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("secret")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func dateQuery(date string) string {
	if date == "" {
		return ""
	}
	return "?date=" + url.QueryEscape(date)
}

func doGet(path string) error {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}
	return doRequest(req)
}

func doPost(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	return doRequest(req)
}

func doRequest(req *http.Request) error {
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
		return nil
	}

	printJSON(decoded)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(out))
}
