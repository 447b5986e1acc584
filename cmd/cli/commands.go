package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var (
	roundFlag       int
	forceFlag       bool
	participantFlag string
)

func init() {
	consolidateCmd.Flags().IntVar(&roundFlag, "round", 0, "The round to consolidate")
	consolidateCmd.Flags().BoolVar(&forceFlag, "force", false, "Replace an existing snapshot")
	consolidateCmd.MarkFlagRequired("round")
	projectionCmd.Flags().IntVar(&roundFlag, "round", 0, "The round to preview")
	projectionCmd.MarkFlagRequired("round")
	snapshotCmd.Flags().IntVar(&roundFlag, "round", 0, "The round to fetch (latest when omitted)")
	ledgerCmd.Flags().StringVar(&participantFlag, "participant", "", "Limit to one participant")
	statementCmd.Flags().StringVar(&participantFlag, "participant", "", "The participant to itemize")
	statementCmd.MarkFlagRequired("participant")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(participantsCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(consolidateCmd)
	rootCmd.AddCommand(projectionCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(statementCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health")
	},
}

var participantsCmd = &cobra.Command{
	Use:   "participants",
	Short: "List the league participants",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/participants")
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the round-robin schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/schedule")
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the latest consolidated standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/standings")
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch a consolidated round snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/snapshot"
		if roundFlag > 0 {
			endpoint = fmt.Sprintf("/snapshot?round=%d", roundFlag)
		}
		return performRequest(http.MethodGet, endpoint)
	},
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Consolidate a closed round",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := fmt.Sprintf("/consolidate?round=%d", roundFlag)
		if forceFlag {
			endpoint += "&force=true"
		}
		return performRequest(http.MethodPost, endpoint)
	},
}

var projectionCmd = &cobra.Command{
	Use:   "projection",
	Short: "Preview the live standings for an open round",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, fmt.Sprintf("/projection?round=%d", roundFlag))
	},
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show cumulative balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/ledger"
		if participantFlag != "" {
			endpoint = "/ledger?participant=" + participantFlag
		}
		return performRequest(http.MethodGet, endpoint)
	},
}

var statementCmd = &cobra.Command{
	Use:   "statement",
	Short: "Show a participant's itemized statement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/statement?participant="+participantFlag)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the season summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/summary")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics")
	},
}

func performRequest(method, endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(method, url, strings.NewReader(""))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
