package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/config"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	accessToken string
)

func newMigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations to the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := db.Migrate(cmd.Context(), cfg.DB.BuildDSN(), dir); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "file://migrations", "migration directory URL")
	return cmd
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire lapsed holds now",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := post("/api/holds/expire", nil)
			if err != nil {
				return err
			}
			fmt.Println(string(body))
			return nil
		},
	}
}

func newPreviewCmd() *cobra.Command {
	var (
		technicianID string
		routeDate    string
		shiftDays    int
		preserve     int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview a route reschedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := post("/api/reschedule/preview", map[string]any{
				"technicianId":      technicianID,
				"routeDate":         routeDate,
				"shiftDays":         shiftDays,
				"preserveLockLevel": preserve,
			})
			if err != nil {
				return err
			}
			fmt.Println(string(body))
			return nil
		},
	}
	cmd.Flags().StringVar(&technicianID, "technician", "", "technician id")
	cmd.Flags().StringVar(&routeDate, "date", "", "route date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&shiftDays, "shift", 1, "days to shift the route")
	cmd.Flags().IntVar(&preserve, "preserve", 2, "skip reservations at or above this lock level")
	_ = cmd.MarkFlagRequired("technician")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newConfirmCmd() *cobra.Command {
	var (
		previewID string
		hash      string
		reason    string
		comment   string
		versions  []string
	)

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Apply a previewed reschedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			expected := make(map[string]int64, len(versions))
			for _, pair := range versions {
				id, version, found := strings.Cut(pair, "=")
				if !found {
					return fmt.Errorf("invalid --version %q, expected id=version", pair)
				}
				v, err := strconv.ParseInt(version, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid --version %q: %w", pair, err)
				}
				expected[id] = v
			}

			body, err := post("/api/reschedule/confirm", map[string]any{
				"previewId":        previewID,
				"hash":             hash,
				"expectedVersions": expected,
				"reason":           reason,
				"comment":          comment,
			})
			if err != nil {
				return err
			}
			fmt.Println(string(body))
			return nil
		},
	}
	cmd.Flags().StringVar(&previewID, "preview", "", "preview id")
	cmd.Flags().StringVar(&hash, "hash", "", "proposal hash from the preview")
	cmd.Flags().StringVar(&reason, "reason", "", "cancel reason recorded on the originals")
	cmd.Flags().StringVar(&comment, "comment", "", "audit comment")
	cmd.Flags().StringArrayVar(&versions, "version", nil, "expected version as id=version, repeatable")
	_ = cmd.MarkFlagRequired("preview")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}

func post(path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, serverURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %s", resp.Status, string(body))
	}
	return body, nil
}
