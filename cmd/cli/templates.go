package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage mood templates",
	Long:  "Commands for listing, creating, and toggling mood templates. Creating and toggling require an admin token.",
}

var listTemplatesCmd = &cobra.Command{
	Use:   "list",
	Short: "List active mood templates, most used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		moods, _ := cmd.Flags().GetString("moods")
		path := "/api/v1/moods/templates"
		if moods != "" {
			path += "?moods=" + moods
		}

		body, err := apiRequest("GET", path, nil)
		if err != nil {
			return err
		}

		if output == "json" {
			fmt.Println(string(body))
			return nil
		}

		var resp struct {
			Templates []struct {
				ID         string `json:"id"`
				Name       string `json:"name"`
				Mood       string `json:"mood"`
				UsageCount int64  `json:"usage_count"`
			} `json:"templates"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		for _, t := range resp.Templates {
			fmt.Printf("%s  %-20s mood=%-10s uses=%d\n", t.ID, t.Name, t.Mood, t.UsageCount)
		}
		return nil
	},
}

var createTemplateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a mood template",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		moodLabel, _ := cmd.Flags().GetString("mood")
		genres, _ := cmd.Flags().GetStringSlice("genres")

		payload := map[string]interface{}{
			"name":        name,
			"description": description,
			"mood":        moodLabel,
			"criteria": map[string]interface{}{
				"genres": genres,
			},
		}

		body, err := apiRequest("POST", "/api/v1/moods/templates", payload)
		if err != nil {
			return err
		}

		if output == "json" {
			fmt.Println(string(body))
		} else {
			fmt.Printf("✓ Template %q created for mood %s\n", name, moodLabel)
		}
		return nil
	},
}

var deactivateTemplateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a mood template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTemplateActive(args[0], false)
	},
}

var reactivateTemplateCmd = &cobra.Command{
	Use:   "reactivate <id>",
	Short: "Reactivate a mood template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTemplateActive(args[0], true)
	},
}

var journeyCmd = &cobra.Command{
	Use:   "journey <start> <end>",
	Short: "Preview a mood journey playlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		duration, _ := cmd.Flags().GetInt("duration")
		path := fmt.Sprintf("/api/v1/moods/journey?start=%s&end=%s&duration=%d", args[0], args[1], duration)

		body, err := apiRequest("GET", path, nil)
		if err != nil {
			return err
		}

		if output == "json" {
			fmt.Println(string(body))
			return nil
		}

		var resp struct {
			Sequence []string `json:"sequence"`
			Songs    []struct {
				Title  string `json:"title"`
				Artist string `json:"artist"`
			} `json:"songs"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		fmt.Printf("Journey: %v\n", resp.Sequence)
		for i, s := range resp.Songs {
			fmt.Printf("%3d. %s — %s\n", i+1, s.Title, s.Artist)
		}
		return nil
	},
}

func init() {
	listTemplatesCmd.Flags().String("moods", "", "Comma-separated mood filter")

	createTemplateCmd.Flags().String("name", "", "Template name")
	createTemplateCmd.Flags().String("description", "", "Template description")
	createTemplateCmd.Flags().String("mood", "", "Mood label")
	createTemplateCmd.Flags().StringSlice("genres", nil, "Genre allowlist")
	createTemplateCmd.MarkFlagRequired("name")
	createTemplateCmd.MarkFlagRequired("description")
	createTemplateCmd.MarkFlagRequired("mood")

	journeyCmd.Flags().Int("duration", 60, "Journey duration in minutes")

	templatesCmd.AddCommand(listTemplatesCmd)
	templatesCmd.AddCommand(createTemplateCmd)
	templatesCmd.AddCommand(deactivateTemplateCmd)
	templatesCmd.AddCommand(reactivateTemplateCmd)
}

func setTemplateActive(id string, active bool) error {
	payload := map[string]interface{}{"active": active}

	body, err := apiRequest("PUT", "/api/v1/moods/templates/"+id+"/active", payload)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
	} else {
		state := "deactivated"
		if active {
			state = "reactivated"
		}
		fmt.Printf("✓ Template %s %s\n", id, state)
	}
	return nil
}

// apiRequest performs an authenticated request and returns the response
// body, turning non-2xx statuses into errors.
func apiRequest(method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, apiURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.Unmarshal(body, &errResp)
		if msg, ok := errResp["message"].(string); ok {
			return nil, fmt.Errorf("API error: %s", msg)
		}
		return nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	return body, nil
}
