// Command intake-cli creates intake forms interactively and prints the
// client link.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-intake/pkg/schema"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		serverURL string
		apiKey    string
	)

	root := &cobra.Command{
		Use:           "intake-cli",
		Short:         "Create client intake forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				apiKey = os.Getenv("INTAKE_API_KEY")
			}
			if apiKey == "" {
				return fmt.Errorf("intake-cli: api key required (--api-key or INTAKE_API_KEY)")
			}
			return createIntake(serverURL, apiKey)
		},
	}
	root.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "intake service base URL")
	root.Flags().StringVar(&apiKey, "api-key", "", "agent API key")
	return root
}

type answers struct {
	ProjectName    string
	Workflow       string
	Mode           string
	DefinitionPath string
	Password       string
}

func createIntake(serverURL, apiKey string) error {
	questions := []*survey.Question{
		{
			Name:     "projectName",
			Prompt:   &survey.Input{Message: "Project name:"},
			Validate: survey.Required,
		},
		{
			Name: "workflow",
			Prompt: &survey.Select{
				Message: "Workflow:",
				Options: []string{"newsite", "migrate"},
				Default: "newsite",
			},
		},
		{
			Name: "mode",
			Prompt: &survey.Select{
				Message: "Mode:",
				Options: []string{"full", "prd", "autonomous", "quickstart"},
				Default: "full",
			},
		},
		{
			Name:     "definitionPath",
			Prompt:   &survey.Input{Message: "Form definition file (json or yaml):"},
			Validate: survey.Required,
		},
	}

	var in answers
	if err := survey.Ask(questions, &in); err != nil {
		return fmt.Errorf("intake-cli: prompt: %w", err)
	}

	withPassword := false
	if err := survey.AskOne(&survey.Confirm{Message: "Protect with a password?"}, &withPassword); err != nil {
		return fmt.Errorf("intake-cli: prompt: %w", err)
	}
	if withPassword {
		if err := survey.AskOne(&survey.Password{Message: "Access password:"}, &in.Password,
			survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("intake-cli: prompt: %w", err)
		}
	}

	raw, err := os.ReadFile(in.DefinitionPath)
	if err != nil {
		return fmt.Errorf("intake-cli: read definition: %w", err)
	}
	definition, err := schema.Parse(raw)
	if err != nil {
		return fmt.Errorf("intake-cli: %w", err)
	}

	payload, err := json.Marshal(map[string]any{
		"project_name":    in.ProjectName,
		"workflow":        in.Workflow,
		"mode":            in.Mode,
		"form_definition": definition,
		"password":        in.Password,
	})
	if err != nil {
		return fmt.Errorf("intake-cli: encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost,
		strings.TrimRight(serverURL, "/")+"/api/intake", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("intake-cli: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("intake-cli: create intake: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("intake-cli: read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("intake-cli: create intake: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var created struct {
		Token     string    `json:"token"`
		URL       string    `json:"url"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return fmt.Errorf("intake-cli: decode response: %w", err)
	}

	fmt.Printf("Intake created.\n")
	fmt.Printf("  Token:   %s\n", created.Token)
	fmt.Printf("  URL:     %s\n", created.URL)
	fmt.Printf("  Expires: %s\n", created.ExpiresAt.Format(time.RFC1123))
	return nil
}
