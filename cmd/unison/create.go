package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unison-ui/unison/internal/errors"
	"github.com/unison-ui/unison/internal/templates"
)

func createCmd() *cobra.Command {
	var (
		template    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new Unison project",
		Long: `Create a new Unison project with the specified name.

Templates:
  minimal   Just the essentials for a Unison app
  full      Complete starter with example components (default)

Examples:
  unison create my-app
  unison create my-app --template=minimal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args[0], template, description)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "full", "Project template (minimal, full)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")

	return cmd
}

func runCreate(name, templateName, description string) error {
	printBanner()
	fmt.Println("  Creating a new Unison project...")
	fmt.Println()

	if !isValidProjectName(name) {
		return errors.New("E144").
			WithSuggestion("Use lowercase letters, numbers, and hyphens")
	}

	projectDir, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(projectDir); !os.IsNotExist(err) {
		return errors.New("E140").
			WithDetailf("Directory %q already exists.", name).
			WithSuggestion("Choose a different name or remove the existing directory")
	}

	if description == "" {
		description = "A Unison web application"
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return err
	}

	info("Creating project directory...")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return err
	}

	info("Creating project from %q template...", templateName)
	err = tmpl.Create(projectDir, templates.Config{
		ProjectName: name,
		ModulePath:  name,
		Description: description,
	})
	if err != nil {
		os.RemoveAll(projectDir)
		return err
	}

	info("Installing dependencies...")
	if err := goModTidy(projectDir); err != nil {
		warn("Could not run 'go mod tidy': %v", err)
	}

	fmt.Println()
	success("Created %s/", name)
	fmt.Println()
	fmt.Println("  To get started:")
	fmt.Println()
	fmt.Printf("    cd %s\n", name)
	fmt.Println("    unison dev")
	fmt.Println()
	fmt.Println("  Your app will be running at http://localhost:3000")
	fmt.Println()

	return nil
}

// isValidProjectName rejects names that cannot serve as a module path.
func isValidProjectName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == ' ' || r == '/' || r == '\\' {
			return false
		}
		if i == 0 && r >= '0' && r <= '9' {
			return false
		}
	}
	return true
}

func goModTidy(dir string) error {
	cmd := exec.Command("go", "mod", "tidy")
	cmd.Dir = dir
	return cmd.Run()
}
