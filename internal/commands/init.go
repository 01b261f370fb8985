package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/plugsmith/plugsmith/internal/catalog"
	"github.com/plugsmith/plugsmith/internal/config"
	"github.com/plugsmith/plugsmith/internal/pipeline"
)

type InitOptions struct {
	ProjectName string
	Template    string
	Surface     string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	filesystem FileSystem
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
	}
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	if err := ic.scaffoldProject(options); err != nil {
		return fmt.Errorf("failed to scaffold project: %w", err)
	}

	fmt.Printf("Created project %s with a starter %s request\n", options.ProjectName, options.Template)
	return nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	var projectName string
	var template string
	var surfacePath string

	form, err := ic.createInitForm(&projectName, &template, &surfacePath)
	if err != nil {
		return nil, err
	}

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return &InitOptions{
		ProjectName: projectName,
		Template:    template,
		Surface:     surfacePath,
	}, nil
}

func (ic *InitCommand) createInitForm(projectName, template, surfacePath *string) (*huh.Form, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}

	var templateOptions []huh.Option[string]
	for _, tpl := range cat.List() {
		templateOptions = append(templateOptions,
			huh.NewOption(fmt.Sprintf("%s (%s)", tpl.ID, tpl.Shape), tpl.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Directory to create the project in").
				Value(projectName).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("project name cannot be empty")
					}
					if _, err := ic.filesystem.Stat(s); err == nil {
						return fmt.Errorf("directory %s already exists", s)
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Template").
				Description("Template for the starter request").
				Options(templateOptions...).
				Value(template),

			huh.NewInput().
				Title("Surface declaration").
				Description("Path to the host API surface JSON").
				Value(surfacePath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("surface path cannot be empty")
					}
					return nil
				}),
		),
	), nil
}

// scaffoldProject writes plugsmith.json and a starter request file into a
// fresh project directory.
func (ic *InitCommand) scaffoldProject(options *InitOptions) error {
	if err := ic.filesystem.MkdirAll(options.ProjectName, 0755); err != nil {
		return err
	}

	cfg := config.Config{
		Name:    options.ProjectName,
		Surface: options.Surface,
		Out:     "./dist",
		Request: "./request.json",
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(filepath.Join(options.ProjectName, "plugsmith.json"), append(data, '\n'), 0644); err != nil {
		return err
	}

	req, err := starterRequest(options.Template)
	if err != nil {
		return err
	}
	return ic.filesystem.WriteFile(filepath.Join(options.ProjectName, "request.json"), req, 0644)
}

// starterRequest builds a request skeleton with every slot of the chosen
// template present, required slots first left empty for the user to fill.
func starterRequest(templateID string) ([]byte, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	tpl, err := cat.Get(templateID)
	if err != nil {
		return nil, err
	}

	params := make(map[string]string, len(tpl.Slots))
	for name := range tpl.Slots {
		params[name] = ""
	}
	req := pipeline.Request{TemplateID: tpl.ID, Params: params}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
