package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/extendr/internal/formatter"
	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/repositories"
	"github.com/desertthunder/extendr/internal/shared"
	"github.com/desertthunder/extendr/internal/tasks"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

// Store is the storage surface used by commands. [repositories.Store] implements it.
type Store interface {
	models.Storage
	tasks.TrackStore
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	store      Store
	closer     io.Closer
	logger     *log.Logger
	output     io.Writer
	palette    *formatter.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      Store // Opened from Config.Database on first use when nil
	Logger     *log.Logger
	Output     io.Writer
	Palette    *formatter.Palette
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    opts.Palette,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, userCommand, trackCommand, pipelineCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStore returns the injected store or opens the configured database once.
func (r *Runner) openStore() (Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	store, err := repositories.Open(r.config.Database, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	r.store = store
	r.closer = store
	return store, nil
}

// Close releases a store opened by the runner. Injected stores are left to their owner.
func (r *Runner) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	r.store = nil
	return err
}

func (r *Runner) workflow(store Store) *tasks.Workflow {
	return tasks.NewWorkflow(store, models.SettingsFromConfig(r.config.Processing), r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
