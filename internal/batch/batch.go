// Package batch reads rename batch scripts.
//
// A script is an INI file. Every section describes one rename command:
//
//	# weekly tidy
//	[shows]
//	input = /media/tv
//	pattern = {n} - {s00e00} - {t}
//	recursive = true
//
//	[movies]
//	input = /media/movies
//	template = Movie - Standard
//	backup = true
//
// Lines starting with #, ; or // are comments. Keys that appear before the
// first section are ignored.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dotnetappdev/renameit/internal/naming"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// Command is one section of a batch script.
type Command struct {
	Name      string `mapstructure:"-"`
	Input     string `mapstructure:"input" validate:"required"`
	Pattern   string `mapstructure:"pattern" validate:"omitempty,pattern"`
	Template  string `mapstructure:"template"`
	Source    string `mapstructure:"source"`
	Output    string `mapstructure:"output"`
	Filter    string `mapstructure:"filter"`
	Recursive bool   `mapstructure:"recursive"`
	Backup    bool   `mapstructure:"backup"`
	MaxDepth  int    `mapstructure:"max_depth" validate:"min=-1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	if err := v.RegisterValidation("pattern", func(fl validator.FieldLevel) bool {
		return naming.Validate(fl.Field().String()) == nil
	}); err != nil {
		panic(fmt.Sprintf("registering pattern validation: %v", err))
	}
	return v
}

// Load reads and parses the script at path.
func Load(fs afero.Fs, path string) ([]Command, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch script: %w", err)
	}
	cmds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cmds, nil
}

// Parse decodes a batch script. Sections may share a name.
func Parse(data []byte) ([]Command, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowNonUniqueSections: true,
		InsensitiveKeys:        true,
		IgnoreInlineComment:    true,
	}, stripSlashComments(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch script: %w", err)
	}

	var cmds []Command
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			if len(sec.Keys()) > 0 {
				log.Debug().Strs("keys", sec.KeyStrings()).Msg("ignoring keys before first section")
			}
			continue
		}

		cmd, err := decode(sec)
		if err != nil {
			return nil, fmt.Errorf("command %d [%s]: %w", len(cmds)+1, sec.Name(), err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func decode(sec *ini.Section) (Command, error) {
	cmd := Command{Name: sec.Name(), MaxDepth: -1}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cmd,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Command{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(sec.KeysHash()); err != nil {
		return Command{}, err
	}

	if err := validate.Struct(&cmd); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatValidationError(fe, cmd))
			}
			return Command{}, errors.New(strings.Join(msgs, "; "))
		}
		return Command{}, err
	}
	return cmd, nil
}

func formatValidationError(fe validator.FieldError, cmd Command) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "pattern":
		return fmt.Sprintf("pattern: %v", naming.Validate(cmd.Pattern))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// stripSlashComments blanks out // comment lines, which INI does not know.
func stripSlashComments(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte("//")) {
			lines[i] = nil
		}
	}
	return bytes.Join(lines, []byte("\n"))
}

// Result counts the outcome of a batch run.
type Result struct {
	Total   int
	Run     int
	Failed  int
	Stopped bool
}

// Run executes cmds in order through fn. The first failure stops the run
// unless continueOnError is set. Cancellation stops before the next command.
func Run(ctx context.Context, cmds []Command, continueOnError bool, fn func(ctx context.Context, index int, cmd Command) error) (Result, error) {
	res := Result{Total: len(cmds)}
	for i, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		res.Run++
		if err := fn(ctx, i, cmd); err != nil {
			res.Failed++
			log.Warn().Err(err).Int("command", i+1).Str("section", cmd.Name).Msg("batch command failed")
			if !continueOnError {
				res.Stopped = true
				break
			}
		}
	}
	return res, nil
}
