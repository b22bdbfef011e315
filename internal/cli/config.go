package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/mdash/internal/config"
	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/ui"
)

// configInitCommand writes the default config to path.
func configInitCommand(w io.Writer, path string, force bool) error {
	if err := config.Write(path, config.DefaultConfig(), force); err != nil {
		return err
	}
	fmt.Fprintln(w, ui.SuccessStyle().Render(fmt.Sprintf("%s Created %s", ui.SymbolSuccess, path)))
	return nil
}

// configShowCommand prints the effective configuration.
func configShowCommand(w io.Writer, a *app) error {
	if machineMode {
		return WriteJSONSuccess(w, map[string]interface{}{
			"path":   a.cfgPath,
			"config": a.cfg,
		})
	}

	data, err := config.Marshal(a.cfg)
	if err != nil {
		return err
	}
	source := a.cfgPath
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintf(w, "# source: %s\n", source)
	_, err = w.Write(data)
	return err
}

// configSetCommand changes one key in the config file. The file is
// restored when the result does not validate.
func configSetCommand(w io.Writer, explicit, key, value string) error {
	path, err := config.Find(explicit)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'mdash config init' first.")
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Can't read "+path, "")
	}
	if err := config.SetKey(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't set %s", key),
			"Keys are dotted, e.g. sort.column or log.level.")
	}

	cfg, err := config.Load(path)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		if restoreErr := os.WriteFile(path, original, 0o644); restoreErr != nil {
			return errors.WrapWithCode(restoreErr, errors.ErrConfig,
				"Can't restore "+path, "The file may contain the invalid value.")
		}
		return err
	}

	fmt.Fprintln(w, ui.SuccessStyle().Render(fmt.Sprintf("%s Set %s = %s in %s", ui.SymbolSuccess, key, value, path)))
	return nil
}
