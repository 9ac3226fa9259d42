// Package importer pushes form definition files into a running form service.
// It walks a directory for JSON and YAML definitions, authenticates as admin,
// skips forms the service already has, and creates the rest.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formhost/pkg/client"
	"github.com/goliatone/go-formhost/pkg/formio"
)

// ErrSetup marks failures that happen before any form is attempted: bad
// directory, login failure, listing failure. Callers map it to a distinct
// exit code.
var ErrSetup = errors.New("importer: setup failed")

// Service is the slice of the API client the importer consumes.
type Service interface {
	AdminLogin(ctx context.Context, email, password string) (client.LoginResult, error)
	ListForms(ctx context.Context) ([]formio.Form, error)
	CreateForm(ctx context.Context, form formio.Form) (formio.Form, error)
}

// Result records the outcome for one definition file.
type Result struct {
	File    string
	Name    string
	Err     error
	Skip    bool
	Updated bool
	Title   string
}

// Report summarises an import run.
type Report struct {
	Created int
	Updated int
	Skipped int
	Failed  int
	Results []Result
}

// Options configure an import run.
type Options struct {
	Dir      string
	Email    string
	Password string

	// Update replaces components of forms that already exist instead of
	// skipping them.
	Update bool

	Log *slog.Logger
}

// Updater is implemented by services that can replace an existing form.
type Updater interface {
	UpdateForm(ctx context.Context, formID string, form formio.Form) (formio.Form, error)
}

// Run executes an import against svc. Per-form failures are recorded in the
// report and do not stop the run; setup failures return an error wrapping
// ErrSetup.
func Run(ctx context.Context, svc Service, opts Options) (Report, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	files, err := definitionFiles(opts.Dir)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	if len(files) == 0 {
		return Report{}, fmt.Errorf("%w: no form definitions under %s", ErrSetup, opts.Dir)
	}

	if _, err := svc.AdminLogin(ctx, opts.Email, opts.Password); err != nil {
		return Report{}, fmt.Errorf("%w: admin login: %v", ErrSetup, err)
	}

	existing, err := svc.ListForms(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("%w: list forms: %v", ErrSetup, err)
	}
	byName := make(map[string]formio.Form, len(existing))
	byPath := make(map[string]formio.Form, len(existing))
	for _, form := range existing {
		if form.Name != "" {
			byName[form.Name] = form
		}
		if form.Path != "" {
			byPath[strings.Trim(form.Path, "/")] = form
		}
	}

	var report Report
	for _, file := range files {
		result := Result{File: file}
		form, err := loadDefinition(file)
		if err != nil {
			result.Err = err
			report.Failed++
			report.Results = append(report.Results, result)
			log.Error("skipping unreadable definition", "file", file, "error", err)
			continue
		}
		result.Name = form.Name
		result.Title = form.Title

		current, exists := byName[form.Name]
		if !exists {
			current, exists = byPath[strings.Trim(form.Path, "/")]
		}

		switch {
		case exists && !opts.Update:
			result.Skip = true
			report.Skipped++
			log.Info("form exists, skipped", "name", form.Name)
		case exists:
			updater, ok := svc.(Updater)
			if !ok {
				result.Err = errors.New("importer: service does not support updates")
				report.Failed++
				break
			}
			if _, err := updater.UpdateForm(ctx, current.ID, form); err != nil {
				result.Err = err
				report.Failed++
				log.Error("update failed", "name", form.Name, "error", err)
			} else {
				result.Updated = true
				report.Updated++
				log.Info("form updated", "name", form.Name)
			}
		default:
			if _, err := svc.CreateForm(ctx, form); err != nil {
				result.Err = err
				report.Failed++
				log.Error("create failed", "name", form.Name, "error", err)
			} else {
				report.Created++
				log.Info("form created", "name", form.Name, "title", form.Title)
			}
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}

// definitionFiles collects .json, .yml and .yaml files under dir, sorted so
// runs are deterministic.
func definitionFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yml", ".yaml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func loadDefinition(path string) (formio.Form, error) {
	var form formio.Form
	data, err := os.ReadFile(path)
	if err != nil {
		return form, err
	}

	if strings.ToLower(filepath.Ext(path)) != ".json" {
		// Components are polymorphic JSON, so YAML definitions go through a
		// JSON detour to reuse the component decoder.
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return form, fmt.Errorf("parse %s: %w", path, err)
		}
		data, err = json.Marshal(tree)
		if err != nil {
			return form, fmt.Errorf("convert %s: %w", path, err)
		}
	}

	if err := json.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("parse %s: %w", path, err)
	}
	if form.Name == "" && form.Path == "" {
		return form, fmt.Errorf("%s: definition has neither name nor path", path)
	}
	if form.Name == "" {
		form.Name = strings.Trim(form.Path, "/")
	}
	if form.Path == "" {
		form.Path = form.Name
	}
	return form, nil
}
