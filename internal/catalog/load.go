// Package catalog builds apps from YAML interaction models and wires them into the
// recognizer registry and the dispatcher.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"CommandCore/pkg/datatype"
	"CommandCore/pkg/intent"
)

var ErrUnknownType = errors.New("parameter type is not a registered recognizer")

type Loader struct {
	registry   *datatype.Registry
	dispatcher *intent.Dispatcher
	validate   *validator.Validate
	log        *logrus.Logger
}

func New(registry *datatype.Registry, dispatcher *intent.Dispatcher, validate *validator.Validate, log *logrus.Logger) *Loader {
	if validate == nil {
		validate = validator.New()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{
		registry:   registry,
		dispatcher: dispatcher,
		validate:   validate,
		log:        log,
	}
}

// Parse decodes and validates one document. Unknown keys are rejected.
func (l *Loader) Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := l.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate catalog %s: %w", doc.ID, err)
	}
	return &doc, nil
}

func (l *Loader) LoadFile(path string) (*intent.App, []intent.Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	doc, err := l.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	doc.Source = path

	return l.Build(doc)
}

// LoadDir loads every .yaml/.yml file of dir in name order. A missing directory yields
// no apps.
func (l *Loader) LoadDir(dir string) ([]*intent.App, []intent.Warning, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read catalog dir %s: %w", dir, err)
	}

	var apps []*intent.App
	var warnings []intent.Warning
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		app, w, err := l.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, nil, err
		}
		apps = append(apps, app)
		warnings = append(warnings, w...)
	}

	return apps, warnings, nil
}

// Build registers the document's enumerations, builds its operations and binds a
// response-rendering handler for each of them.
func (l *Loader) Build(doc *Document) (*intent.App, []intent.Warning, error) {
	for _, enum := range doc.Enumerations {
		var opts []datatype.Option
		if len(enum.Pronouns) > 0 {
			opts = append(opts, datatype.WithPronouns(enum.Pronouns...))
		}

		rec, err := l.registry.Enumeration(enum.Kind, enum.Name, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("app %s: %w", doc.ID, err)
		}
		for _, v := range enum.Values {
			if err := rec.Add(v.ID, v.Terms...); err != nil {
				return nil, nil, fmt.Errorf("app %s enumeration %s value %s: %w", doc.ID, enum.Kind, v.ID, err)
			}
		}
	}

	name := doc.Name
	if name == "" {
		name = doc.ID
	}
	app := intent.NewApp(doc.ID, name)

	var warnings []intent.Warning
	for _, od := range doc.Operations {
		params := make([]intent.Parameter, 0, len(od.Parameters))
		for _, p := range od.Parameters {
			rec, err := l.registry.Get(p.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("app %s operation %s parameter %s: %w: %s", doc.ID, od.ID, p.Name, ErrUnknownType, p.Type)
			}
			params = append(params, intent.Parameter{Name: p.Name, Recognizer: rec, Optional: p.Optional})
		}

		op, w, err := intent.NewOperation(doc.ID, od.ID, params, od.Templates...)
		if err != nil {
			return nil, nil, fmt.Errorf("app %s: %w", doc.ID, err)
		}
		warnings = append(warnings, w...)

		if err := app.Add(op); err != nil {
			return nil, nil, err
		}

		results, err := resultSpecs(op, od.Results)
		if err != nil {
			return nil, nil, fmt.Errorf("app %s: %w", doc.ID, err)
		}
		l.dispatcher.Handle(op.Key(), renderHandler(od.Response, results))
	}

	for _, w := range warnings {
		l.log.WithFields(logrus.Fields{
			"app":       w.AppID,
			"operation": w.OperationID,
			"template":  w.Template,
		}).Warn(w.Message)
	}

	l.log.WithFields(logrus.Fields{
		"app":        app.ID,
		"operations": len(app.Operations),
		"source":     doc.Source,
	}).Info("Catalog loaded")

	return app, warnings, nil
}

func resultSpecs(op *intent.Operation, results []Result) ([]resultSpec, error) {
	out := make([]resultSpec, 0, len(results))
	for _, r := range results {
		p, ok := op.Parameter(r.From)
		if !ok {
			return nil, fmt.Errorf("operation %s result %s: %w: %s", op.ID(), r.Name, intent.ErrUnknownParameter, r.From)
		}
		out = append(out, resultSpec{name: r.Name, from: p.Name, kind: p.Recognizer.Kind()})
	}
	return out, nil
}
