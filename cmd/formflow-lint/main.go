// Command formflow-lint checks form documents for configuration defects the
// engine only reports at runtime: duplicate control names, unknown validator
// types, gating rules with no definition, and validator references to
// controls that do not exist.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	charmlog "github.com/charmbracelet/log"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/rules"
	"github.com/goliatone/go-formflow/pkg/wire"
)

type violation struct {
	file    string
	subject string
	message string
}

func main() {
	rulesPath := flag.String("rules", "", "optional rule-source document (JSON or YAML)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-rules file] <form documents...>\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint form documents for configuration defects.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	registry := rules.NewRegistry(charmlog.New(io.Discard))
	if *rulesPath != "" {
		raw, err := os.ReadFile(*rulesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read rules %s: %v\n", *rulesPath, err)
			os.Exit(1)
		}
		if err := wire.DecodeRules(raw, registry); err != nil {
			fmt.Fprintf(os.Stderr, "decode rules %s: %v\n", *rulesPath, err)
			os.Exit(1)
		}
	}

	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(path, registry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].subject == violations[j].subject {
					return violations[i].message < violations[j].message
				}
				return violations[i].subject < violations[j].subject
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.subject, v.message)
		}
		os.Exit(1)
	}
}

func lintFile(path string, registry *rules.Registry) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	form, err := wire.Decode(raw, registry, model.Options{Logger: charmlog.New(io.Discard)})
	if err != nil {
		return nil, err
	}

	var violations []violation
	report := func(subject, format string, args ...any) {
		violations = append(violations, violation{
			file:    path,
			subject: subject,
			message: fmt.Sprintf(format, args...),
		})
	}

	if err := form.Initialise(); err != nil {
		report("form", "%v", err)
		return violations, nil
	}
	if len(form.Questions) == 0 {
		report("form", "no questions defined; navigation will fail")
	}

	controls := make(map[string]struct{})
	for _, question := range form.Questions {
		if question.RuleToMatch != "" && registry.Rule(question.RuleToMatch) == nil {
			report(question.Caption, "display rule %q is not defined; the question will never show", question.RuleToMatch)
		}
		if form.Section(question.SectionID) == nil {
			report(question.Caption, "references unknown section %d", question.SectionID)
		}
		for _, control := range question.Controls {
			controls[control.Name] = struct{}{}
		}
	}
	for _, section := range form.Sections {
		if section.RuleToMatch != "" && registry.Rule(section.RuleToMatch) == nil {
			report(section.Title, "display rule %q is not defined; the section will never show", section.RuleToMatch)
		}
	}

	for _, question := range form.Questions {
		for _, control := range question.Controls {
			for _, validator := range control.Validators {
				for _, field := range validator.ReferencedFields() {
					if _, ok := controls[field]; !ok {
						report(control.Name, "validator references unknown control %q", field)
					}
				}
			}
			for _, field := range control.Dependencies {
				if _, ok := controls[field]; !ok {
					report(control.Name, "option source depends on unknown control %q", field)
				}
			}
		}
	}
	return violations, nil
}
