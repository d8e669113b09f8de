package main

import (
	"fmt"

	"github.com/alnah/go-resumecli"
)

// defaultResumePath is where `new` writes without an argument.
const defaultResumePath = "cv.yaml"

// runNew scaffolds a sample résumé and its schema.
func runNew(args []string, env *Environment) error {
	flags, positional, err := parseNewFlags(args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: new takes one path, got %d", ErrInvalidFlags, len(positional))
	}

	path := defaultResumePath
	if len(positional) == 1 {
		path = positional[0]
	}

	res, err := resumecli.NewResume(path, flags.force)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", res.ResumePath)
	fmt.Fprintf(env.Stdout, "Created %s\n", res.SchemaPath)
	fmt.Fprintf(env.Stdout, "\nNext: resumecli preview %s\n", res.ResumePath)
	return nil
}
