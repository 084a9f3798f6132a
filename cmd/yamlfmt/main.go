// Command yamlfmt reformats YAML documents: it decodes each document in its
// input with the Scanner/Parser/Composer pipeline and re-emits it through
// the Emitter with the requested style options, the way gofmt reformats Go
// source through its own parse/print pipeline.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go.yamlcore.dev/yaml"
	"go.yamlcore.dev/yaml/internal/token"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		indent        int
		width         int
		canonical     bool
		lineBreak     string
		explicitStart bool
		explicitEnd   bool
	)

	cmd := &cobra.Command{
		Use:   "yamlfmt [file ...]",
		Short: "Reformat YAML documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			lb, err := parseLineBreak(lineBreak)
			if err != nil {
				return err
			}
			opts := []yaml.EncoderOption{
				yaml.WithIndent(indent),
				yaml.WithWidth(width),
				yaml.WithCanonical(canonical),
				yaml.WithLineBreak(lb),
				yaml.WithExplicitStart(explicitStart),
				yaml.WithExplicitEnd(explicitEnd),
			}
			if len(args) == 0 {
				return format(os.Stdin, os.Stdout, opts...)
			}
			for _, path := range args {
				if err := formatFile(path, opts...); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&indent, "indent", 2, "indentation width, 1-9")
	flags.IntVar(&width, "width", 80, "preferred line width for wrapping")
	flags.BoolVar(&canonical, "canonical", false, "emit in canonical form")
	flags.StringVar(&lineBreak, "line-break", "unix", "line break style: unix, windows, or mac")
	flags.BoolVar(&explicitStart, "explicit-start", false, "always write the --- document marker")
	flags.BoolVar(&explicitEnd, "explicit-end", false, "always write the ... document marker")
	return cmd
}

func parseLineBreak(s string) (token.LineBreak, error) {
	switch s {
	case "unix", "":
		return token.UnixBreak, nil
	case "windows":
		return token.WindowsBreak, nil
	case "mac":
		return token.MacBreak, nil
	}
	return 0, fmt.Errorf("unknown --line-break value %q", s)
}

func formatFile(path string, opts ...yaml.EncoderOption) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf []byte
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(format(f, pw, opts...))
	}()
	buf, err = io.ReadAll(pr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func format(r io.Reader, w io.Writer, opts ...yaml.EncoderOption) error {
	dec := yaml.NewDecoder(r)
	enc := yaml.NewEncoder(w, opts...)
	for {
		var v yaml.Node
		err := dec.Decode(&v)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(&v); err != nil {
			return err
		}
	}
	return enc.Close()
}
