package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"

	"github.com/funvibe/sift/internal/ast"
	"github.com/funvibe/sift/internal/config"
	"github.com/funvibe/sift/internal/input"
	"github.com/funvibe/sift/internal/output"
	"github.com/funvibe/sift/internal/parser"
	"github.com/funvibe/sift/internal/pipeline"
)

const usage = `sift %s - a streaming record processor

usage: sift [global-opts] verb [verb-opts] [then verb ...] [file ...]

global options:
  -i FMT        input format: dkvp, nidx, csv, json, sqlite (default dkvp)
  -o FMT        output format: dkvp, csv, json, xtab, pprint (default dkvp)
  --ofmt FMT    numeric output format for doubles (default %%f)
  --ifs SEP     input field separator (dkvp)
  --ofs SEP     output field separator (dkvp)
  --from-table T  table name for -i sqlite
  --rc PATH     rc file (default ~/%s)

verbs:
  put    -e 'DSL' | -f FILE   transform records with the DSL
  filter -e 'DSL' | -f FILE   keep records where the expression is true
  cat                         pass records through
  head   -n N                 keep the first N records
  tac                         reverse the record stream
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "sift: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	rcPath := ""

	// A first pass finds --rc so rc-file values layer under the flags.
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "--rc" {
			rcPath = args[i+1]
		}
	}
	opts, err := config.LoadRC(rcPath)
	if err != nil {
		return err
	}

	// Global options run up to the first verb name.
	i := 0
	for i < len(args) {
		arg := args[i]
		switch arg {
		case "-h", "--help":
			fmt.Printf(usage, config.Version, config.RCFileName)
			return nil
		case "--version":
			fmt.Println(config.Version)
			return nil
		case "-i":
			opts.InputFormat, i = argValue(args, i)
		case "-o":
			opts.OutputFormat, i = argValue(args, i)
		case "--ofmt":
			opts.Ofmt, i = argValue(args, i)
		case "--ifs":
			opts.IFS, i = argValue(args, i)
		case "--ofs":
			opts.OFS, i = argValue(args, i)
		case "--from-table":
			opts.FromTable, i = argValue(args, i)
		case "--rc":
			_, i = argValue(args, i) // consumed in the first pass
		default:
			goto verbs
		}
		i++
	}

verbs:
	if i >= len(args) {
		fmt.Printf(usage, config.Version, config.RCFileName)
		return errors.New("no verb given")
	}

	verbs, files, err := parseVerbChain(args[i:], opts)
	if err != nil {
		return err
	}

	sources, err := openSources(files, opts)
	if err != nil {
		return err
	}

	writer, err := makeWriter(os.Stdout, opts)
	if err != nil {
		return err
	}

	pl := pipeline.New(verbs...)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		pl.Stop()
	}()

	return pl.Run(sources, writer)
}

func argValue(args []string, i int) (string, int) {
	if i+1 < len(args) {
		return args[i+1], i + 1
	}
	return "", i
}

// parseVerbChain consumes "verb [opts] then verb [opts] ..." and returns the
// verbs plus the trailing file arguments.
func parseVerbChain(args []string, opts config.Options) ([]pipeline.Verb, []string, error) {
	var verbs []pipeline.Verb
	i := 0
	for i < len(args) {
		name := args[i]
		i++
		var verb pipeline.Verb
		var err error
		switch name {
		case "put", "filter":
			verb, i, err = parseDSLVerb(name, args, i, opts)
		case "cat":
			verb = pipeline.CatVerb{}
		case "head":
			verb, i, err = parseHeadVerb(args, i)
		case "tac":
			verb = &pipeline.TacVerb{}
		default:
			return nil, nil, errors.Errorf("unknown verb %q", name)
		}
		if err != nil {
			return nil, nil, err
		}
		verbs = append(verbs, verb)
		if i < len(args) && args[i] == "then" {
			i++
			continue
		}
		break
	}
	return verbs, args[i:], nil
}

func parseDSLVerb(name string, args []string, i int, opts config.Options) (pipeline.Verb, int, error) {
	src := ""
	srcFile := ""
	for i < len(args) {
		switch args[i] {
		case "-e":
			src, i = argValue(args, i)
		case "-f":
			srcFile, i = argValue(args, i)
		default:
			goto done
		}
		i++
	}
done:
	if srcFile != "" {
		data, err := os.ReadFile(srcFile)
		if err != nil {
			return nil, i, errors.Wrapf(err, "reading %s program", name)
		}
		src = string(data)
	}
	if src == "" {
		return nil, i, errors.Errorf("%s: missing -e expression or -f file", name)
	}

	prog, diags := parser.Parse(src)
	if len(diags) > 0 {
		for _, d := range diags {
			if d.File == "" {
				d.File = srcFile
			}
			fmt.Fprintln(os.Stderr, d.Error())
		}
		return nil, i, errors.Errorf("%s: %d parse error(s)", name, len(diags))
	}

	return makeDSLVerb(name, prog, opts.Ofmt), i, nil
}

func makeDSLVerb(name string, prog *ast.Program, ofmt string) pipeline.Verb {
	if name == "filter" {
		return pipeline.NewFilter(prog, ofmt)
	}
	return pipeline.NewPut(prog, ofmt)
}

func parseHeadVerb(args []string, i int) (pipeline.Verb, int, error) {
	n := int64(10)
	if i < len(args) && args[i] == "-n" {
		v, ni := argValue(args, i)
		i = ni + 1
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, i, errors.Errorf("head: bad count %q", v)
		}
		n = parsed
	}
	return &pipeline.HeadVerb{N: n}, i, nil
}

func openSources(files []string, opts config.Options) ([]pipeline.Source, error) {
	if opts.InputFormat == "sqlite" {
		if opts.FromTable == "" {
			return nil, errors.New("-i sqlite requires --from-table")
		}
		var sources []pipeline.Source
		for _, f := range files {
			r, err := input.NewSQLiteReader(f, opts.FromTable)
			if err != nil {
				return nil, err
			}
			sources = append(sources, pipeline.Source{Name: f, Reader: r})
		}
		if len(sources) == 0 {
			return nil, errors.New("-i sqlite requires at least one database file")
		}
		return sources, nil
	}

	if len(files) == 0 {
		r, err := makeReader(os.Stdin, opts)
		if err != nil {
			return nil, err
		}
		return []pipeline.Source{{Name: "(stdin)", Reader: r}}, nil
	}

	var sources []pipeline.Source
	for _, f := range files {
		fp, err := os.Open(f)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", f)
		}
		r, err := makeReader(fp, opts)
		if err != nil {
			return nil, err
		}
		sources = append(sources, pipeline.Source{Name: f, Reader: r})
	}
	return sources, nil
}

func makeReader(r io.Reader, opts config.Options) (input.Reader, error) {
	switch opts.InputFormat {
	case "dkvp":
		return input.NewDKVPReader(r, opts.IFS, "="), nil
	case "nidx":
		return input.NewNIDXReader(r), nil
	case "csv":
		return input.NewCSVReader(r, 0), nil
	case "json":
		return input.NewJSONReader(r), nil
	default:
		return nil, errors.Errorf("unknown input format %q", opts.InputFormat)
	}
}

func makeWriter(w io.Writer, opts config.Options) (output.Writer, error) {
	switch opts.OutputFormat {
	case "dkvp":
		return output.NewDKVPWriter(w, opts.OFS, "="), nil
	case "csv":
		return output.NewCSVWriter(w, 0), nil
	case "json":
		return output.NewJSONWriter(w), nil
	case "xtab":
		return output.NewXTABWriter(w), nil
	case "pprint":
		return output.NewPPRINTWriter(w), nil
	default:
		return nil, errors.Errorf("unknown output format %q", opts.OutputFormat)
	}
}
