package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tensorir/tirc/internal/lexer"
	"github.com/tensorir/tirc/internal/obslog"
	"github.com/tensorir/tirc/internal/parser"
	"github.com/tensorir/tirc/internal/pipeline"
	"github.com/tensorir/tirc/internal/utils"
	"go.uber.org/zap"
)

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()

	log, err := obslog.New(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tircparse: failed to initialize logging: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	defer func() {
		if r := recover(); r != nil {
			log.Error("internal panic while parsing", zap.Any("recovered", r))
			fmt.Fprintln(os.Stderr, "tircparse: internal error; this is a bug")
			os.Exit(1)
		}
	}()

	args := flag.Args()
	sourceCode, filePath, err := readInput(args)
	if err != nil {
		log.Error("failed to read input", zap.Error(err))
		fmt.Fprintf(os.Stderr, "tircparse: %s\n", err)
		os.Exit(1)
	}

	log.Debug("parsing module",
		zap.String("path", filePath),
		zap.String("name", utils.ExtractModuleName(filePath)),
		zap.String("dir", utils.GetModuleDir(filePath)))

	initialCtx := pipeline.NewPipelineContext(sourceCode)
	initialCtx.FilePath = filePath

	runPipeline := pipeline.New(
		&lexer.Processor{},
		&parser.Processor{},
	)
	finalCtx := runPipeline.Run(initialCtx)

	if len(finalCtx.Errors) > 0 {
		for _, e := range finalCtx.Errors {
			fmt.Fprintf(os.Stderr, "%s\n", e.Error())
		}
		os.Exit(1)
	}

	mod := finalCtx.Module
	fmt.Printf("module %q (stage %s): %d type alias(es), %d record(s), %d function(s)\n",
		mod.Name, mod.Stage, len(mod.TypeAliases), len(mod.Records), len(mod.Functions))
	for _, fn := range mod.Functions {
		kind := "definition"
		if fn.IsDeclaration() {
			kind = "declaration"
		}
		fmt.Printf("  @%s: %s (%s, %d block(s))\n", fn.Name, fn.ValueType(), kind, len(fn.BasicBlocks))
	}
}

func readInput(args []string) (source string, path string, err error) {
	if len(args) == 0 {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", "", fmt.Errorf("usage: tircparse <file.tir> (or pipe source on stdin)")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}

	path = args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), path, nil
}
