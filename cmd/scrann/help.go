package main

import (
	"bytes"
	"embed"
	"flag"
	"log"
	"os"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

// HelpData is implemented by the root command and every subcommand so
// UsageError can render the matching help template.
type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	data := struct {
		Program string
		Flags   []flagInfo
	}{Program: e.of.Program()}
	if fs := e.of.FlagSet(); fs != nil {
		fs.VisitAll(func(f *flag.Flag) {
			data.Flags = append(data.Flags, flagInfo{f.Name, f.DefValue, f.Usage})
		})
	}
	var buf bytes.Buffer
	if err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), data); err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

func usageFunc(h HelpData) func() {
	return func() {
		uerr := &UsageError{of: h}
		if _, err := os.Stderr.WriteString(uerr.Error()); err != nil {
			log.Printf("write usage: %v", err)
		}
	}
}

func (r *root) Template() string { return "root.txt" }

func (a *annotateCmd) Template() string { return "annotate.txt" }

func (d *drawCmd) Template() string { return "draw.txt" }

func (c *configCmd) Template() string { return "config.txt" }
