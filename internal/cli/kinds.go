package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/eprocure/lookups/internal/entities"
)

// KindsCommand prints the option kind registry.
type KindsCommand struct {
	NamesOnly bool

	out io.Writer
}

func NewKindsCommand() *KindsCommand {
	return &KindsCommand{out: os.Stdout}
}

func (cmd *KindsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("kinds", flag.ContinueOnError)
	fs.BoolVar(&cmd.NamesOnly, "names", false, "Print only kind names, one per line")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s kinds [-names]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List every option kind with its table and route prefix.\n\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (cmd *KindsCommand) Run() error {
	kinds := entities.AllKinds()

	if cmd.NamesOnly {
		for _, k := range kinds {
			fmt.Fprintln(cmd.out, k.Name)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tTABLE\tROUTES")
	for _, k := range kinds {
		fmt.Fprintf(w, "%s\t%s\t%s/...\n", k.Name, k.Table, k.RoutePrefix())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "\n%d kinds\n", len(kinds))
	return nil
}
