package main

import (
	"flag"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/till/helpers/cli"
	"github.com/temoto/till/log2"
	"github.com/temoto/till/state"
)

var log = log2.NewStderr(log2.LInfo)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "till.hcl", "")
	_ = cmdline.Parse(os.Args[1:])

	log.SetFlags(log2.LInteractiveFlags)

	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	if config.LogDebug {
		log.SetLevel(log2.LDebug)
	}
	log.Debugf("config=%+v", config)

	s := newSession(log)
	float, err := config.Float()
	if err == nil {
		err = s.register.AddCash(float)
	}
	if err != nil {
		log.Fatal(errors.ErrorStack(errors.Annotate(err, "load float")))
	}

	exec := func(line string) { s.execLine(line, os.Stdout) }
	if err := cli.MainLoop("till", exec, complete); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}
