package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/till/currency"
)

const usage = `commands:
- add NOTE=COUNT...          put notes into register
- remove NOTE=COUNT...       take notes out of register
- pay BILLED NOTE=COUNT...   accept payment, print change
- change AMOUNT              show change for amount, register unchanged
- count NOTE                 number of notes in register
- balance                    print notes and total
- stats                      errors logged in this session
- help
NOTE is one of 20 10 5 2 1, example: pay 19 10=2 5=1 1=1
`

type command struct {
	name   string
	amount currency.Amount
	note   currency.Nominal
	notes  *currency.NominalGroup
}

func parseCommand(line string) (*command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.NotValidf("empty command")
	}
	cmd := &command{name: fields[0]}
	args := fields[1:]
	var err error
	switch cmd.name {
	case "add", "remove":
		if len(args) == 0 {
			return nil, errors.NotValidf("%s without notes", cmd.name)
		}
		cmd.notes, err = parseNotes(args)
	case "pay":
		if len(args) < 1 {
			return nil, errors.NotValidf("pay without billed amount")
		}
		if cmd.amount, err = parseAmount(args[0]); err != nil {
			return nil, err
		}
		cmd.notes, err = parseNotes(args[1:])
	case "change":
		if len(args) != 1 {
			return nil, errors.NotValidf("change requires exactly one amount")
		}
		cmd.amount, err = parseAmount(args[0])
	case "count":
		if len(args) != 1 {
			return nil, errors.NotValidf("count requires exactly one note")
		}
		cmd.note, err = currency.ParseNominal(args[0])
	case "balance", "stats", "help":
		if len(args) != 0 {
			return nil, errors.NotValidf("%s takes no arguments", cmd.name)
		}
	default:
		return nil, errors.NotValidf("unknown command=%s", cmd.name)
	}
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

func parseAmount(s string) (currency.Amount, error) {
	u, err := strconv.ParseUint(strings.TrimPrefix(s, "$"), 10, 32)
	if err != nil {
		return 0, errors.NewNotValid(err, fmt.Sprintf("amount=%s", s))
	}
	return currency.Amount(u), nil
}

// parseNotes reads "20=2 5=1", repeated note counts are summed.
func parseNotes(args []string) (*currency.NominalGroup, error) {
	ng := currency.NewGroup()
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, errors.NotValidf("notes=%s expected NOTE=COUNT", arg)
		}
		n, err := currency.ParseNominal(parts[0])
		if err != nil {
			return nil, err
		}
		c, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, errors.NewNotValid(err, fmt.Sprintf("notes=%s count", arg))
		}
		ng.MustAdd(n, uint(c))
	}
	if _, err := ng.TotalChecked(); err != nil {
		return nil, errors.NewNotValid(err, fmt.Sprintf("notes=%s", strings.Join(args, " ")))
	}
	return ng, nil
}

func (cmd *command) exec(s *session, w io.Writer) error {
	r := s.register
	switch cmd.name {
	case "add":
		if err := r.AddCash(cmd.notes); err != nil {
			return errors.Annotate(err, "add")
		}
	case "remove":
		if err := r.RemoveCash(cmd.notes); err != nil {
			return errors.Annotate(err, "remove")
		}
	case "pay":
		change, err := r.ProcessPayment(cmd.amount, cmd.notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "change: %s\n", change.String())
	case "change":
		change, err := r.GenerateChange(cmd.amount)
		if err != nil {
			return errors.Annotate(err, "change")
		}
		fmt.Fprintf(w, "change: %s\n", change.String())
	case "count":
		fmt.Fprintf(w, "$%s: %d\n", cmd.note, r.NoteCount(cmd.note))
	case "balance":
		return r.DisplayBalance(w)
	case "stats":
		fmt.Fprintf(w, "errors: %d\n", s.Errors())
	case "help":
		_, err := io.WriteString(w, usage)
		return err
	default:
		panic("code error unhandled command=" + cmd.name)
	}
	return nil
}

var suggests = []prompt.Suggest{
	{Text: "add", Description: "put notes into register"},
	{Text: "remove", Description: "take notes out of register"},
	{Text: "pay", Description: "accept payment, print change"},
	{Text: "change", Description: "show change for amount"},
	{Text: "count", Description: "number of notes"},
	{Text: "balance", Description: "print notes and total"},
	{Text: "stats", Description: "errors logged in this session"},
	{Text: "help", Description: "show usage"},
}

func complete(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return nil
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
}
