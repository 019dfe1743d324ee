package main

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/temoto/till/log2"
	"github.com/temoto/till/register"
)

// session binds register to command line and counts errors reported to log,
// rejected payments included.
type session struct {
	register *register.Register
	log      *log2.Log
	errors   uint32 // atomic
}

func newSession(log *log2.Log) *session {
	s := &session{
		register: register.New(log),
		log:      log,
	}
	log.SetErrorFunc(s.countError)
	return s
}

func (s *session) countError(error) { atomic.AddUint32(&s.errors, 1) }

func (s *session) Errors() uint32 { return atomic.LoadUint32(&s.errors) }

// execLine runs one command, errors are printed to w, not logged.
func (s *session) execLine(line string, w io.Writer) {
	if line == "" {
		return
	}
	cmd, err := parseCommand(line)
	if err == nil {
		err = cmd.exec(s, w)
	}
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
	}
}
