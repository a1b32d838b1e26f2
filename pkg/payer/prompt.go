package payer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

type line struct {
	text string
	err  error
}

// prompter reads in from a single goroutine so that callers never share
// the bufio.Reader.  turn lets one payment at a time hold the terminal.
type prompter struct {
	in   io.Reader
	out  io.Writer
	turn chan struct{}

	once  sync.Once
	lines chan line
}

// Prompt returns a PreimageFunc that lets a person act as the wallet.
// The invoice is written to out and the preimage is read as one line from
// in.
//
// It serves one payment at a time, concurrent calls wait their turn.  A
// call abandoned through ctx leaves the next line it would have read to
// whichever call comes next.
func Prompt(in io.Reader, out io.Writer) PreimageFunc {
	p := &prompter{
		in:    in,
		out:   out,
		turn:  make(chan struct{}, 1),
		lines: make(chan line, 1),
	}

	return p.preimage
}

func (p *prompter) preimage(ctx context.Context, invoice string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case p.turn <- struct{}{}:
	}

	defer func() { <-p.turn }()

	p.once.Do(func() { go p.read() })

	if _, err := fmt.Fprintf(p.out, "Pay this invoice and enter the preimage:\n\n%s\n\npreimage> ", invoice); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}

		return l.text, l.err
	}
}

func (p *prompter) read() {
	defer close(p.lines)

	r := bufio.NewReader(p.in)

	for {
		text, err := r.ReadString('\n')
		if text != "" {
			p.lines <- line{text: text}
		}

		if err != nil {
			if text == "" {
				p.lines <- line{err: err}
			}

			return
		}
	}
}
