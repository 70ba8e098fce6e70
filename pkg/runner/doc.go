/*
Package runner drives an interactive conversation with a Concierge over a pair of streams.

The Runner reads one line at a time through an IOHandler, sanitizes it, submits it as a turn
and writes the reply back. TextHandler is meant for people at a terminal; JSONHandler speaks
newline-delimited JSON for scripts and other processes.

# Usage

	r := runner.New(c,
		runner.WithHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithSessionID("user-1"),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}

Typing "exit" or "quit", or closing the input stream, ends the loop. An interrupt while a
turn is in flight discards that turn and returns to the prompt.
*/
package runner
