// Package voice adapts text streams to the conversational loop: a Listener
// that yields one utterance per line and a Speaker that serializes replies
// through a single writer goroutine, standing in for speech recognition and
// text-to-speech engines.
package voice

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Listener yields utterances from an input stream, one per line.
type Listener struct {
	scanner *bufio.Scanner
}

func NewListener(r io.Reader) *Listener {
	return &Listener{scanner: bufio.NewScanner(r)}
}

// Listen blocks for the next utterance. It returns io.EOF when the stream
// ends and the scanner's error if reading fails.
func (l *Listener) Listen() (string, error) {
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return l.scanner.Text(), nil
}

// Speaker queues replies and writes them from a single goroutine, so
// concurrent callers never interleave output mid-utterance.
type Speaker struct {
	queue     chan string
	done      chan struct{}
	closeOnce sync.Once
}

// NewSpeaker starts the writer goroutine. Close must be called to flush and
// stop it.
func NewSpeaker(w io.Writer) *Speaker {
	s := &Speaker{
		queue: make(chan string, 16),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		for line := range s.queue {
			fmt.Fprintln(w, line)
		}
	}()
	return s
}

// Say enqueues one utterance. It blocks only when the queue is full.
func (s *Speaker) Say(text string) {
	s.queue <- text
}

// Close drains the queue and waits for the writer goroutine to finish.
func (s *Speaker) Close() {
	s.closeOnce.Do(func() {
		close(s.queue)
		<-s.done
	})
}
