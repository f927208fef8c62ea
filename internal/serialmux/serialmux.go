// Package serialmux drives a line-oriented serial console for a fitted
// clusterer: the text report is streamed to the port, and a device or
// terminal on the other end can ask for predictions and neighbour counts.
package serialmux

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/banshee-data/dbscan/internal/dataset"
	"github.com/banshee-data/dbscan/internal/dbscan"
	"github.com/banshee-data/dbscan/internal/monitoring"
	"github.com/banshee-data/dbscan/internal/report"
)

var ErrWriteFailed = errors.New("failed to write to serial port")

// Console writes clustering output to a single serial port and answers
// commands read from it.
//
// Commands, one per line:
//
//	report               quality report of the last run
//	partition            noise bucket and cluster members by index
//	predict x,y,...      cluster id for a vector, or -1
//	neighbours x,y,...   number of dataset points within eps of a vector
type Console[T SerialPorter] struct {
	port      T
	writeMu   sync.Mutex
	closing   bool
	closingMu sync.Mutex
}

// NewConsole creates a Console backed by port.
func NewConsole[T SerialPorter](port T) *Console[T] {
	return &Console[T]{port: port}
}

// WriteLine writes line to the port, appending a newline if missing.
func (c *Console[T]) WriteLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	n, err := c.port.Write([]byte(line))
	if err != nil {
		return err
	}
	if n != len(line) {
		return ErrWriteFailed
	}
	return nil
}

// WriteReport streams the text report line by line.
func (c *Console[T]) WriteReport(rep *dbscan.QualityReport) error {
	var buf bytes.Buffer
	if err := report.WriteText(&buf, rep); err != nil {
		return err
	}
	return c.writeLines(&buf)
}

func (c *Console[T]) writeLines(buf *bytes.Buffer) error {
	scan := bufio.NewScanner(buf)
	for scan.Scan() {
		if err := c.WriteLine(scan.Text()); err != nil {
			return err
		}
	}
	return scan.Err()
}

// Serve reads commands from the port until ctx is cancelled, the port is
// closed or a write fails. cl must not be used elsewhere while Serve runs.
func (c *Console[T]) Serve(ctx context.Context, cl *dbscan.Clusterer) error {
	scan := bufio.NewScanner(c.port)

	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	// The blocking scan runs on its own goroutine so cancellation is seen
	// while waiting for input.
	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			select {
			case scanErrChan <- err:
			case <-ctx.Done():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			if c.isClosing() {
				return nil
			}
			return err

		case line, ok := <-lineChan:
			if !ok || c.isClosing() {
				return nil
			}
			if err := c.handle(cl, line); err != nil {
				return err
			}
		}
	}
}

// handle runs one command. Only write failures are returned; bad input is
// reported back over the port.
func (c *Console[T]) handle(cl *dbscan.Clusterer, line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	if cmd == "" {
		return nil
	}
	monitoring.Debugf("[serialmux] command %q", line)

	switch strings.ToLower(cmd) {
	case "report":
		rep, err := cl.Report()
		if err != nil {
			return c.WriteLine("error: " + err.Error())
		}
		return c.WriteReport(rep)

	case "partition":
		res := cl.Result()
		if res == nil {
			return c.WriteLine("error: " + dbscan.ErrNotFitted.Error())
		}
		var buf bytes.Buffer
		if err := report.WritePartition(&buf, res.Partition); err != nil {
			return err
		}
		return c.writeLines(&buf)

	case "predict":
		v, err := dataset.ParseVectorString(arg)
		if err != nil {
			return c.WriteLine("error: " + err.Error())
		}
		id, err := cl.Predict(v)
		if err != nil {
			return c.WriteLine("error: " + err.Error())
		}
		return c.WriteLine(fmt.Sprintf("predict: %d", id))

	case "neighbours", "neighbors":
		v, err := dataset.ParseVectorString(arg)
		if err != nil {
			return c.WriteLine("error: " + err.Error())
		}
		n, err := cl.NeighborCount(v)
		if err != nil {
			return c.WriteLine("error: " + err.Error())
		}
		return c.WriteLine(fmt.Sprintf("neighbours: %d", n))

	default:
		return c.WriteLine(fmt.Sprintf("error: unknown command %q", cmd))
	}
}

func (c *Console[T]) isClosing() bool {
	c.closingMu.Lock()
	defer c.closingMu.Unlock()
	return c.closing
}

// Close stops Serve and closes the serial port.
func (c *Console[T]) Close() error {
	c.closingMu.Lock()
	c.closing = true
	c.closingMu.Unlock()
	return c.port.Close()
}
