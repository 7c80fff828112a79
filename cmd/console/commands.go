package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/murkotick/product-live-catalog/internal/app/product/screen"
)

const help = `commands:
  name <text>     set the name input
  price <text>    set the price input
  add             Add Product
  update          Update Product
  delete          Delete Product
  select <row>    fill inputs from a list row and act on it by id
  clear           drop the selection
  list            redraw the screen
  quit`

// output serializes writes from the subscription and the command loop.
type output struct {
	mu sync.Mutex
	w  io.Writer
}

func newOutput(w io.Writer) *output {
	return &output{w: w}
}

func (o *output) print(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	io.WriteString(o.w, s)
}

func (o *output) println(s string) {
	o.print(s + "\n")
}

// runCommands reads commands until quit, EOF or ctx ends.
func runCommands(ctx context.Context, in io.Reader, out *output, s *screen.Screen, writeTimeout time.Duration) {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !execute(ctx, line, out, s, writeTimeout) {
				return
			}
		}
	}
}

// execute runs one command line and reports whether to keep going.
func execute(ctx context.Context, line string, out *output, s *screen.Screen, writeTimeout time.Duration) bool {
	cmd, arg, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")
	action := func(run func(context.Context) screen.Notification) {
		actx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		run(actx)
	}

	switch strings.ToLower(cmd) {
	case "":
	case "name":
		s.SetName(arg)
	case "price":
		s.SetPrice(arg)
	case "add":
		action(s.AddProduct)
	case "update":
		action(s.UpdateProduct)
	case "delete":
		action(s.DeleteProduct)
	case "select":
		row, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			out.println("select needs a row number")
			break
		}
		if _, err := s.Select(row); err != nil {
			out.println(err.Error())
			break
		}
		out.print(screen.Render(s.View()))
	case "clear":
		s.ClearSelection()
	case "list":
		out.print(screen.Render(s.View()))
	case "help":
		out.println(help)
	case "quit", "exit":
		return false
	default:
		out.println(fmt.Sprintf("unknown command %q, type help", cmd))
	}
	return true
}
