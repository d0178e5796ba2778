package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/causelist/rod"
)

// WaitForEnter returns a rod.WaitFunc that blocks until the operator
// presses ENTER on in, so a CAPTCHA can be solved in the visible browser.
func WaitForEnter(in io.Reader, out io.Writer) rod.WaitFunc {
	return func(ctx context.Context) error {
		fmt.Fprintln(out, "Solve any CAPTCHA or form in the browser window, then press ENTER here to continue...")

		done := make(chan error, 1)
		go func() {
			_, err := bufio.NewReader(in).ReadString('\n')
			if err == io.EOF {
				err = nil
			}
			done <- err
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			return err
		}
	}
}
