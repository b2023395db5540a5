// Command chat_client is a minimal interactive client for manual
// testing against a running server. It pipes stdin to the server and
// server lines to stdout; the login exchange happens inline like any
// other prompt.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		log.Printf("chat_client: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "localhost:6969", "chat server address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	context.AfterFunc(ctx, func() { _ = conn.Close() })

	fmt.Printf("Connected to %s. Ctrl+C to exit.\n", *addr)

	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(os.Stdout, conn)
		done <- err
	}()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if _, err := fmt.Fprintf(conn, "%s\n", scanner.Text()); err != nil {
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-done:
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("read: %w", err)
		}
		return nil
	}
}
