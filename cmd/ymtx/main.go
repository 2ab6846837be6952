// Command ymtx sends one file over a serial or terminal link using
// YMODEM.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/rj45lab/goymodem/internal/ylog"
	"github.com/rj45lab/goymodem/transport"
	"github.com/rj45lab/goymodem/ymodem"
)

var (
	device  = flag.String("d", "", "serial device path (empty uses stdin/stdout)")
	baud    = flag.Int("baud", 115200, "serial baud rate")
	verbose = flag.Bool("v", false, "verbose mode")
	quiet   = flag.Bool("q", false, "quiet mode")
	version = flag.Bool("version", false, "show version")
)

const versionString = "ymtx version 0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Println(versionString)
		os.Exit(0)
	}

	files := flag.Args()
	if len(files) != 1 {
		fmt.Fprintf(os.Stderr, "%s: exactly one file must be given\n", os.Args[0])
		os.Exit(1)
	}
	path := files[0]

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := signalContext(sigChan)
	defer cancel()

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logger := ylog.New(nil)

	ch, closer, err := openChannel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening channel: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer()
	}

	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
		os.Exit(1)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error accessing %s: %v\n", path, err)
		os.Exit(1)
	}
	if info.IsDir() {
		fmt.Fprintf(os.Stderr, "%s is a directory\n", path)
		os.Exit(1)
	}

	callbacks := &ymodem.Callbacks{
		OnProgress: func(filename string, transferred, total int64, rate float64) {
			if *quiet {
				return
			}
			percent := float64(0)
			if total > 0 {
				percent = float64(transferred) / float64(total) * 100
			}
			fmt.Fprintf(os.Stderr, "\r%s: %.1f%% (%.0f bytes/s)", filename, percent, rate)
		},
		OnFileStart: func(filename string, size int64) {
			if *verbose && !*quiet {
				fmt.Fprintf(os.Stderr, "Sending: %s (%d bytes)\n", filename, size)
			}
		},
		OnFileComplete: func(filename string, bytesTransferred int64) {
			if !*quiet {
				fmt.Fprintf(os.Stderr, "\n%s: %d bytes sent\n", filename, bytesTransferred)
			}
		},
		OnError: func(err error, context string) {
			fmt.Fprintf(os.Stderr, "Error in %s: %v\n", context, err)
		},
	}

	session := ymodem.NewSession(ch,
		ymodem.WithCallbacks(callbacks),
		ymodem.WithContext(ctx),
		ymodem.WithLogger(logger),
	)

	if err := session.SendFile(ctx, filepath.Base(path), file, info.Size()); err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func openChannel() (ymodem.ByteChannel, func() error, error) {
	if *device == "" {
		term, err := transport.OpenTermChannel()
		if err != nil {
			return nil, nil, err
		}
		return term, func() error { return term.Restore() }, nil
	}
	cfg := transport.DefaultSerialConfig()
	cfg.BaudRate = *baud
	return transport.OpenSerialChannel(*device, cfg)
}

func signalContext(sigChan chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}
