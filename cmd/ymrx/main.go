// Command ymrx receives one file over a serial or terminal link using
// YMODEM.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
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
	device    = flag.String("d", "", "serial device path (empty uses stdin/stdout)")
	baud      = flag.Int("baud", 115200, "serial baud rate")
	outDir    = flag.String("o", ".", "directory to write the received file into")
	overwrite = flag.Bool("y", false, "overwrite an existing file")
	verbose   = flag.Bool("v", false, "verbose mode")
	quiet     = flag.Bool("q", false, "quiet mode")
	maxSize   = flag.Int("max-size", 64<<20, "largest file size accepted, in bytes")
	version   = flag.Bool("version", false, "show version")
)

const versionString = "ymrx version 0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Println(versionString)
		os.Exit(0)
	}

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

	var outFile *os.File
	callbacks := &ymodem.Callbacks{
		OnFilePrompt: func(filename string, size int64) (bool, error) {
			if *overwrite {
				return true, nil
			}
			path := filepath.Join(*outDir, filename)
			if _, err := os.Stat(path); err == nil {
				if !*quiet {
					fmt.Fprintf(os.Stderr, "Skipping %s (exists, use -y to overwrite)\n", filename)
				}
				return false, nil
			}
			if *verbose {
				fmt.Fprintf(os.Stderr, "Receiving: %s (%d bytes)\n", filename, size)
			}
			return true, nil
		},
		OnFileCreate: func(filename string, size int64) (io.Writer, error) {
			f, err := os.Create(filepath.Join(*outDir, filename))
			if err != nil {
				return nil, err
			}
			outFile = f
			return f, nil
		},
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
		OnFileComplete: func(filename string, bytesTransferred int64) {
			if outFile != nil {
				outFile.Close()
			}
			if !*quiet {
				fmt.Fprintf(os.Stderr, "\n%s: %d bytes received\n", filename, bytesTransferred)
			}
		},
		OnError: func(err error, context string) {
			if outFile != nil {
				outFile.Close()
			}
			fmt.Fprintf(os.Stderr, "Error in %s: %v\n", context, err)
		},
	}

	session := ymodem.NewSession(ch,
		ymodem.WithCallbacks(callbacks),
		ymodem.WithContext(ctx),
		ymodem.WithLogger(logger),
	)

	if _, _, err := session.ReceiveFile(ctx, *maxSize); err != nil {
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
