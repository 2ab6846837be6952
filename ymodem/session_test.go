package ymodem_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rj45lab/goymodem/transport"
	"github.com/rj45lab/goymodem/ymodem"
)

func runTransfer(t *testing.T, data []byte, filename string) ([]byte, string) {
	t.Helper()

	txCh, rxCh := transport.NewLoopbackPair(4096)

	sender := ymodem.NewSession(txCh, ymodem.WithConfig(&ymodem.Config{Timeout: 2 * time.Second}))

	var received bytes.Buffer
	receiver := ymodem.NewSession(rxCh, ymodem.WithConfig(&ymodem.Config{Timeout: 2 * time.Second}),
		ymodem.WithCallbacks(&ymodem.Callbacks{
			OnFileCreate: func(name string, size int64) (io.Writer, error) {
				return &received, nil
			},
		}),
	)

	var wg sync.WaitGroup
	var sendErr, recvErr error
	var gotName string

	wg.Add(2)
	go func() {
		defer wg.Done()
		sendErr = sender.SendFile(context.Background(), filename, bytes.NewReader(data), int64(len(data)))
	}()
	go func() {
		defer wg.Done()
		gotName, _, recvErr = receiver.ReceiveFile(context.Background(), len(data)+2*ymodem.Packet1KSize)
	}()
	wg.Wait()

	if sendErr != nil {
		t.Fatalf("SendFile: %v", sendErr)
	}
	if recvErr != nil {
		t.Fatalf("ReceiveFile: %v", recvErr)
	}

	return received.Bytes(), gotName
}

func TestSessionSmallFile(t *testing.T) {
	data := []byte("a small file that fits in one 1K packet")
	got, name := runTransfer(t, data, "small.txt")

	if name != "small.txt" {
		t.Errorf("filename = %q, want %q", name, "small.txt")
	}
	if !bytes.Equal(got, data) {
		t.Errorf("received %d bytes, want %d bytes matching input", len(got), len(data))
	}
}

func TestSessionMultiPacketFile(t *testing.T) {
	data := make([]byte, 3*ymodem.Packet1KSize+137)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	got, name := runTransfer(t, data, "firmware.bin")

	if name != "firmware.bin" {
		t.Errorf("filename = %q, want %q", name, "firmware.bin")
	}
	if !bytes.Equal(got, data) {
		t.Errorf("received data does not match sent data (got %d bytes, want %d)", len(got), len(data))
	}
}

func TestSessionEmptyFile(t *testing.T) {
	got, name := runTransfer(t, nil, "empty.txt")
	if name != "empty.txt" {
		t.Errorf("filename = %q, want %q", name, "empty.txt")
	}
	if len(got) != 0 {
		t.Errorf("received %d bytes for an empty file", len(got))
	}
}
