package transport

import (
	"io"
	"time"

	"golang.org/x/crypto/ssh"
)

// sshAdapter wraps an SSH session's stdin/stdout pipes. An ssh.Session
// pipe has no deadline support, so reads simply block until the remote
// writes or closes the pipe.
type sshAdapter struct {
	stdout io.Reader
	stdin  io.Writer
}

func (a *sshAdapter) Read(p []byte) (int, error)      { return a.stdout.Read(p) }
func (a *sshAdapter) Write(p []byte) (int, error)     { return a.stdin.Write(p) }
func (a *sshAdapter) SetReadDeadline(time.Time) error { return nil }

// SSHChannel runs a YMODEM endpoint (ymrx/ymtx) over an SSH session's
// stdio, so a transfer can be driven against a remote host the way sz/rz
// are driven over a remote shell.
type SSHChannel struct {
	*Channel
	session *ssh.Session
}

// OpenSSHChannel starts remoteCmd on session and returns a channel wired
// to its stdin/stdout.
func OpenSSHChannel(session *ssh.Session, remoteCmd string) (*SSHChannel, error) {
	stdin, err := session.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := session.Start(remoteCmd); err != nil {
		return nil, err
	}
	ch := NewChannel(&sshAdapter{stdout: stdout, stdin: stdin})
	return &SSHChannel{Channel: ch, session: session}, nil
}

// Wait blocks until the remote command exits.
func (s *SSHChannel) Wait() error {
	return s.session.Wait()
}

// Close closes the underlying SSH session.
func (s *SSHChannel) Close() error {
	return s.session.Close()
}
