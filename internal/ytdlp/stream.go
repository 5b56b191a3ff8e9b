package ytdlp

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"yt-media-fetcher/internal/platform"
)

type OutputStream string

const (
	StreamStdout OutputStream = "stdout"
	StreamStderr OutputStream = "stderr"
)

// LineHandler receives each complete output line in arrival order. Calls for
// a single stream are sequential; stdout and stderr interleave.
type LineHandler func(stream OutputStream, line string)

// Process is one supervised external tool invocation. The handle is owned by
// exactly one goroutine and cleared once by Wait.
type Process struct {
	cmd     *exec.Cmd
	readers sync.WaitGroup
	tee     io.Writer
	teeMu   sync.Mutex
}

// StartStreaming launches bin with args, splitting both output streams into
// complete lines (any newline convention, incomplete trailing fragments held
// back) and feeding them to handler. The child gets its own process group so
// the full descendant tree can be terminated.
func StartStreaming(bin string, args []string, tee io.Writer, handler LineHandler) (*Process, error) {
	cmd := exec.Command(bin, args...)
	platform.SetupProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("setup stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("setup stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", bin, err)
	}

	p := &Process{cmd: cmd, tee: tee}
	p.readers.Add(2)
	go p.read(StreamStdout, stdoutPipe, handler)
	go p.read(StreamStderr, stderrPipe, handler)
	return p, nil
}

func (p *Process) read(stream OutputStream, r io.Reader, handler LineHandler) {
	defer p.readers.Done()
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	scanner.Split(splitByNewlineOrCR)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if p.tee != nil {
			p.teeMu.Lock()
			_, _ = io.WriteString(p.tee, line+"\n")
			p.teeMu.Unlock()
		}
		handler(stream, line)
	}
}

// Pid returns the child's process id, or 0 before start / after release.
func (p *Process) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Wait drains both readers, then reaps the child and returns its exit error.
func (p *Process) Wait() error {
	p.readers.Wait()
	return p.cmd.Wait()
}

// KillTree forcefully terminates the child and all its descendants.
func (p *Process) KillTree() error {
	return platform.KillTree(p.Pid())
}

// yt-dlp rewrites progress lines with bare carriage returns; treat CR and LF
// both as line terminators.
func splitByNewlineOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' || data[i] == '\r' {
			if i == 0 {
				return 1, nil, nil
			}
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
