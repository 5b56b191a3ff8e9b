package cli

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"yt-media-fetcher/internal/engine"
	"yt-media-fetcher/internal/store"
)

func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	jf := registerJobFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	file := strings.TrimSpace(fs.Arg(0))
	if file == "" {
		return errors.New("usage: yt-media-fetcher batch <urls.txt> [flags]")
	}
	urls, err := readURLFile(file)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("%s contains no URLs", file)
	}

	opts, err := jf.resolve()
	if err != nil {
		return err
	}

	lock, err := store.AcquireInstanceLock(jf.resolvedDataDir())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	m := engine.NewManager(engine.ManagerOptions{
		BinDirs: jf.binDirs(),
		LogDir:  jf.logDir(),
	})
	defer m.Close()

	fmt.Printf("batch: %d URL(s) from %s\n", len(urls), file)
	if _, err := m.StartBatch(urls, opts); err != nil {
		return err
	}
	return renderJob(m, opts.Verbose)
}

// readURLFile reads one URL per line, skipping blank lines and '#' comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}
	return urls, nil
}
