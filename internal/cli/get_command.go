package cli

import (
	"errors"
	"flag"
	"strings"

	"yt-media-fetcher/internal/engine"
	"yt-media-fetcher/internal/store"
)

func runGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	jf := registerJobFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	url := strings.TrimSpace(fs.Arg(0))
	if url == "" {
		return errors.New("usage: yt-media-fetcher get <url> [flags]")
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

	if _, err := m.StartSingle(url, opts); err != nil {
		return err
	}
	return renderJob(m, opts.Verbose)
}
