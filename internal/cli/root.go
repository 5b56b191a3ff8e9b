package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		if stdinIsTTY() {
			return runTUI(nil)
		}
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "get":
		return runGet(args[1:])
	case "batch":
		return runBatch(args[1:])
	case "settings":
		return runSettings(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "tui":
		return runTUI(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("yt-media-fetcher: yt-dlp/ffmpeg download supervisor")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  yt-media-fetcher get https://www.youtube.com/watch?v=...")
	fmt.Println("  yt-media-fetcher batch urls.txt --format mp4")
	fmt.Println("  yt-media-fetcher tui")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  get       download a single URL (video page or playlist)")
	fmt.Println("  batch     download every URL listed in a text file, in order")
	fmt.Println("  tui       interactive downloader (default when run in a terminal)")
	fmt.Println("  settings  show/update persisted download defaults")
	fmt.Println("  doctor    run dependency and filesystem preflight checks")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Flags on get/batch override saved settings for that run")
	fmt.Println("  - Press Ctrl+C during a download to cancel it cleanly")
}
