package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"clipmix/catalog"
	"clipmix/config"
	"clipmix/jobs"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the local environment can run clipmix",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfg := config.FromEnv()
	failures := 0

	check := func(name string, err error) {
		if err != nil {
			failures++
			fmt.Fprintf(out, "❌ %-24s %v\n", name, err)
			return
		}
		fmt.Fprintf(out, "✅ %-24s ok\n", name)
	}

	// ffmpeg on PATH
	_, ffmpegErr := exec.LookPath("ffmpeg")
	check("ffmpeg", ffmpegErr)

	// catalog loads and is non-empty
	path := catalogPath(cmd)
	records, err := catalog.Load(path)
	if err == nil && len(records) == 0 {
		err = fmt.Errorf("%s has no usable rows", path)
	}
	check("catalog "+path, err)

	// redis reachable (optional for sequence-only use)
	store, redisErr := jobs.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if redisErr == nil {
		store.Close()
	}
	check("redis "+cfg.RedisAddr, redisErr)

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Fprintln(out, "All checks passed.")
	return nil
}
