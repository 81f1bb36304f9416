package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Environment passed to extensions.
const (
	EnvConfigFile = "PFT_CONFIG"
	EnvLogLevel   = "PFT_LOG_LEVEL"
)

// RunExtension attempts to find and execute an external pft-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	return runExtension(os.Stdin, os.Stdout, os.Stderr, subcommand, args)
}

func runExtension(stdin io.Reader, stdout, stderr io.Writer, subcommand string, args []string) (bool, int) {
	name := "pft-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Pass global flags as environment variables
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvLogLevel+"="+*logLevel,
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
